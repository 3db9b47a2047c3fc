package models

import "time"

type MemberStatus string

const (
	MemberApproved        MemberStatus = "approved"
	MemberPendingApproval MemberStatus = "pending"
	MemberSuspended       MemberStatus = "suspended"
)

// Member is a roster row. The roster is owned by an external membership
// system; this service only reads the approved snapshot for classification.
type Member struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Status    MemberStatus `gorm:"type:varchar(20);not null;default:'approved'" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
