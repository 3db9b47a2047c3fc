package models

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRecord    PaymentStatus = "record"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is one member's financial obligation for a booking. Guests never
// hold payments; their surcharge is folded into the reserver's row. Superseded
// payments are cancelled, never deleted, so the audit trail survives edits.
type Payment struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	BookingID   uint          `gorm:"not null;index" json:"booking_id"`
	MemberID    uint          `gorm:"not null;index" json:"member_id"`
	Amount      float64       `gorm:"not null" json:"amount"`
	DueDate     time.Time     `gorm:"not null" json:"due_date"`
	Status      PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
