package models

import "time"

// BlockedEvent is an hour range reserved by the external event system. Rows
// are synced from the court.block.* feed and consumed read-only by
// availability checks; they never go through the booking flow.
type BlockedEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID uint      `gorm:"not null;uniqueIndex" json:"external_id"`
	Name       string    `gorm:"not null" json:"name"`
	Date       time.Time `gorm:"type:date;not null;index" json:"date"`
	StartHour  int       `gorm:"not null" json:"start_hour"`
	EndHour    int       `gorm:"not null" json:"end_hour"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
