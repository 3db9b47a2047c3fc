package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
	StatusBlocked   BookingStatus = "blocked"
)

// Occupies reports whether a booking in this status holds its hours on the
// timeline for conflict purposes.
func (s BookingStatus) Occupies() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusBlocked
}

// Terminal statuses permit no further time or participant changes.
func (s BookingStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type PaymentAggregate string

const (
	AggregateUnpaid  PaymentAggregate = "unpaid"
	AggregatePartial PaymentAggregate = "partial"
	AggregatePaid    PaymentAggregate = "paid"
)

type Booking struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Date          time.Time        `gorm:"type:date;not null;index" json:"date"`
	StartHour     int              `gorm:"not null" json:"start_hour"`
	Duration      int              `gorm:"not null" json:"duration"`
	EndHour       int              `gorm:"not null" json:"end_hour"`
	Status        BookingStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus PaymentAggregate `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	PaidViaCredit bool             `gorm:"not null;default:false" json:"paid_via_credit"`
	TotalFee      float64          `gorm:"not null;default:0" json:"total_fee"`
	ReserverID    *uint            `json:"reserver_id,omitempty"`
	BlockReason   string           `json:"block_reason,omitempty"`
	BlockNotes    string           `json:"block_notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	Participants []Participant `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	Payments     []Payment     `gorm:"foreignKey:BookingID" json:"payments,omitempty"`
}

// Participant is one named player on a booking. IsMember and MemberID move
// together: a member always carries its roster reference, a guest never does.
type Participant struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BookingID uint   `gorm:"not null;index" json:"booking_id"`
	Name      string `gorm:"not null" json:"name"`
	IsMember  bool   `gorm:"not null" json:"is_member"`
	MemberID  *uint  `json:"member_id,omitempty"`
}

// DateOnly truncates t to midnight in its own location. Booking dates are
// stored and compared at day resolution.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
