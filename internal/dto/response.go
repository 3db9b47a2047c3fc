package dto

import (
	"time"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
)

type ParticipantResponse struct {
	Name     string `json:"name"`
	IsMember bool   `json:"is_member"`
	MemberID *uint  `json:"member_id,omitempty"`
}

type BookingResponse struct {
	ID            uint                    `json:"id"`
	Date          string                  `json:"date"`
	StartHour     int                     `json:"start_hour"`
	EndHour       int                     `json:"end_hour"`
	Duration      int                     `json:"duration"`
	Status        models.BookingStatus    `json:"status"`
	PaymentStatus models.PaymentAggregate `json:"payment_status"`
	TotalFee      float64                 `json:"total_fee"`
	PaymentCount  int                     `json:"payment_count"`
	BlockReason   string                  `json:"block_reason,omitempty"`
	Participants  []ParticipantResponse   `json:"participants,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

type CancelBookingResponse struct {
	Booking         BookingResponse `json:"booking"`
	RefundTriggered bool            `json:"refund_triggered"`
}

type BlockedEventResponse struct {
	Name      string `json:"name"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
}

type AvailabilityResponse struct {
	Date       string                 `json:"date"`
	StartHours []int                  `json:"start_hours"`
	EndHours   []int                  `json:"end_hours"`
	Blocked    []BlockedEventResponse `json:"blocked_events"`
}

// RejectionResponse is the structured refusal body: Code is machine-readable,
// Details carries conflicting hours, the source event, or the itemized
// overdue list depending on the code.
type RejectionResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	participants := make([]ParticipantResponse, len(b.Participants))
	for i, p := range b.Participants {
		participants[i] = ParticipantResponse{
			Name:     p.Name,
			IsMember: p.IsMember,
			MemberID: p.MemberID,
		}
	}
	return BookingResponse{
		ID:            b.ID,
		Date:          b.Date.Format("2006-01-02"),
		StartHour:     b.StartHour,
		EndHour:       b.EndHour,
		Duration:      b.Duration,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		TotalFee:      b.TotalFee,
		PaymentCount:  len(b.Payments),
		BlockReason:   b.BlockReason,
		Participants:  participants,
		CreatedAt:     b.CreatedAt,
	}
}
