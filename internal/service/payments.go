package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/repository"
	"gorm.io/gorm"
)

// DueDatePolicy names the two inherited due-date rules. The variant is always
// chosen by the caller, never inferred from the code path.
type DueDatePolicy string

const (
	// DueDatePostPlay: payment is expected the day after play. Used for
	// obligations generated automatically at booking creation.
	DueDatePostPlay DueDatePolicy = "post_play"
	// DueDateEarliestOfWeekOrDayBefore: same-day bookings are due by end of
	// day; advance bookings by the earlier of (date − 1 day) and
	// (now + 7 days). Used for manually created obligations.
	DueDateEarliestOfWeekOrDayBefore DueDatePolicy = "earliest_of_week_or_day_before"
)

// EventPublisher is the outbound side-effect channel. Created and cancelled
// payments are reported so notification and report services can react; this
// core performs no notification itself.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type PaymentAllocator struct {
	payments  repository.PaymentRepository
	publisher EventPublisher
	now       func() time.Time
}

func NewPaymentAllocator(payments repository.PaymentRepository, publisher EventPublisher) *PaymentAllocator {
	return &PaymentAllocator{
		payments:  payments,
		publisher: publisher,
		now:       time.Now,
	}
}

// Allocate builds one pending payment per member participant. The fee total
// net of guest surcharges splits evenly across members; the reserver's row
// additionally absorbs the whole guest surcharge. Guests never hold payments.
// Amounts round to 2 decimals per row with no cross-member reconciliation —
// sub-centavo drift across members is accepted.
func (a *PaymentAllocator) Allocate(booking *models.Booking, participants []models.Participant, fee FeeBreakdown, policy DueDatePolicy) []models.Payment {
	var memberIDs []uint
	for _, p := range participants {
		if p.IsMember && p.MemberID != nil {
			memberIDs = append(memberIDs, *p.MemberID)
		}
	}

	if len(memberIDs) == 0 {
		// All-guest bookings produce no collectible payments. Deliberate
		// policy, surfaced in logs so the uncollected fee is visible.
		if fee.Total > 0 {
			log.Printf("[PaymentAllocator] booking on %s has no member participants; fee %.2f is uncollectable",
				booking.Date.Format("2006-01-02"), fee.Total)
		}
		return nil
	}

	memberShare := round2((fee.Total - fee.GuestTotal) / float64(len(memberIDs)))
	dueDate := a.DueDate(booking.Date, policy)
	description := fmt.Sprintf("Court booking %s %02d:00-%02d:00",
		booking.Date.Format("2006-01-02"), booking.StartHour, booking.EndHour)

	payments := make([]models.Payment, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		amount := memberShare
		if booking.ReserverID != nil && memberID == *booking.ReserverID {
			amount = round2(memberShare + fee.GuestTotal)
		}
		payments = append(payments, models.Payment{
			BookingID:   booking.ID,
			MemberID:    memberID,
			Amount:      amount,
			DueDate:     dueDate,
			Status:      models.PaymentPending,
			Description: description,
		})
	}
	return payments
}

// DueDate applies the named policy to a booking date.
func (a *PaymentAllocator) DueDate(bookingDate time.Time, policy DueDatePolicy) time.Time {
	day := models.DateOnly(bookingDate)
	switch policy {
	case DueDateEarliestOfWeekOrDayBefore:
		today := models.DateOnly(a.now())
		if day.Equal(today) {
			return endOfDay(day)
		}
		dayBefore := endOfDay(day.AddDate(0, 0, -1))
		weekOut := a.now().AddDate(0, 0, 7)
		if dayBefore.Before(weekOut) {
			return dayBefore
		}
		return weekOut
	default: // DueDatePostPlay
		return endOfDay(day.AddDate(0, 0, 1))
	}
}

// Persist writes a fresh allocation inside the caller's transaction.
func (a *PaymentAllocator) Persist(ctx context.Context, tx *gorm.DB, payments []models.Payment) error {
	return a.payments.CreateBatch(ctx, tx, payments)
}

// Reallocate retires the booking's pending payments and persists the new set.
// Both steps run inside the caller's transaction so the booking is never
// observable with a half-replaced payment set. The cancelled rows are
// returned for post-commit notification.
func (a *PaymentAllocator) Reallocate(ctx context.Context, tx *gorm.DB, booking *models.Booking, fresh []models.Payment) ([]models.Payment, error) {
	cancelled, err := a.payments.FindPendingByBooking(ctx, tx, booking.ID)
	if err != nil {
		return nil, err
	}
	if err := a.payments.CancelPendingByBooking(ctx, tx, booking.ID); err != nil {
		return nil, err
	}
	if err := a.payments.CreateBatch(ctx, tx, fresh); err != nil {
		return nil, err
	}
	return cancelled, nil
}

// CheckConsistency verifies that the allocation covers the booking's total
// fee within rounding tolerance (members × 0.01). A zero-payment allocation
// is the explicit all-guest policy and is exempt.
func (a *PaymentAllocator) CheckConsistency(booking *models.Booking, payments []models.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	var sum float64
	for _, p := range payments {
		if p.Status != models.PaymentCancelled {
			sum += p.Amount
		}
	}
	tolerance := float64(len(payments)) * 0.01
	if math.Abs(sum-booking.TotalFee) > tolerance+1e-9 {
		return &AllocationInconsistencyError{
			BookingID: booking.ID,
			Expected:  booking.TotalFee,
			Allocated: sum,
		}
	}
	return nil
}

// NotifyCreated and NotifyCancelled report payment lifecycle changes to the
// exchange. Called after the owning transaction commits.
func (a *PaymentAllocator) NotifyCreated(payments []models.Payment) {
	a.notify("payment.created", payments)
}

func (a *PaymentAllocator) NotifyCancelled(payments []models.Payment) {
	a.notify("payment.cancelled", payments)
}

func (a *PaymentAllocator) notify(routingKey string, payments []models.Payment) {
	if a.publisher == nil {
		return
	}
	for _, p := range payments {
		if err := a.publisher.Publish(routingKey, p); err != nil {
			log.Printf("[PaymentAllocator] publish %s for payment %d: %v", routingKey, p.ID, err)
		}
	}
}

func endOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Second)
}
