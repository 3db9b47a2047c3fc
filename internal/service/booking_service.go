package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/repository"
	"gorm.io/gorm"
)

const (
	maxBookingDuration = 4
	maxBlockDuration   = 12
)

type CreateBookingInput struct {
	Date              time.Time
	StartHour         int
	Duration          int
	ParticipantNames  []string
	ReserverID        uint
	RequestedTotalFee *float64
}

// UpdateBookingInput carries a partial edit; nil fields are unchanged.
type UpdateBookingInput struct {
	Date             *time.Time
	StartHour        *int
	Duration         *int
	ParticipantNames []string
}

type CreateBlockInput struct {
	Date        time.Time
	StartHour   int
	Duration    int
	BlockReason string
	BlockNotes  string
}

type ReservationService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id uint, in UpdateBookingInput) (*models.Booking, error)
	CancelBooking(ctx context.Context, id uint, reason string) (*models.Booking, bool, error)
	CreateBlock(ctx context.Context, in CreateBlockInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context, date time.Time) ([]models.Booking, error)
	SweepNoShows(ctx context.Context) (int64, error)
}

type reservationService struct {
	bookingRepo  repository.BookingRepository
	paymentRepo  repository.PaymentRepository
	memberRepo   repository.MemberRepository
	availability *AvailabilityChecker
	resolver     *PlayerResolver
	fees         *FeeCalculator
	allocator    *PaymentAllocator
	publisher    EventPublisher
	now          func() time.Time
}

func NewReservationService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	memberRepo repository.MemberRepository,
	availability *AvailabilityChecker,
	resolver *PlayerResolver,
	fees *FeeCalculator,
	allocator *PaymentAllocator,
	publisher EventPublisher,
) ReservationService {
	return &reservationService{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		memberRepo:   memberRepo,
		availability: availability,
		resolver:     resolver,
		fees:         fees,
		allocator:    allocator,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *reservationService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	// Stale pending rows must stop occupying the timeline before any
	// availability math runs.
	if _, err := s.SweepNoShows(ctx); err != nil {
		log.Printf("[ReservationService] no-show sweep failed: %v", err)
	}

	if err := s.validateRange(in.Date, in.StartHour, in.Duration, maxBookingDuration); err != nil {
		return nil, err
	}
	if err := s.checkOverdueGate(ctx, in.ReserverID); err != nil {
		return nil, err
	}

	endHour := in.StartHour + in.Duration
	if err := s.availability.IsRangeAvailable(ctx, in.Date, in.StartHour, endHour, nil); err != nil {
		return nil, err
	}

	roster, err := s.memberRepo.FindApproved(ctx)
	if err != nil {
		return nil, err
	}
	participants := s.resolver.Classify(in.ParticipantNames, roster)

	fee := s.fees.ComputeFee(in.StartHour, endHour, participants)
	if in.RequestedTotalFee != nil {
		// Trusted upstream already ran the same formula; use its total as-is.
		fee.Total = *in.RequestedTotalFee
	}

	reserverID := in.ReserverID
	booking := &models.Booking{
		Date:          models.DateOnly(in.Date),
		StartHour:     in.StartHour,
		Duration:      in.Duration,
		EndHour:       endHour,
		Status:        models.StatusPending,
		PaymentStatus: models.AggregateUnpaid,
		TotalFee:      fee.Total,
		ReserverID:    &reserverID,
		Participants:  participants,
	}

	// The fee-split classification is deliberately looser than the one
	// stored on the booking; see PlayerResolver.
	splitParticipants := s.resolver.ClassifyForSplit(in.ParticipantNames, roster)

	var payments []models.Payment
	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			// Losing a create race surfaces here as a duplicate key on the
			// partial unique index; report it as an ordinary slot conflict.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Code: RejectSlotConflict, Hours: hourSpan(in.StartHour, endHour)}
			}
			return err
		}
		payments = s.allocator.Allocate(booking, splitParticipants, fee, DueDatePostPlay)
		return s.allocator.Persist(ctx, tx, payments)
	})
	if err != nil {
		return nil, err
	}

	s.allocator.NotifyCreated(payments)
	if err := s.allocator.CheckConsistency(booking, payments); err != nil {
		log.Printf("[ReservationService] %v", err)
	}

	booking.Payments = payments
	return booking, nil
}

func (s *reservationService) UpdateBooking(ctx context.Context, id uint, in UpdateBookingInput) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.Status.Terminal() {
		return nil, &StateError{BookingID: booking.ID, Status: booking.Status}
	}

	date := booking.Date
	startHour := booking.StartHour
	duration := booking.Duration
	if in.Date != nil {
		date = models.DateOnly(*in.Date)
	}
	if in.StartHour != nil {
		startHour = *in.StartHour
	}
	if in.Duration != nil {
		duration = *in.Duration
	}

	timeChanged := !date.Equal(booking.Date) || startHour != booking.StartHour || duration != booking.Duration
	participantsChanged := in.ParticipantNames != nil && !sameNames(in.ParticipantNames, booking.Participants)

	maxDuration := maxBookingDuration
	if booking.Status == models.StatusBlocked {
		maxDuration = maxBlockDuration
	}
	if timeChanged {
		if err := s.validateRange(date, startHour, duration, maxDuration); err != nil {
			return nil, err
		}
		if err := s.availability.IsRangeAvailable(ctx, date, startHour, startHour+duration, &booking.ID); err != nil {
			return nil, err
		}
	}

	booking.Date = date
	booking.StartHour = startHour
	booking.Duration = duration
	booking.EndHour = startHour + duration

	// Administrative blocks carry no fee or payments; a time edit just moves
	// the hold. Otherwise only a change to the effective time range or the
	// participant list reprices the booking and reconciles its payments.
	if booking.Status == models.StatusBlocked || (!timeChanged && !participantsChanged) {
		if err := s.bookingRepo.Save(ctx, s.bookingRepo.GetDB(), booking); err != nil {
			return nil, err
		}
		return booking, nil
	}

	names := namesOf(booking.Participants)
	if in.ParticipantNames != nil {
		names = in.ParticipantNames
	}

	roster, err := s.memberRepo.FindApproved(ctx)
	if err != nil {
		return nil, err
	}
	participants := s.resolver.Classify(names, roster)
	splitParticipants := s.resolver.ClassifyForSplit(names, roster)

	fee := s.fees.ComputeFee(booking.StartHour, booking.EndHour, participants)
	booking.TotalFee = fee.Total
	booking.Participants = participants

	var created, cancelled []models.Payment
	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bookingRepo.Save(ctx, tx, booking); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Code: RejectSlotConflict, Hours: hourSpan(booking.StartHour, booking.EndHour)}
			}
			return err
		}
		if err := s.bookingRepo.ReplaceParticipants(ctx, tx, booking.ID, participants); err != nil {
			return err
		}
		created = s.allocator.Allocate(booking, splitParticipants, fee, DueDatePostPlay)
		cancelled, err = s.allocator.Reallocate(ctx, tx, booking, created)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.allocator.NotifyCancelled(cancelled)
	s.allocator.NotifyCreated(created)
	if err := s.allocator.CheckConsistency(booking, created); err != nil {
		log.Printf("[ReservationService] %v", err)
	}

	booking.Payments = created
	return booking, nil
}

func (s *reservationService) CancelBooking(ctx context.Context, id uint, reason string) (*models.Booking, bool, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrBookingNotFound
		}
		return nil, false, err
	}
	if booking.Status.Terminal() {
		return nil, false, &StateError{BookingID: booking.ID, Status: booking.Status}
	}

	// A booking fully paid through the internal credit mechanism gets a
	// proportional refund; detecting the trigger is our job, the refund
	// mechanics belong to the credits service.
	refundTriggered := booking.PaymentStatus == models.AggregatePaid && booking.PaidViaCredit

	var cancelled []models.Payment
	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID, models.StatusCancelled); err != nil {
			return err
		}
		cancelled, err = s.paymentRepo.FindPendingByBooking(ctx, tx, booking.ID)
		if err != nil {
			return err
		}
		return s.paymentRepo.CancelPendingByBooking(ctx, tx, booking.ID)
	})
	if err != nil {
		return nil, false, err
	}

	booking.Status = models.StatusCancelled
	s.allocator.NotifyCancelled(cancelled)

	if refundTriggered && s.publisher != nil {
		if err := s.publisher.Publish("booking.refund_due", map[string]any{
			"booking_id": booking.ID,
			"total_fee":  booking.TotalFee,
			"reason":     reason,
		}); err != nil {
			log.Printf("[ReservationService] publish refund trigger for booking %d: %v", booking.ID, err)
		}
	}

	return booking, refundTriggered, nil
}

// CreateBlock places an administrative hold: no fee, no participants, but the
// hours still go through the availability check.
func (s *reservationService) CreateBlock(ctx context.Context, in CreateBlockInput) (*models.Booking, error) {
	if _, err := s.SweepNoShows(ctx); err != nil {
		log.Printf("[ReservationService] no-show sweep failed: %v", err)
	}
	if err := s.validateRange(in.Date, in.StartHour, in.Duration, maxBlockDuration); err != nil {
		return nil, err
	}

	endHour := in.StartHour + in.Duration
	if err := s.availability.IsRangeAvailable(ctx, in.Date, in.StartHour, endHour, nil); err != nil {
		return nil, err
	}

	block := &models.Booking{
		Date:        models.DateOnly(in.Date),
		StartHour:   in.StartHour,
		Duration:    in.Duration,
		EndHour:     endHour,
		Status:      models.StatusBlocked,
		BlockReason: in.BlockReason,
		BlockNotes:  in.BlockNotes,
	}

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bookingRepo.Create(ctx, tx, block); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Code: RejectSlotConflict, Hours: hourSpan(in.StartHour, endHour)}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

func (s *reservationService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *reservationService) ListBookings(ctx context.Context, date time.Time) ([]models.Booking, error) {
	return s.bookingRepo.FindByDate(ctx, date)
}

func (s *reservationService) SweepNoShows(ctx context.Context) (int64, error) {
	swept, err := s.bookingRepo.MarkNoShows(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		log.Printf("[ReservationService] swept %d past-due pending booking(s) to no_show", swept)
	}
	return swept, nil
}

func (s *reservationService) validateRange(date time.Time, startHour, duration, maxDuration int) error {
	tariff := s.fees.Tariff()
	today := models.DateOnly(s.now())
	if models.DateOnly(date).Before(today) {
		return &ValidationError{Code: RejectPastDate, Message: "booking date is in the past"}
	}
	if duration < 1 || duration > maxDuration {
		return &ValidationError{Code: RejectBadDuration, Message: "duration is out of range"}
	}
	if startHour < tariff.OpenHour || startHour >= tariff.CloseHour {
		return &ValidationError{Code: RejectOutOfHours, Message: "start hour is outside operating hours"}
	}
	if startHour+duration > tariff.CloseHour {
		return &ValidationError{Code: RejectOutOfHours, Message: "booking would run past closing hour"}
	}
	return nil
}

// checkOverdueGate blocks creation while the requester holds payments overdue
// by a day or more, or unpaid bookings whose date has already passed.
func (s *reservationService) checkOverdueGate(ctx context.Context, reserverID uint) error {
	startOfToday := models.DateOnly(s.now())

	var items []OverdueItem
	overdue, err := s.paymentRepo.FindOverdueByMember(ctx, reserverID, startOfToday)
	if err != nil {
		return err
	}
	for _, p := range overdue {
		items = append(items, OverdueItem{
			PaymentID:   p.ID,
			Amount:      p.Amount,
			DueDate:     p.DueDate,
			Description: p.Description,
		})
	}

	unpaid, err := s.bookingRepo.FindUnpaidPastByReserver(ctx, reserverID, startOfToday)
	if err != nil {
		return err
	}
	for _, b := range unpaid {
		items = append(items, OverdueItem{
			Amount:      b.TotalFee,
			DueDate:     b.Date,
			Description: "unpaid booking on " + b.Date.Format("2006-01-02"),
		})
	}

	if len(items) > 0 {
		return &GateError{Items: items}
	}
	return nil
}

func sameNames(names []string, participants []models.Participant) bool {
	if len(names) != len(participants) {
		return false
	}
	for i, n := range names {
		if normalizeName(n) != normalizeName(participants[i].Name) {
			return false
		}
	}
	return true
}

func namesOf(participants []models.Participant) []string {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	return names
}

func hourSpan(start, end int) []int {
	hours := make([]int, 0, end-start)
	for h := start; h < end; h++ {
		hours = append(hours, h)
	}
	return hours
}
