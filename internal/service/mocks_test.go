package service

import (
	"context"
	"time"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
	"gorm.io/gorm"
)

// Hand-rolled repository mocks. Only the funcs a test sets are exercised;
// everything else returns zero values.

type mockBookingRepo struct {
	findActiveByDateFn         func(ctx context.Context, date time.Time, excludeID *uint) ([]models.Booking, error)
	findByIDFn                 func(ctx context.Context, id uint) (*models.Booking, error)
	findUnpaidPastByReserverFn func(ctx context.Context, reserverID uint, before time.Time) ([]models.Booking, error)
	markNoShowsFn              func(ctx context.Context, before time.Time) (int64, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error { return nil }
func (m *mockBookingRepo) Save(ctx context.Context, tx *gorm.DB, b *models.Booking) error   { return nil }
func (m *mockBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockBookingRepo) FindByDate(ctx context.Context, date time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (m *mockBookingRepo) FindActiveByDate(ctx context.Context, date time.Time, excludeID *uint) ([]models.Booking, error) {
	if m.findActiveByDateFn != nil {
		return m.findActiveByDateFn(ctx, date, excludeID)
	}
	return nil, nil
}
func (m *mockBookingRepo) FindUnpaidPastByReserver(ctx context.Context, reserverID uint, before time.Time) ([]models.Booking, error) {
	if m.findUnpaidPastByReserverFn != nil {
		return m.findUnpaidPastByReserverFn(ctx, reserverID, before)
	}
	return nil, nil
}
func (m *mockBookingRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error {
	return nil
}
func (m *mockBookingRepo) ReplaceParticipants(ctx context.Context, tx *gorm.DB, bookingID uint, participants []models.Participant) error {
	return nil
}
func (m *mockBookingRepo) MarkNoShows(ctx context.Context, before time.Time) (int64, error) {
	if m.markNoShowsFn != nil {
		return m.markNoShowsFn(ctx, before)
	}
	return 0, nil
}
func (m *mockBookingRepo) GetDB() *gorm.DB { return nil }

type mockPaymentRepo struct {
	findOverdueByMemberFn func(ctx context.Context, memberID uint, dueBefore time.Time) ([]models.Payment, error)
}

func (m *mockPaymentRepo) CreateBatch(ctx context.Context, tx *gorm.DB, payments []models.Payment) error {
	return nil
}
func (m *mockPaymentRepo) FindByBooking(ctx context.Context, bookingID uint) ([]models.Payment, error) {
	return nil, nil
}
func (m *mockPaymentRepo) FindPendingByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) ([]models.Payment, error) {
	return nil, nil
}
func (m *mockPaymentRepo) CancelPendingByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) error {
	return nil
}
func (m *mockPaymentRepo) FindOverdueByMember(ctx context.Context, memberID uint, dueBefore time.Time) ([]models.Payment, error) {
	if m.findOverdueByMemberFn != nil {
		return m.findOverdueByMemberFn(ctx, memberID, dueBefore)
	}
	return nil, nil
}

type mockMemberRepo struct {
	members []models.Member
}

func (m *mockMemberRepo) FindByID(ctx context.Context, id uint) (*models.Member, error) {
	for i := range m.members {
		if m.members[i].ID == id {
			return &m.members[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockMemberRepo) FindApproved(ctx context.Context) ([]models.Member, error) {
	return m.members, nil
}

type mockBlockedEventRepo struct {
	events []models.BlockedEvent
}

func (m *mockBlockedEventRepo) FindByDate(ctx context.Context, date time.Time) ([]models.BlockedEvent, error) {
	var out []models.BlockedEvent
	for _, ev := range m.events {
		if models.DateOnly(ev.Date).Equal(models.DateOnly(date)) {
			out = append(out, ev)
		}
	}
	return out, nil
}
