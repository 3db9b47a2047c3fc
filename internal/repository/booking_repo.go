package repository

import (
	"context"
	"time"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByDate(ctx context.Context, date time.Time) ([]models.Booking, error)
	FindActiveByDate(ctx context.Context, date time.Time, excludeID *uint) ([]models.Booking, error)
	FindUnpaidPastByReserver(ctx context.Context, reserverID uint, before time.Time) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error
	ReplaceParticipants(ctx context.Context, tx *gorm.DB, bookingID uint, participants []models.Participant) error
	MarkNoShows(ctx context.Context, before time.Time) (int64, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Payments").
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByDate(ctx context.Context, date time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("date = ?", models.DateOnly(date)).
		Order("start_hour ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindActiveByDate returns the bookings that occupy the timeline for a date.
// excludeID lets an edit-in-progress ignore its own prior occupancy.
func (r *bookingRepository) FindActiveByDate(ctx context.Context, date time.Time, excludeID *uint) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).
		Where("date = ? AND status IN ?", models.DateOnly(date), []models.BookingStatus{
			models.StatusPending, models.StatusConfirmed, models.StatusBlocked,
		})
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Order("start_hour ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindUnpaidPastByReserver(ctx context.Context, reserverID uint, before time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("reserver_id = ? AND date < ? AND payment_status <> ? AND total_fee > 0 AND status NOT IN ?",
			reserverID, models.DateOnly(before), models.AggregatePaid,
			[]models.BookingStatus{models.StatusCancelled, models.StatusBlocked}).
		Order("date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("status", status).Error
}

// ReplaceParticipants swaps the owned participant list of a booking. Old rows
// are deleted outright: the participant list has no audit requirement, unlike
// payments.
func (r *bookingRepository) ReplaceParticipants(ctx context.Context, tx *gorm.DB, bookingID uint, participants []models.Participant) error {
	if err := tx.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Delete(&models.Participant{}).Error; err != nil {
		return err
	}
	for i := range participants {
		participants[i].ID = 0
		participants[i].BookingID = bookingID
	}
	if len(participants) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&participants).Error
}

// MarkNoShows flips past-date pending bookings to no_show so stale rows stop
// occupying the timeline. Returns the number of rows swept.
func (r *bookingRepository) MarkNoShows(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ? AND date < ?", models.StatusPending, models.DateOnly(before)).
		Update("status", models.StatusNoShow)
	return res.RowsAffected, res.Error
}
