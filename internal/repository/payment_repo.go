package repository

import (
	"context"
	"time"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, payments []models.Payment) error
	FindByBooking(ctx context.Context, bookingID uint) ([]models.Payment, error)
	FindPendingByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) ([]models.Payment, error)
	CancelPendingByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) error
	FindOverdueByMember(ctx context.Context, memberID uint, dueBefore time.Time) ([]models.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateBatch(ctx context.Context, tx *gorm.DB, payments []models.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&payments).Error
}

func (r *paymentRepository) FindByBooking(ctx context.Context, bookingID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) FindPendingByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := tx.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, models.PaymentPending).
		Order("id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// CancelPendingByBooking retires the current pending set before a fresh
// allocation. Rows are cancelled, never deleted.
func (r *paymentRepository) CancelPendingByBooking(ctx context.Context, tx *gorm.DB, bookingID uint) error {
	return tx.WithContext(ctx).
		Model(&models.Payment{}).
		Where("booking_id = ? AND status = ?", bookingID, models.PaymentPending).
		Update("status", models.PaymentCancelled).Error
}

func (r *paymentRepository) FindOverdueByMember(ctx context.Context, memberID uint, dueBefore time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND status = ? AND due_date < ?", memberID, models.PaymentPending, dueBefore).
		Order("due_date ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
