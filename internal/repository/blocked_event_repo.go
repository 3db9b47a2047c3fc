package repository

import (
	"context"
	"time"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
	"gorm.io/gorm"
)

type BlockedEventRepository interface {
	FindByDate(ctx context.Context, date time.Time) ([]models.BlockedEvent, error)
}

type blockedEventRepository struct {
	db *gorm.DB
}

func NewBlockedEventRepository(db *gorm.DB) BlockedEventRepository {
	return &blockedEventRepository{db: db}
}

// FindByDate returns the external blocked-time overlay for a date. Rows arrive
// through the MQ consumer; this repository never writes them.
func (r *blockedEventRepository) FindByDate(ctx context.Context, date time.Time) ([]models.BlockedEvent, error) {
	var events []models.BlockedEvent
	err := r.db.WithContext(ctx).
		Where("date = ?", models.DateOnly(date)).
		Order("start_hour ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
