package repository

import (
	"context"

	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
	"gorm.io/gorm"
)

type MemberRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Member, error)
	FindApproved(ctx context.Context) ([]models.Member, error)
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) FindByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindApproved returns the roster snapshot used for participant
// classification.
func (r *memberRepository) FindApproved(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	err := r.db.WithContext(ctx).
		Where("status = ?", models.MemberApproved).
		Order("name ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
