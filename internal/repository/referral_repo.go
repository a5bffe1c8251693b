package repository

import (
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) Create(referral *model.Referral) error {
	return r.db.Create(referral).Error
}

func (r *ReferralRepository) ListByUser(userID int64) ([]model.Referral, error) {
	var referrals []model.Referral
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&referrals).Error
	return referrals, err
}

func (r *ReferralRepository) GetByReferredID(referredID int64) (*model.Referral, error) {
	var referral model.Referral
	err := r.db.Where("referred_id = ?", referredID).First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *ReferralRepository) Update(referral *model.Referral) error {
	return r.db.Save(referral).Error
}

func (r *ReferralRepository) CountByUser(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Referral{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *ReferralRepository) CountActiveByUser(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Referral{}).
		Where("user_id = ? AND status = ?", userID, model.ReferralStatusActive).
		Count(&count).Error
	return count, err
}

func (r *ReferralRepository) SumCommissionByUser(userID int64) (float64, error) {
	var total float64
	err := r.db.Model(&model.Referral{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(commission), 0)").Scan(&total).Error
	return total, err
}
