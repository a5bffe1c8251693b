package repository

import (
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) Create(coupon *model.Coupon) error {
	return r.db.Create(coupon).Error
}

func (r *CouponRepository) GetByID(id int64) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.Where("id = ?", id).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *CouponRepository) GetByCode(code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.Where("code = ?", code).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *CouponRepository) List(page, pageSize int) ([]model.Coupon, int64, error) {
	var coupons []model.Coupon
	var total int64

	if err := r.db.Model(&model.Coupon{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&coupons).Error
	return coupons, total, err
}

func (r *CouponRepository) Update(coupon *model.Coupon) error {
	return r.db.Save(coupon).Error
}

func (r *CouponRepository) Delete(id int64) error {
	return r.db.Delete(&model.Coupon{}, id).Error
}

// IncrementUsed 核销一次使用次数
func (r *CouponRepository) IncrementUsed(id int64) error {
	return r.db.Model(&model.Coupon{}).Where("id = ?", id).
		Update("used_count", gorm.Expr("used_count + 1")).Error
}
