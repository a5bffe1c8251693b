package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
)

var (
	ErrCouponNotFound     = errors.New("优惠码不存在")
	ErrCouponInactive     = errors.New("优惠码已停用")
	ErrCouponExpired      = errors.New("优惠码已过期")
	ErrCouponExhausted    = errors.New("优惠码已达使用上限")
	ErrCouponMinAmount    = errors.New("订单金额未达优惠码使用门槛")
	ErrCouponCodeExists   = errors.New("优惠码已存在")
	ErrCouponValueInvalid = errors.New("百分比优惠码面额不能超过 100")
)

type CouponService struct {
	couponRepo *repository.CouponRepository
}

func NewCouponService(couponRepo *repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// Validate 校验优惠码并计算折扣，纯校验不改任何状态
func (s *CouponService) Validate(code string, amount float64) (*dto.ValidateCouponResponse, error) {
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	if err := checkCoupon(coupon, amount, time.Now()); err != nil {
		return nil, err
	}

	discount := ComputeDiscount(coupon, amount)
	return &dto.ValidateCouponResponse{
		Valid:       true,
		Discount:    discount,
		FinalAmount: amount - discount,
	}, nil
}

func checkCoupon(coupon *model.Coupon, amount float64, now time.Time) error {
	if !coupon.IsActive {
		return ErrCouponInactive
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return ErrCouponExpired
	}
	if coupon.MaxUses != nil && coupon.UsedCount >= *coupon.MaxUses {
		return ErrCouponExhausted
	}
	if amount < coupon.MinAmount {
		return ErrCouponMinAmount
	}
	return nil
}

// ComputeDiscount 计算折扣金额，两种类型都封顶到订单金额，最终价不会为负
func ComputeDiscount(coupon *model.Coupon, amount float64) float64 {
	switch coupon.Type {
	case model.CouponTypePercentage:
		discount := amount * coupon.Value / 100
		if discount > amount {
			return amount
		}
		return discount
	case model.CouponTypeFixed:
		if coupon.Value > amount {
			return amount
		}
		return coupon.Value
	default:
		return 0
	}
}

// Create 创建优惠码
func (s *CouponService) Create(req *dto.CreateCouponRequest) (*model.Coupon, error) {
	if req.Type == model.CouponTypePercentage && req.Value > 100 {
		return nil, ErrCouponValueInvalid
	}

	if _, err := s.couponRepo.GetByCode(req.Code); err == nil {
		return nil, ErrCouponCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	coupon := &model.Coupon{
		Code:      req.Code,
		Type:      req.Type,
		Value:     req.Value,
		MinAmount: req.MinAmount,
		MaxUses:   req.MaxUses,
		IsActive:  true,
	}
	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return nil, err
		}
		coupon.ExpiresAt = &expiresAt
	}

	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// List 分页列出优惠码
func (s *CouponService) List(page, pageSize int) ([]model.Coupon, int64, error) {
	return s.couponRepo.List(page, pageSize)
}

// Toggle 翻转启用状态，返回翻转后的值
func (s *CouponService) Toggle(id int64) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	coupon.IsActive = !coupon.IsActive
	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete 删除优惠码
func (s *CouponService) Delete(id int64) error {
	if _, err := s.couponRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}
	return s.couponRepo.Delete(id)
}
