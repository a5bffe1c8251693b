package model

import (
	"time"
)

const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

type Coupon struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	Code      string     `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Type      string     `gorm:"size:20;not null" json:"type"` // percentage, fixed
	Value     float64    `gorm:"type:decimal(10,2);not null" json:"value"`
	MinAmount float64    `gorm:"type:decimal(10,2);default:0" json:"min_amount"`
	MaxUses   *int       `json:"max_uses,omitempty"` // nil 表示不限次数
	UsedCount int        `gorm:"default:0" json:"used_count"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}
