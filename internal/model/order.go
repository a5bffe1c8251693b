package model

import (
	"time"
)

const (
	OrderStatusActive  = "active"
	OrderStatusExpired = "expired"
)

type Order struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	TotalCost float64   `gorm:"type:decimal(10,2);not null" json:"total_cost"`
	Status    string    `gorm:"size:20;default:active;index" json:"status"` // active, expired
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// EffectiveStatus 读取时惰性计算过期状态，后台任务再异步落库
func (o *Order) EffectiveStatus(now time.Time) string {
	if o.Status == OrderStatusActive && now.After(o.ExpiresAt) {
		return OrderStatusExpired
	}
	return o.Status
}
