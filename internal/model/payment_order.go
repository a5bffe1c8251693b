package model

import (
	"time"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusExpired = "expired"
)

// PaymentOrder 钱包充值单，worker 轮询网关确认到账
type PaymentOrder struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"` // uuid
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	Amount    float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status    string     `gorm:"size:20;default:pending;index" json:"status"` // pending, paid, expired
	QRCodeURL string     `gorm:"size:500" json:"qr_code_url"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}
