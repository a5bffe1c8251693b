package model

import (
	"time"
)

const (
	ReferralStatusPending = "pending"
	ReferralStatusActive  = "active"
)

// Referral 邀请记录，被邀请人首次充值后结算佣金
type Referral struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"not null;index" json:"user_id"`     // 邀请人
	ReferredID int64     `gorm:"not null;uniqueIndex" json:"referred_id"` // 被邀请人
	Status     string    `gorm:"size:20;default:pending;index" json:"status"` // pending, active
	Commission float64   `gorm:"type:decimal(10,2);default:0" json:"commission"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Referral) TableName() string {
	return "referrals"
}
