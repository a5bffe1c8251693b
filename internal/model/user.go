package model

import (
	"time"
)

type User struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        *string `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash *string `gorm:"size:255" json:"-"`
	AvatarURL    string  `gorm:"size:500" json:"avatar_url"`
	GithubID     *string `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	Role         string  `gorm:"size:20;default:user;index" json:"role"` // user, admin

	// 钱包余额，所有变动都必须落一条 WalletTransaction
	Balance float64 `gorm:"type:decimal(10,2);default:0" json:"balance"`

	ReferralCode string `gorm:"size:20;uniqueIndex" json:"referral_code"`
	ReferredBy   *int64 `gorm:"index" json:"-"`

	// 上游 Evomi 子账号，密钥单独存在 provider_credentials 表
	SubuserID      *string `gorm:"size:100" json:"-"`
	SubuserCreated bool    `gorm:"default:false" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
