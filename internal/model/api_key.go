package model

import (
	"time"
)

type ApiKey struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	KeyName   string    `gorm:"size:100;not null" json:"key_name"`
	ApiKey    string    `gorm:"size:100;uniqueIndex;not null" json:"api_key"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (ApiKey) TableName() string {
	return "api_keys"
}
