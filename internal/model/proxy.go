package model

import (
	"time"
)

// Proxy 一条已交付的代理凭证，创建后不再修改
type Proxy struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	OrderID     int64     `gorm:"not null;index" json:"order_id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	Host        string    `gorm:"size:100;not null" json:"host"`
	Port        int       `gorm:"not null" json:"port"`
	Username    string    `gorm:"size:100;not null" json:"username"`
	Password    string    `gorm:"size:255;not null" json:"password"`
	Country     string    `gorm:"size:5;default:US" json:"country"`
	SessionType string    `gorm:"size:20;default:rotating" json:"session_type"` // sticky, rotating
	CreatedAt   time.Time `json:"created_at"`
}

func (Proxy) TableName() string {
	return "proxies"
}
