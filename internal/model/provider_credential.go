package model

import (
	"time"
)

// 产品类型闭集，上游按类型签发独立密钥
const (
	ProductTypeResidential = "residential"
	ProductTypeDatacenter  = "datacenter"
	ProductTypeMobile      = "mobile"
	ProductTypeISP         = "isp"
)

// ProviderCredential 上游按产品类型签发的子账号密钥
type ProviderCredential struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"not null;uniqueIndex:idx_user_product_type" json:"user_id"`
	ProductType string    `gorm:"size:20;not null;uniqueIndex:idx_user_product_type" json:"product_type"`
	Key         string    `gorm:"size:255;not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ProviderCredential) TableName() string {
	return "provider_credentials"
}
