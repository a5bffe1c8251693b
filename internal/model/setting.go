package model

import (
	"time"
)

// Setting 后台运行时配置，键值各一行，读写都走 SettingsService
type Setting struct {
	Key       string    `gorm:"primaryKey;size:50" json:"key"`
	Value     string    `gorm:"size:500" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
