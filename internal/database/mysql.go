package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/config"
	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

// NewMySQL 连接 MySQL 并自动迁移
func NewMySQL(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := db.AutoMigrate(
		&model.User{},
		&model.ProviderCredential{},
		&model.Product{},
		&model.Order{},
		&model.Proxy{},
		&model.WalletTransaction{},
		&model.Coupon{},
		&model.ApiKey{},
		&model.Referral{},
		&model.Setting{},
		&model.PaymentOrder{},
		&model.Ticket{},
		&model.TicketReply{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
