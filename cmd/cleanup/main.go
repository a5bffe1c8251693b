package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/upgradedproxy/proxy_go_server/config"
	"github.com/upgradedproxy/proxy_go_server/internal/database"
	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

var (
	dryRun        = flag.Bool("dry-run", true, "Dry run mode, don't actually update rows")
	expireOrders  = flag.Bool("expire-orders", true, "Mark overdue active orders as expired")
	expireTopUps  = flag.Bool("expire-topups", true, "Mark overdue pending top-up orders as expired")
	topUpTimeout  = flag.Int("topup-timeout", 30, "Minutes to keep a pending top-up order")
)

func main() {
	flag.Parse()

	log.Println("Starting cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	now := time.Now()

	// 1. 过期订单
	if *expireOrders {
		query := db.Model(&model.Order{}).
			Where("status = ? AND expires_at <= ?", model.OrderStatusActive, now)

		if *dryRun {
			var count int64
			if err := query.Count(&count).Error; err != nil {
				log.Fatalf("Failed to count overdue orders: %v", err)
			}
			log.Printf("[dry-run] Would expire %d orders", count)
		} else {
			result := query.Update("status", model.OrderStatusExpired)
			if result.Error != nil {
				log.Fatalf("Failed to expire orders: %v", result.Error)
			}
			log.Printf("Expired %d orders", result.RowsAffected)
		}
	}

	// 2. 超时充值单
	if *expireTopUps {
		createdBefore := now.Add(-time.Duration(*topUpTimeout) * time.Minute)
		query := db.Model(&model.PaymentOrder{}).
			Where("status = ? AND created_at <= ?", model.PaymentStatusPending, createdBefore)

		if *dryRun {
			var count int64
			if err := query.Count(&count).Error; err != nil {
				log.Fatalf("Failed to count overdue top-up orders: %v", err)
			}
			log.Printf("[dry-run] Would expire %d top-up orders", count)
		} else {
			result := query.Update("status", model.PaymentStatusExpired)
			if result.Error != nil {
				log.Fatalf("Failed to expire top-up orders: %v", result.Error)
			}
			log.Printf("Expired %d top-up orders", result.RowsAffected)
		}
	}

	log.Println("Cleanup task finished")
}
