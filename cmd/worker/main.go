package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/upgradedproxy/proxy_go_server/config"
	"github.com/upgradedproxy/proxy_go_server/internal/database"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/email"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/oss"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/pubsub"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/queue"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
	"github.com/upgradedproxy/proxy_go_server/internal/worker"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化队列与事件发布
	emailQueue := queue.NewQueue(rdb, cfg.Queue.EmailQueue)
	publisher := pubsub.NewPublisher(rdb)

	// 初始化 Repository 与 Service
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	settingsService := service.NewSettingsService(settingRepo, rdb)
	walletService := service.NewWalletService(db, userRepo, walletRepo, paymentRepo, referralRepo, settingsService, ossClient, publisher, emailQueue, cfg)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	// 支付确认轮询
	poller := worker.NewPaymentPoller(paymentRepo, walletService, cfg)
	go poller.Run(ctx)

	// 邮件队列消费
	emailService := email.NewService(&cfg.Email)
	mailer := worker.NewMailer(emailQueue, emailService)
	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		go mailer.Run(ctx)
	}

	log.Printf("Worker started, mail workers: %d", cfg.Queue.MaxWorkers)

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
