package main

import (
	"context"
	"fmt"
	"log"

	"github.com/upgradedproxy/proxy_go_server/config"
	"github.com/upgradedproxy/proxy_go_server/internal/api"
	"github.com/upgradedproxy/proxy_go_server/internal/api/handler"
	"github.com/upgradedproxy/proxy_go_server/internal/database"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/cron"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/evomi"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/oauth"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/oss"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/pubsub"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/queue"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/ws"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
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
	stateStore := oauth.NewStateStore(rdb)

	// 初始化上游客户端
	evomiClient := evomi.NewClient(&cfg.Evomi)

	// 初始化 WebSocket Hub，支付事件经 Redis 订阅后推给在线用户
	wsHub := ws.NewHub()
	subscriber := pubsub.NewSubscriber(rdb)
	err = subscriber.Subscribe(context.Background(), func(event *pubsub.PaymentEvent) {
		if err := wsHub.SendToUser(event.UserID, &ws.Message{Type: event.Type, Data: event}); err != nil {
			log.Printf("Failed to push event to user %d: %v", event.UserID, err)
		}
	})
	if err != nil {
		log.Printf("Failed to subscribe payment events: %v", err)
	}

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	proxyRepo := repository.NewProxyRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// 初始化 Service
	settingsService := service.NewSettingsService(settingRepo, rdb)
	authService := service.NewAuthService(userRepo, referralRepo, emailQueue, cfg)
	userService := service.NewUserService(userRepo, ossClient, cfg)
	proxyService := service.NewProxyService(db, userRepo, productRepo, proxyRepo, credentialRepo, evomiClient, publisher, cfg)
	orderService := service.NewOrderService(orderRepo)
	productService := service.NewProductService(productRepo)
	walletService := service.NewWalletService(db, userRepo, walletRepo, paymentRepo, referralRepo, settingsService, ossClient, publisher, emailQueue, cfg)
	couponService := service.NewCouponService(couponRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)
	referralService := service.NewReferralService(referralRepo, userRepo)
	ticketService := service.NewTicketService(ticketRepo, userRepo)
	statsService := service.NewStatsService(userRepo, orderRepo, walletRepo, paymentRepo, ticketRepo)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService, stateStore)
	userHandler := handler.NewUserHandler(userService)
	proxyHandler := handler.NewProxyHandler(proxyService, orderService)
	productHandler := handler.NewProductHandler(productService)
	walletHandler := handler.NewWalletHandler(walletService)
	couponHandler := handler.NewCouponHandler(couponService)
	apiKeyHandler := handler.NewApiKeyHandler(apiKeyService)
	referralHandler := handler.NewReferralHandler(referralService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	adminHandler := handler.NewAdminHandler(statsService, userService, walletService, settingsService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 启动定时任务
	cronService := cron.NewService(orderRepo, paymentRepo, cfg.Payment.TimeoutMinutes)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		proxyHandler,
		productHandler,
		walletHandler,
		couponHandler,
		apiKeyHandler,
		referralHandler,
		ticketHandler,
		adminHandler,
		websocketHandler,
		apiKeyService,
		rdb,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
