package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/upgradedproxy/proxy_go_server/config"
	"github.com/upgradedproxy/proxy_go_server/internal/api/handler"
	"github.com/upgradedproxy/proxy_go_server/internal/api/middleware"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	proxyHandler     *handler.ProxyHandler
	productHandler   *handler.ProductHandler
	walletHandler    *handler.WalletHandler
	couponHandler    *handler.CouponHandler
	apiKeyHandler    *handler.ApiKeyHandler
	referralHandler  *handler.ReferralHandler
	ticketHandler    *handler.TicketHandler
	adminHandler     *handler.AdminHandler
	websocketHandler *handler.WebSocketHandler
	apiKeyService    *service.ApiKeyService
	rdb              *redis.Client
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	proxyHandler *handler.ProxyHandler,
	productHandler *handler.ProductHandler,
	walletHandler *handler.WalletHandler,
	couponHandler *handler.CouponHandler,
	apiKeyHandler *handler.ApiKeyHandler,
	referralHandler *handler.ReferralHandler,
	ticketHandler *handler.TicketHandler,
	adminHandler *handler.AdminHandler,
	websocketHandler *handler.WebSocketHandler,
	apiKeyService *service.ApiKeyService,
	rdb *redis.Client,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		proxyHandler:     proxyHandler,
		productHandler:   productHandler,
		walletHandler:    walletHandler,
		couponHandler:    couponHandler,
		apiKeyHandler:    apiKeyHandler,
		referralHandler:  referralHandler,
		ticketHandler:    ticketHandler,
		adminHandler:     adminHandler,
		websocketHandler: websocketHandler,
		apiKeyService:    apiKeyService,
		rdb:              rdb,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	if r.rdb != nil && r.cfg.RateLimit.Requests > 0 {
		api.Use(middleware.RateLimit(r.rdb, r.cfg.RateLimit.Requests,
			time.Duration(r.cfg.RateLimit.WindowSeconds)*time.Second))
	}
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/github", r.authHandler.GithubAuth)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// 公开接口 - 在售产品与接入点
		api.GET("/products", r.productHandler.List)
		api.GET("/proxies/settings", r.proxyHandler.Settings)

		// 优惠码校验（纯校验，无副作用）
		api.POST("/coupons/validate", r.couponHandler.Validate)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.POST("/avatar", r.userHandler.UploadAvatar)
			}

			// 代理与订单
			authenticated.POST("/proxies/generate", r.proxyHandler.Generate)
			authenticated.GET("/proxies", r.proxyHandler.List)
			authenticated.GET("/orders", r.proxyHandler.Orders)

			// 钱包
			wallet := authenticated.Group("/wallet")
			{
				wallet.GET("", r.walletHandler.GetBalance)
				wallet.GET("/transactions", r.walletHandler.Transactions)
				wallet.POST("/topup", r.walletHandler.TopUp)
				wallet.GET("/topup/:id", r.walletHandler.GetTopUp)
			}

			// API Key
			apiKeys := authenticated.Group("/api-keys")
			{
				apiKeys.POST("", r.apiKeyHandler.Create)
				apiKeys.GET("", r.apiKeyHandler.List)
				apiKeys.DELETE("/:id", r.apiKeyHandler.Delete)
			}

			// 推荐
			referrals := authenticated.Group("/referrals")
			{
				referrals.GET("", r.referralHandler.List)
				referrals.GET("/stats", r.referralHandler.Stats)
			}

			// 工单
			tickets := authenticated.Group("/tickets")
			{
				tickets.POST("", r.ticketHandler.Create)
				tickets.GET("", r.ticketHandler.List)
				tickets.GET("/:id", r.ticketHandler.Get)
				tickets.POST("/:id/replies", r.ticketHandler.Reply)
				tickets.PUT("/:id/close", r.ticketHandler.Close)
			}
		}

		// 机器调用：X-Api-Key 认证的程序化购买入口
		external := api.Group("/external")
		external.Use(middleware.ApiKeyAuth(r.apiKeyService))
		{
			external.POST("/proxies/generate", r.proxyHandler.Generate)
			external.GET("/proxies", r.proxyHandler.List)
		}

		// 管理后台
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.AdminAuth())
		{
			admin.GET("/dashboard", r.adminHandler.Dashboard)

			admin.GET("/users", r.adminHandler.ListUsers)
			admin.PUT("/users/:id", r.adminHandler.UpdateUser)
			admin.POST("/users/:id/balance", r.adminHandler.AdjustBalance)

			admin.GET("/products", r.productHandler.AdminList)
			admin.POST("/products", r.productHandler.Create)
			admin.PUT("/products/:id", r.productHandler.Update)
			admin.DELETE("/products/:id", r.productHandler.Delete)

			admin.GET("/coupons", r.couponHandler.List)
			admin.POST("/coupons", r.couponHandler.Create)
			admin.PUT("/coupons/:id/toggle", r.couponHandler.Toggle)
			admin.DELETE("/coupons/:id", r.couponHandler.Delete)

			admin.POST("/payments/:id/confirm", r.adminHandler.ConfirmTopUp)

			admin.GET("/settings", r.adminHandler.GetSettings)
			admin.PUT("/settings", r.adminHandler.UpdateSettings)
		}
	}

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return engine
}
