package router

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luckywheel/luckywheel-api/internal/cache"
	"github.com/luckywheel/luckywheel-api/internal/config"
	adminhandlers "github.com/luckywheel/luckywheel-api/internal/http/handlers/admin"
	publichandlers "github.com/luckywheel/luckywheel-api/internal/http/handlers/public"
	"github.com/luckywheel/luckywheel-api/internal/logger"
	"github.com/luckywheel/luckywheel-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "lw"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	spinRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:spin", redisPrefix),
		WindowSeconds: cfg.Security.SpinRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SpinRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.SpinRateLimit.BlockSeconds,
		MessageKey:    "error.spin_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/campaigns", publicHandler.ListCampaigns)
			public.GET("/campaigns/:id", publicHandler.GetCampaign)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.Profile)
			user.GET("/me/history", publicHandler.ListHistory)
			user.GET("/campaigns/:id/quota", publicHandler.GetQuota)
			user.POST("/campaigns/:id/spin", RateLimitMiddleware(redisClient, spinRule, KeyByUserID), publicHandler.Spin)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.Login)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.GET("/me", adminHandler.Profile)
				authorized.PUT("/password", adminHandler.ChangePassword)

				// 活动管理
				authorized.GET("/campaigns", adminHandler.ListCampaigns)
				authorized.GET("/campaigns/:id", adminHandler.GetCampaign)
				authorized.POST("/campaigns", adminHandler.CreateCampaign)
				authorized.PUT("/campaigns/:id", adminHandler.UpdateCampaign)
				authorized.DELETE("/campaigns/:id", adminHandler.DeleteCampaign)
				authorized.PUT("/campaigns/:id/prizes", adminHandler.ReplacePrizes)
				authorized.GET("/campaigns/:id/records", adminHandler.ListCampaignRecords)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

// KeyByUserID 使用已鉴权的用户 ID 作为限流 key，未鉴权时退回 IP
func KeyByUserID(c *gin.Context) string {
	value, ok := c.Get("user_id")
	if !ok {
		return c.ClientIP()
	}
	if userID, ok := value.(uint); ok && userID > 0 {
		return "u" + strconv.FormatUint(uint64(userID), 10)
	}
	return c.ClientIP()
}
