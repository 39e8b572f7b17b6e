package provider

import (
	"github.com/luckywheel/luckywheel-api/internal/cache"
	"github.com/luckywheel/luckywheel-api/internal/config"
	"github.com/luckywheel/luckywheel-api/internal/logger"
	"github.com/luckywheel/luckywheel-api/internal/models"
	"github.com/luckywheel/luckywheel-api/internal/queue"
	"github.com/luckywheel/luckywheel-api/internal/repository"
	"github.com/luckywheel/luckywheel-api/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo       repository.AdminRepository
	UserRepo        repository.UserRepository
	CampaignRepo    repository.CampaignRepository
	SpinRecordRepo  repository.SpinRecordRepository
	CreditGrantRepo repository.CreditGrantRepository

	// Services
	AuthService          *service.AuthService
	UserAuthService      *service.UserAuthService
	CampaignService      *service.CampaignService
	CampaignAdminService *service.CampaignAdminService
	SpinService          *service.SpinService
	RedeemService        *service.RedeemService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CampaignRepo = repository.NewCampaignRepository(db)
	c.SpinRecordRepo = repository.NewSpinRecordRepository(db)
	c.CreditGrantRepo = repository.NewCreditGrantRepository(db)
}

func (c *Container) initServices() {
	db := models.DB
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CampaignService = service.NewCampaignService(c.Config, c.CampaignRepo, c.SpinRecordRepo)
	c.CampaignAdminService = service.NewCampaignAdminService(c.CampaignRepo, c.SpinRecordRepo)
	c.SpinService = service.NewSpinService(c.Config, db, c.CampaignRepo, c.SpinRecordRepo, c.QueueClient)
	c.RedeemService = service.NewRedeemService(db, c.SpinRecordRepo, c.CreditGrantRepo, c.UserRepo)
}
