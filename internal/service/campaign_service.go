package service

import (
	"context"
	"fmt"
	"time"

	"github.com/luckywheel/luckywheel-api/internal/cache"
	"github.com/luckywheel/luckywheel-api/internal/config"
	"github.com/luckywheel/luckywheel-api/internal/logger"
	"github.com/luckywheel/luckywheel-api/internal/models"
	"github.com/luckywheel/luckywheel-api/internal/repository"
)

const (
	cacheKeyActiveCampaigns = "campaign:active"
	cacheKeyCampaignFmt     = "campaign:%d"
)

// CampaignService 活动查询服务（面向用户端）
type CampaignService struct {
	cfg          *config.Config
	campaignRepo repository.CampaignRepository
	recordRepo   repository.SpinRecordRepository

	now func() time.Time
}

// NewCampaignService 创建活动查询服务
func NewCampaignService(cfg *config.Config, campaignRepo repository.CampaignRepository, recordRepo repository.SpinRecordRepository) *CampaignService {
	return &CampaignService{
		cfg:          cfg,
		campaignRepo: campaignRepo,
		recordRepo:   recordRepo,
		now:          time.Now,
	}
}

// ListActive 获取当前有效活动列表（带缓存）
func (s *CampaignService) ListActive(ctx context.Context) ([]models.SpinCampaign, error) {
	var cached []models.SpinCampaign
	hit, err := cache.GetJSON(ctx, cacheKeyActiveCampaigns, &cached)
	if err != nil {
		logger.Warnw("campaign_cache_read_failed", "key", cacheKeyActiveCampaigns, "error", err)
	}
	if hit {
		return cached, nil
	}

	campaigns, err := s.campaignRepo.ListActive(s.now())
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, cacheKeyActiveCampaigns, campaigns, s.cacheTTL()); err != nil {
		logger.Warnw("campaign_cache_write_failed", "key", cacheKeyActiveCampaigns, "error", err)
	}
	return campaigns, nil
}

// GetActive 获取单个有效活动及奖池
func (s *CampaignService) GetActive(ctx context.Context, id uint) (*models.SpinCampaign, error) {
	campaign, err := s.getWithPrizesCached(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	if !campaign.IsActive || !campaign.WindowContains(s.now()) {
		return nil, ErrCampaignInactive
	}
	return campaign, nil
}

// RemainingSpins 计算用户在活动内剩余可抽次数
func (s *CampaignService) RemainingSpins(campaign *models.SpinCampaign, userID uint) (int, error) {
	if campaign == nil {
		return 0, ErrCampaignNotFound
	}
	used, err := s.recordRepo.CountByUser(campaign.ID, userID)
	if err != nil {
		return 0, err
	}
	remaining := campaign.MaxSpinsPerUser - int(used)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// ListUserHistory 获取用户抽奖历史
func (s *CampaignService) ListUserHistory(userID, campaignID uint, page, pageSize int) ([]models.SpinRecord, int64, error) {
	if pageSize <= 0 {
		pageSize = s.historyPageSize()
	}
	if max := s.historyMaxPageSize(); pageSize > max {
		pageSize = max
	}
	return s.recordRepo.ListByUser(repository.SpinRecordListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     userID,
		CampaignID: campaignID,
	})
}

func (s *CampaignService) getWithPrizesCached(ctx context.Context, id uint) (*models.SpinCampaign, error) {
	key := fmt.Sprintf(cacheKeyCampaignFmt, id)

	var cached models.SpinCampaign
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warnw("campaign_cache_read_failed", "key", key, "error", err)
	}
	if hit {
		return &cached, nil
	}

	campaign, err := s.campaignRepo.GetWithPrizes(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, nil
	}

	if err := cache.SetJSON(ctx, key, campaign, s.cacheTTL()); err != nil {
		logger.Warnw("campaign_cache_write_failed", "key", key, "error", err)
	}
	return campaign, nil
}

func (s *CampaignService) cacheTTL() time.Duration {
	seconds := 60
	if s.cfg != nil && s.cfg.Spin.CacheTTLSeconds > 0 {
		seconds = s.cfg.Spin.CacheTTLSeconds
	}
	return time.Duration(seconds) * time.Second
}

func (s *CampaignService) historyPageSize() int {
	if s.cfg != nil && s.cfg.Spin.HistoryPageSize > 0 {
		return s.cfg.Spin.HistoryPageSize
	}
	return 20
}

func (s *CampaignService) historyMaxPageSize() int {
	if s.cfg != nil && s.cfg.Spin.HistoryMaxPageSize > 0 {
		return s.cfg.Spin.HistoryMaxPageSize
	}
	return 100
}

// InvalidateCampaignCache 清理活动相关缓存，管理端变更后调用
func InvalidateCampaignCache(ctx context.Context, campaignID uint) {
	if err := cache.Del(ctx, cacheKeyActiveCampaigns); err != nil {
		logger.Warnw("campaign_cache_del_failed", "key", cacheKeyActiveCampaigns, "error", err)
	}
	if campaignID == 0 {
		return
	}
	key := fmt.Sprintf(cacheKeyCampaignFmt, campaignID)
	if err := cache.Del(ctx, key); err != nil {
		logger.Warnw("campaign_cache_del_failed", "key", key, "error", err)
	}
}
