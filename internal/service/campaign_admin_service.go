package service

import (
	"context"
	"strings"
	"time"

	"github.com/luckywheel/luckywheel-api/internal/constants"
	"github.com/luckywheel/luckywheel-api/internal/logger"
	"github.com/luckywheel/luckywheel-api/internal/models"
	"github.com/luckywheel/luckywheel-api/internal/repository"
)

// PrizeInput 奖品录入参数
type PrizeInput struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ImageURL     string       `json:"image_url"`
	Weight       float64      `json:"weight"`
	PrizeType    string       `json:"prize_type"`
	CouponCode   string       `json:"coupon_code"`
	ProductRef   string       `json:"product_ref"`
	CreditAmount models.Money `json:"credit_amount"`
	Quantity     int          `json:"quantity"`
	SortOrder    int          `json:"sort_order"`
}

// CampaignInput 活动录入参数
type CampaignInput struct {
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	StartAt         time.Time    `json:"start_at"`
	EndAt           time.Time    `json:"end_at"`
	MaxSpinsPerUser int          `json:"max_spins_per_user"`
	IsActive        bool         `json:"is_active"`
	Prizes          []PrizeInput `json:"prizes"`
}

// CampaignAdminService 活动管理服务
type CampaignAdminService struct {
	campaignRepo repository.CampaignRepository
	recordRepo   repository.SpinRecordRepository
}

// NewCampaignAdminService 创建活动管理服务
func NewCampaignAdminService(campaignRepo repository.CampaignRepository, recordRepo repository.SpinRecordRepository) *CampaignAdminService {
	return &CampaignAdminService{
		campaignRepo: campaignRepo,
		recordRepo:   recordRepo,
	}
}

// Create 创建活动（含奖池）
func (s *CampaignAdminService) Create(ctx context.Context, input CampaignInput) (*models.SpinCampaign, error) {
	if err := validateCampaignInput(input); err != nil {
		return nil, err
	}

	campaign := &models.SpinCampaign{
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		StartAt:         input.StartAt,
		EndAt:           input.EndAt,
		MaxSpinsPerUser: input.MaxSpinsPerUser,
		IsActive:        input.IsActive,
		Prizes:          buildPrizes(0, input.Prizes),
	}
	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, err
	}

	InvalidateCampaignCache(ctx, campaign.ID)
	logger.Infow("campaign_created", "campaign_id", campaign.ID, "name", campaign.Name)
	return campaign, nil
}

// Update 更新活动基础字段
func (s *CampaignAdminService) Update(ctx context.Context, id uint, input CampaignInput) (*models.SpinCampaign, error) {
	if err := validateCampaignInput(CampaignInput{
		Name:            input.Name,
		StartAt:         input.StartAt,
		EndAt:           input.EndAt,
		MaxSpinsPerUser: input.MaxSpinsPerUser,
	}); err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}

	campaign.Name = strings.TrimSpace(input.Name)
	campaign.Description = input.Description
	campaign.StartAt = input.StartAt
	campaign.EndAt = input.EndAt
	campaign.MaxSpinsPerUser = input.MaxSpinsPerUser
	campaign.IsActive = input.IsActive
	if err := s.campaignRepo.Update(campaign); err != nil {
		return nil, err
	}

	InvalidateCampaignCache(ctx, campaign.ID)
	logger.Infow("campaign_updated", "campaign_id", campaign.ID)
	return campaign, nil
}

// ReplacePrizes 整体替换活动奖池
func (s *CampaignAdminService) ReplacePrizes(ctx context.Context, campaignID uint, inputs []PrizeInput) ([]models.Prize, error) {
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	for _, input := range inputs {
		if err := validatePrizeInput(input); err != nil {
			return nil, err
		}
	}

	prizes := buildPrizes(campaignID, inputs)
	if err := s.campaignRepo.ReplacePrizes(campaignID, prizes); err != nil {
		return nil, err
	}

	InvalidateCampaignCache(ctx, campaignID)
	logger.Infow("campaign_prizes_replaced", "campaign_id", campaignID, "count", len(prizes))
	return s.campaignRepo.ListPrizes(campaignID)
}

// Delete 删除活动；已产生抽奖流水的活动禁止删除
func (s *CampaignAdminService) Delete(ctx context.Context, id uint) error {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return err
	}
	if campaign == nil {
		return ErrCampaignNotFound
	}

	count, err := s.recordRepo.CountByCampaign(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCampaignHasSpins
	}

	if err := s.campaignRepo.Delete(id); err != nil {
		return err
	}

	InvalidateCampaignCache(ctx, id)
	logger.Infow("campaign_deleted", "campaign_id", id)
	return nil
}

// Get 获取活动详情（含奖池）
func (s *CampaignAdminService) Get(id uint) (*models.SpinCampaign, error) {
	campaign, err := s.campaignRepo.GetWithPrizes(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

// List 活动列表
func (s *CampaignAdminService) List(filter repository.CampaignListFilter) ([]models.SpinCampaign, int64, error) {
	return s.campaignRepo.List(filter)
}

// ListRecords 活动抽奖流水
func (s *CampaignAdminService) ListRecords(filter repository.SpinRecordListFilter) ([]models.SpinRecord, int64, error) {
	return s.recordRepo.ListByCampaign(filter)
}

func validateCampaignInput(input CampaignInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrInvalidCampaign
	}
	if input.StartAt.IsZero() || input.EndAt.IsZero() || !input.StartAt.Before(input.EndAt) {
		return ErrInvalidCampaignTime
	}
	if input.MaxSpinsPerUser < 1 {
		return ErrInvalidCampaign
	}
	for _, prize := range input.Prizes {
		if err := validatePrizeInput(prize); err != nil {
			return err
		}
	}
	return nil
}

func validatePrizeInput(input PrizeInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrInvalidPrize
	}
	if input.Weight < 0 {
		return ErrInvalidPrize
	}
	if input.Quantity < models.PrizeQuantityUnlimited {
		return ErrInvalidPrize
	}
	switch input.PrizeType {
	case constants.PrizeTypeCoupon:
		if strings.TrimSpace(input.CouponCode) == "" {
			return ErrInvalidPrize
		}
	case constants.PrizeTypeProduct:
		if strings.TrimSpace(input.ProductRef) == "" {
			return ErrInvalidPrize
		}
	case constants.PrizeTypeCredit:
		if !input.CreditAmount.IsPositive() {
			return ErrInvalidPrize
		}
	default:
		return ErrInvalidPrize
	}
	return nil
}

func buildPrizes(campaignID uint, inputs []PrizeInput) []models.Prize {
	prizes := make([]models.Prize, 0, len(inputs))
	for _, input := range inputs {
		prizes = append(prizes, models.Prize{
			CampaignID:   campaignID,
			Title:        strings.TrimSpace(input.Title),
			Description:  input.Description,
			ImageURL:     input.ImageURL,
			Weight:       input.Weight,
			PrizeType:    input.PrizeType,
			CouponCode:   strings.TrimSpace(input.CouponCode),
			ProductRef:   strings.TrimSpace(input.ProductRef),
			CreditAmount: input.CreditAmount,
			Quantity:     input.Quantity,
			SortOrder:    input.SortOrder,
		})
	}
	return prizes
}
