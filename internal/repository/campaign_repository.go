package repository

import (
	"errors"
	"time"

	"github.com/luckywheel/luckywheel-api/internal/models"

	"gorm.io/gorm"
)

// CampaignRepository 抽奖活动数据访问接口
type CampaignRepository interface {
	GetByID(id uint) (*models.SpinCampaign, error)
	GetWithPrizes(id uint) (*models.SpinCampaign, error)
	ListActive(now time.Time) ([]models.SpinCampaign, error)
	List(filter CampaignListFilter) ([]models.SpinCampaign, int64, error)
	Create(campaign *models.SpinCampaign) error
	Update(campaign *models.SpinCampaign) error
	Delete(id uint) error
	ListPrizes(campaignID uint) ([]models.Prize, error)
	GetPrize(campaignID, prizeID uint) (*models.Prize, error)
	ReplacePrizes(campaignID uint, prizes []models.Prize) error
	DecrementPrizeQuantity(campaignID, prizeID uint) (int64, error)
	WithTx(tx *gorm.DB) CampaignRepository
}

// GormCampaignRepository GORM 实现
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository 创建活动仓库
func NewCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCampaignRepository) WithTx(tx *gorm.DB) CampaignRepository {
	if tx == nil {
		return r
	}
	return &GormCampaignRepository{db: tx}
}

// GetByID 根据 ID 获取活动
func (r *GormCampaignRepository) GetByID(id uint) (*models.SpinCampaign, error) {
	if id == 0 {
		return nil, errors.New("invalid campaign id")
	}
	var campaign models.SpinCampaign
	if err := r.db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// GetWithPrizes 根据 ID 获取活动及奖池（奖池按展示顺序稳定排序）
func (r *GormCampaignRepository) GetWithPrizes(id uint) (*models.SpinCampaign, error) {
	if id == 0 {
		return nil, errors.New("invalid campaign id")
	}
	var campaign models.SpinCampaign
	err := r.db.
		Preload("Prizes", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		First(&campaign, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// ListActive 获取指定时间点处于有效窗口内的启用活动
func (r *GormCampaignRepository) ListActive(now time.Time) ([]models.SpinCampaign, error) {
	var campaigns []models.SpinCampaign
	err := r.db.
		Where("is_active = ? AND start_at <= ? AND end_at >= ?", true, now, now).
		Preload("Prizes", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Order("start_at ASC, id ASC").
		Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

// List 活动列表（管理端）
func (r *GormCampaignRepository) List(filter CampaignListFilter) ([]models.SpinCampaign, int64, error) {
	query := r.db.Model(&models.SpinCampaign{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ?", like)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.ActiveAt != nil {
		query = query.Where("start_at <= ? AND end_at >= ?", *filter.ActiveAt, *filter.ActiveAt)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var campaigns []models.SpinCampaign
	if err := query.Order("id DESC").Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// Create 创建活动（含奖池）
func (r *GormCampaignRepository) Create(campaign *models.SpinCampaign) error {
	if campaign == nil {
		return errors.New("campaign is nil")
	}
	return r.db.Create(campaign).Error
}

// Update 更新活动基础字段（不触碰奖池）
func (r *GormCampaignRepository) Update(campaign *models.SpinCampaign) error {
	if campaign == nil {
		return errors.New("campaign is nil")
	}
	return r.db.Omit("Prizes").Save(campaign).Error
}

// Delete 删除活动及其奖池（软删除）
func (r *GormCampaignRepository) Delete(id uint) error {
	if id == 0 {
		return errors.New("invalid campaign id")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&models.Prize{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SpinCampaign{}, id).Error
	})
}

// ListPrizes 获取活动奖池
func (r *GormCampaignRepository) ListPrizes(campaignID uint) ([]models.Prize, error) {
	if campaignID == 0 {
		return nil, errors.New("invalid campaign id")
	}
	var prizes []models.Prize
	err := r.db.
		Where("campaign_id = ?", campaignID).
		Order("sort_order ASC, id ASC").
		Find(&prizes).Error
	if err != nil {
		return nil, err
	}
	return prizes, nil
}

// GetPrize 获取活动内指定奖品
func (r *GormCampaignRepository) GetPrize(campaignID, prizeID uint) (*models.Prize, error) {
	if campaignID == 0 || prizeID == 0 {
		return nil, errors.New("invalid prize params")
	}
	var prize models.Prize
	err := r.db.
		Where("campaign_id = ? AND id = ?", campaignID, prizeID).
		First(&prize).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prize, nil
}

// ReplacePrizes 整体替换活动奖池
func (r *GormCampaignRepository) ReplacePrizes(campaignID uint, prizes []models.Prize) error {
	if campaignID == 0 {
		return errors.New("invalid campaign id")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", campaignID).Delete(&models.Prize{}).Error; err != nil {
			return err
		}
		if len(prizes) == 0 {
			return nil
		}
		for i := range prizes {
			prizes[i].ID = 0
			prizes[i].CampaignID = campaignID
		}
		return tx.Create(&prizes).Error
	})
}

// DecrementPrizeQuantity 条件扣减奖品库存，仅在剩余数量大于 0 时生效。
// 返回受影响行数，0 表示库存已被并发抢占。不限量奖品不应走此方法。
func (r *GormCampaignRepository) DecrementPrizeQuantity(campaignID, prizeID uint) (int64, error) {
	if campaignID == 0 || prizeID == 0 {
		return 0, errors.New("invalid prize params")
	}
	result := r.db.Model(&models.Prize{}).
		Where("campaign_id = ? AND id = ? AND quantity > 0", campaignID, prizeID).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
