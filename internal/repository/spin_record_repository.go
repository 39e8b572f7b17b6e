package repository

import (
	"errors"

	"github.com/luckywheel/luckywheel-api/internal/models"

	"gorm.io/gorm"
)

// SpinRecordRepository 抽奖流水数据访问接口（只追加）
type SpinRecordRepository interface {
	Create(record *models.SpinRecord) error
	GetByID(id uint) (*models.SpinRecord, error)
	GetByRecordNo(recordNo string) (*models.SpinRecord, error)
	CountByUser(campaignID, userID uint) (int64, error)
	ListByUser(filter SpinRecordListFilter) ([]models.SpinRecord, int64, error)
	ListByCampaign(filter SpinRecordListFilter) ([]models.SpinRecord, int64, error)
	CountByCampaign(campaignID uint) (int64, error)
	WithTx(tx *gorm.DB) SpinRecordRepository
}

// GormSpinRecordRepository GORM 实现
type GormSpinRecordRepository struct {
	db *gorm.DB
}

// NewSpinRecordRepository 创建抽奖流水仓库
func NewSpinRecordRepository(db *gorm.DB) *GormSpinRecordRepository {
	return &GormSpinRecordRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSpinRecordRepository) WithTx(tx *gorm.DB) SpinRecordRepository {
	if tx == nil {
		return r
	}
	return &GormSpinRecordRepository{db: tx}
}

// Create 追加抽奖流水
func (r *GormSpinRecordRepository) Create(record *models.SpinRecord) error {
	if record == nil {
		return errors.New("spin record is nil")
	}
	return r.db.Create(record).Error
}

// GetByID 根据 ID 获取记录
func (r *GormSpinRecordRepository) GetByID(id uint) (*models.SpinRecord, error) {
	if id == 0 {
		return nil, errors.New("invalid record id")
	}
	var record models.SpinRecord
	if err := r.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByRecordNo 根据流水号获取记录
func (r *GormSpinRecordRepository) GetByRecordNo(recordNo string) (*models.SpinRecord, error) {
	if recordNo == "" {
		return nil, errors.New("invalid record no")
	}
	var record models.SpinRecord
	if err := r.db.Where("record_no = ?", recordNo).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// CountByUser 统计用户在活动内的抽奖次数（配额判定的唯一依据）
func (r *GormSpinRecordRepository) CountByUser(campaignID, userID uint) (int64, error) {
	if campaignID == 0 || userID == 0 {
		return 0, errors.New("invalid count params")
	}
	var count int64
	if err := r.db.Model(&models.SpinRecord{}).
		Where("campaign_id = ? AND user_id = ?", campaignID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByUser 获取用户抽奖历史
func (r *GormSpinRecordRepository) ListByUser(filter SpinRecordListFilter) ([]models.SpinRecord, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, errors.New("invalid user id")
	}
	query := r.db.Model(&models.SpinRecord{}).Where("user_id = ?", filter.UserID)
	if filter.CampaignID != 0 {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	return r.listPage(query, filter)
}

// ListByCampaign 获取活动抽奖流水（管理端）
func (r *GormSpinRecordRepository) ListByCampaign(filter SpinRecordListFilter) ([]models.SpinRecord, int64, error) {
	if filter.CampaignID == 0 {
		return nil, 0, errors.New("invalid campaign id")
	}
	query := r.db.Model(&models.SpinRecord{}).Where("campaign_id = ?", filter.CampaignID)
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	return r.listPage(query, filter)
}

// CountByCampaign 统计活动总抽奖次数
func (r *GormSpinRecordRepository) CountByCampaign(campaignID uint) (int64, error) {
	if campaignID == 0 {
		return 0, errors.New("invalid campaign id")
	}
	var count int64
	if err := r.db.Model(&models.SpinRecord{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSpinRecordRepository) listPage(query *gorm.DB, filter SpinRecordListFilter) ([]models.SpinRecord, int64, error) {
	if filter.PrizeType != "" {
		query = query.Where("prize_type = ?", filter.PrizeType)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var records []models.SpinRecord
	if err := query.Order("id DESC").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
