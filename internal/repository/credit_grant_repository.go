package repository

import (
	"errors"

	"github.com/luckywheel/luckywheel-api/internal/models"

	"gorm.io/gorm"
)

// CreditGrantRepository 余额入账记录数据访问接口
type CreditGrantRepository interface {
	Create(grant *models.CreditGrant) error
	GetBySpinRecordID(spinRecordID uint) (*models.CreditGrant, error)
	WithTx(tx *gorm.DB) CreditGrantRepository
}

// GormCreditGrantRepository GORM 实现
type GormCreditGrantRepository struct {
	db *gorm.DB
}

// NewCreditGrantRepository 创建余额入账仓库
func NewCreditGrantRepository(db *gorm.DB) *GormCreditGrantRepository {
	return &GormCreditGrantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCreditGrantRepository) WithTx(tx *gorm.DB) CreditGrantRepository {
	if tx == nil {
		return r
	}
	return &GormCreditGrantRepository{db: tx}
}

// Create 创建入账记录（spin_record_id 唯一索引保证幂等）
func (r *GormCreditGrantRepository) Create(grant *models.CreditGrant) error {
	if grant == nil {
		return errors.New("credit grant is nil")
	}
	return r.db.Create(grant).Error
}

// GetBySpinRecordID 根据抽奖流水获取入账记录
func (r *GormCreditGrantRepository) GetBySpinRecordID(spinRecordID uint) (*models.CreditGrant, error) {
	if spinRecordID == 0 {
		return nil, errors.New("invalid spin record id")
	}
	var grant models.CreditGrant
	if err := r.db.Where("spin_record_id = ?", spinRecordID).First(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &grant, nil
}
