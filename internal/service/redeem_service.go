package service

import (
	"errors"
	"fmt"

	"github.com/luckywheel/luckywheel-api/internal/constants"
	"github.com/luckywheel/luckywheel-api/internal/logger"
	"github.com/luckywheel/luckywheel-api/internal/models"
	"github.com/luckywheel/luckywheel-api/internal/repository"

	"gorm.io/gorm"
)

// RedeemService 奖品兑付服务（由队列 worker 驱动）
type RedeemService struct {
	db         *gorm.DB
	recordRepo repository.SpinRecordRepository
	grantRepo  repository.CreditGrantRepository
	userRepo   repository.UserRepository
}

// NewRedeemService 创建兑付服务
func NewRedeemService(
	db *gorm.DB,
	recordRepo repository.SpinRecordRepository,
	grantRepo repository.CreditGrantRepository,
	userRepo repository.UserRepository,
) *RedeemService {
	return &RedeemService{
		db:         db,
		recordRepo: recordRepo,
		grantRepo:  grantRepo,
		userRepo:   userRepo,
	}
}

// Redeem 兑付一条抽奖流水。可重复调用，余额入账以流水 ID 幂等。
func (s *RedeemService) Redeem(spinRecordID uint) error {
	record, err := s.recordRepo.GetByID(spinRecordID)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrNotFound
	}

	switch record.PrizeType {
	case constants.PrizeTypeCredit:
		return s.redeemCredit(record)
	case constants.PrizeTypeCoupon, constants.PrizeTypeProduct:
		// 优惠码与实物奖品的发放由快照内容兑现，无余额侧副作用
		logger.Infow("prize_redeem_noop",
			"spin_record_id", record.ID,
			"prize_type", record.PrizeType,
		)
		return nil
	default:
		return fmt.Errorf("unknown prize type: %s", record.PrizeType)
	}
}

func (s *RedeemService) redeemCredit(record *models.SpinRecord) error {
	amount, err := creditAmountFromSnapshot(record.PrizeSnapshot)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.grantRepo.WithTx(tx).GetBySpinRecordID(record.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			// 已入账，重复投递直接跳过
			return nil
		}

		grant := &models.CreditGrant{
			SpinRecordID: record.ID,
			UserID:       record.UserID,
			Amount:       amount,
		}
		if err := s.grantRepo.WithTx(tx).Create(grant); err != nil {
			return err
		}

		affected, err := s.userRepo.WithTx(tx).AddBalance(record.UserID, amount)
		if err != nil {
			return err
		}
		if affected == 0 {
			return errors.New("credit grant user missing")
		}

		logger.Infow("credit_granted",
			"spin_record_id", record.ID,
			"user_id", record.UserID,
			"amount", amount.String(),
		)
		return nil
	})
}

func creditAmountFromSnapshot(snapshot models.JSON) (models.Money, error) {
	raw, ok := snapshot["credit_amount"]
	if !ok {
		return models.Money{}, errors.New("snapshot missing credit_amount")
	}
	text, ok := raw.(string)
	if !ok {
		return models.Money{}, fmt.Errorf("unexpected credit_amount type: %T", raw)
	}
	amount, err := models.NewMoneyFromString(text)
	if err != nil {
		return models.Money{}, err
	}
	if !amount.IsPositive() {
		return models.Money{}, errors.New("credit_amount must be positive")
	}
	return amount, nil
}
