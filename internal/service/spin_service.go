package service

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/luckywheel/luckywheel-api/internal/config"
	"github.com/luckywheel/luckywheel-api/internal/constants"
	"github.com/luckywheel/luckywheel-api/internal/logger"
	"github.com/luckywheel/luckywheel-api/internal/models"
	"github.com/luckywheel/luckywheel-api/internal/queue"
	"github.com/luckywheel/luckywheel-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errStockConflict 库存扣减被并发抢占，触发重试
var errStockConflict = errors.New("prize stock conflict")

// SpinResult 抽奖结果
type SpinResult struct {
	Record    *models.SpinRecord `json:"record"`
	Prize     *models.Prize      `json:"prize"`
	SlotIndex int                `json:"slot_index"` // 奖品在奖池展示顺序中的下标
}

// SpinService 抽奖引擎
type SpinService struct {
	cfg          *config.Config
	db           *gorm.DB
	campaignRepo repository.CampaignRepository
	recordRepo   repository.SpinRecordRepository
	queueClient  *queue.Client

	// 随机源与时钟可注入，便于测试
	randUnit func() float64
	now      func() time.Time
}

// NewSpinService 创建抽奖引擎
func NewSpinService(
	cfg *config.Config,
	db *gorm.DB,
	campaignRepo repository.CampaignRepository,
	recordRepo repository.SpinRecordRepository,
	queueClient *queue.Client,
) *SpinService {
	return &SpinService{
		cfg:          cfg,
		db:           db,
		campaignRepo: campaignRepo,
		recordRepo:   recordRepo,
		queueClient:  queueClient,
		randUnit:     rand.Float64,
		now:          time.Now,
	}
}

// Spin 执行一次抽奖：校验活动与配额、按权重选奖、事务内扣库存并落流水。
// 库存被并发抢占时在刷新后的奖池上重试，重试耗尽返回 ErrSpinConflict。
func (s *SpinService) Spin(userID, campaignID uint) (*SpinResult, error) {
	if userID == 0 || campaignID == 0 {
		return nil, ErrInvalidCampaign
	}

	campaign, err := s.campaignRepo.GetWithPrizes(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}

	now := s.now()
	if !campaign.IsActive || !campaign.WindowContains(now) {
		return nil, ErrCampaignInactive
	}

	used, err := s.recordRepo.CountByUser(campaignID, userID)
	if err != nil {
		return nil, err
	}
	if used >= int64(campaign.MaxSpinsPerUser) {
		return nil, ErrQuotaExhausted
	}

	maxAttempts := constants.SpinMaxAttempts
	if s.cfg != nil && s.cfg.Spin.MaxAttempts > 0 {
		maxAttempts = s.cfg.Spin.MaxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		eligible := eligiblePrizes(campaign.Prizes)
		if len(eligible) == 0 {
			return nil, s.classifyEmptyPool(campaign.Prizes)
		}

		prize := selectPrize(eligible, s.randUnit())
		if prize == nil {
			return nil, ErrNoPrizesAvailable
		}

		result, err := s.commitSpin(campaign, prize, userID)
		if err == nil {
			s.enqueueRedeem(result.Record)
			result.SlotIndex = slotIndex(campaign.Prizes, prize.ID)
			return result, nil
		}
		if !errors.Is(err, errStockConflict) {
			return nil, err
		}

		logger.Warnw("spin_stock_conflict",
			"campaign_id", campaignID,
			"prize_id", prize.ID,
			"user_id", userID,
			"attempt", attempt,
		)

		// 奖池已被并发修改，重新加载最新库存后再试
		campaign, err = s.campaignRepo.GetWithPrizes(campaignID)
		if err != nil {
			return nil, err
		}
		if campaign == nil {
			return nil, ErrCampaignNotFound
		}
	}

	return nil, ErrSpinConflict
}

// commitSpin 事务提交：配额复核、条件扣库存、追加流水。
func (s *SpinService) commitSpin(campaign *models.SpinCampaign, prize *models.Prize, userID uint) (*SpinResult, error) {
	record := &models.SpinRecord{
		RecordNo:      s.newRecordNo(),
		UserID:        userID,
		CampaignID:    campaign.ID,
		PrizeID:       prize.ID,
		PrizeTitle:    prize.Title,
		PrizeType:     prize.PrizeType,
		PrizeSnapshot: models.NewPrizeSnapshot(prize),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 配额在同一事务内复核，堵住窗口期并发多抽
		used, err := s.recordRepo.WithTx(tx).CountByUser(campaign.ID, userID)
		if err != nil {
			return err
		}
		if used >= int64(campaign.MaxSpinsPerUser) {
			return ErrQuotaExhausted
		}

		if !prize.Unlimited() {
			affected, err := s.campaignRepo.WithTx(tx).DecrementPrizeQuantity(campaign.ID, prize.ID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return errStockConflict
			}
		}

		return s.recordRepo.WithTx(tx).Create(record)
	})
	if err != nil {
		return nil, err
	}

	return &SpinResult{Record: record, Prize: prize}, nil
}

// classifyEmptyPool 区分空奖池成因：无正权重奖品或库存全部耗尽。
func (s *SpinService) classifyEmptyPool(prizes []models.Prize) error {
	for _, prize := range prizes {
		if prize.Weight > 0 {
			return ErrNoPrizesAvailable
		}
	}
	return ErrNoEligiblePrizes
}

func (s *SpinService) enqueueRedeem(record *models.SpinRecord) {
	if record == nil {
		return
	}
	err := s.queueClient.EnqueuePrizeRedeem(queue.PrizeRedeemPayload{SpinRecordID: record.ID})
	if err != nil {
		// 兑付任务入队失败不回滚抽奖结果，记录后由补偿流程处理
		logger.Errorw("prize_redeem_enqueue_failed",
			"spin_record_id", record.ID,
			"error", err,
		)
	}
}

func (s *SpinService) newRecordNo() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("SP%s%s", s.now().Format("20060102150405"), strings.ToUpper(raw[:10]))
}

func slotIndex(prizes []models.Prize, prizeID uint) int {
	for i := range prizes {
		if prizes[i].ID == prizeID {
			return i
		}
	}
	return -1
}
