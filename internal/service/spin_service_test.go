package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/luckywheel/luckywheel-api/internal/config"
	"github.com/luckywheel/luckywheel-api/internal/constants"
	"github.com/luckywheel/luckywheel-api/internal/models"
	"github.com/luckywheel/luckywheel-api/internal/queue"
	"github.com/luckywheel/luckywheel-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupSpinServiceTest(t *testing.T) (*SpinService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:spin_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.SpinCampaign{},
		&models.Prize{},
		&models.SpinRecord{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Spin.MaxAttempts = 3
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("build queue client failed: %v", err)
	}
	svc := NewSpinService(cfg, db, repository.NewCampaignRepository(db), repository.NewSpinRecordRepository(db), queueClient)
	return svc, db
}

func createSpinTestCampaign(t *testing.T, db *gorm.DB, maxSpins int, prizes []models.Prize) *models.SpinCampaign {
	t.Helper()
	now := time.Now()
	campaign := &models.SpinCampaign{
		Name:            "测试活动",
		StartAt:         now.Add(-time.Hour),
		EndAt:           now.Add(time.Hour),
		MaxSpinsPerUser: maxSpins,
		IsActive:        true,
		Prizes:          prizes,
	}
	if err := db.Create(campaign).Error; err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	return campaign
}

func creditPrize(title string, weight float64, quantity int) models.Prize {
	return models.Prize{
		Title:        title,
		Weight:       weight,
		PrizeType:    constants.PrizeTypeCredit,
		CreditAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(1.5)),
		Quantity:     quantity,
	}
}

func TestSpinCampaignNotFound(t *testing.T) {
	svc, _ := setupSpinServiceTest(t)
	if _, err := svc.Spin(1, 999); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("want ErrCampaignNotFound got %v", err)
	}
}

func TestSpinCampaignInactive(t *testing.T) {
	svc, db := setupSpinServiceTest(t)
	campaign := createSpinTestCampaign(t, db, 3, []models.Prize{creditPrize("奖", 1, 10)})

	if err := db.Model(&models.SpinCampaign{}).Where("id = ?", campaign.ID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("disable campaign failed: %v", err)
	}
	if _, err := svc.Spin(1, campaign.ID); !errors.Is(err, ErrCampaignInactive) {
		t.Fatalf("disabled campaign want ErrCampaignInactive got %v", err)
	}
}

func TestSpinOutsideWindow(t *testing.T) {
	svc, db := setupSpinServiceTest(t)
	campaign := createSpinTestCampaign(t, db, 3, []models.Prize{creditPrize("奖", 1, 10)})

	// 把时钟拨到活动结束之后
	svc.now = func() time.Time { return campaign.EndAt.Add(time.Minute) }
	if _, err := svc.Spin(1, campaign.ID); !errors.Is(err, ErrCampaignInactive) {
		t.Fatalf("expired campaign want ErrCampaignInactive got %v", err)
	}
}

func TestSpinQuotaExhausted(t *testing.T) {
	svc, db := setupSpinServiceTest(t)
	campaign := createSpinTestCampaign(t, db, 2, []models.Prize{creditPrize("奖", 1, models.PrizeQuantityUnlimited)})

	for i := 0; i < 2; i++ {
		if _, err := svc.Spin(7, campaign.ID); err != nil {
			t.Fatalf("spin %d failed: %v", i+1, err)
		}
	}
	if _, err := svc.Spin(7, campaign.ID); !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("third spin want ErrQuotaExhausted got %v", err)
	}
	// 其他用户不受影响
	if _, err := svc.Spin(8, campaign.ID); err != nil {
		t.Fatalf("other user spin failed: %v", err)
	}
}

func TestSpinAllPrizesStockedOut(t *testing.T) {
	svc, db := setupSpinServiceTest(t)
	campaign := createSpinTestCampaign(t, db, 3, []models.Prize{
		creditPrize("抽完了", 5, 0),
	})

	if _, err := svc.Spin(1, campaign.ID); !errors.Is(err, ErrNoPrizesAvailable) {
		t.Fatalf("stocked-out pool want ErrNoPrizesAvailable got %v", err)
	}
}

func TestSpinNoPositiveWeight(t *testing.T) {
	svc, db := setupSpinServiceTest(t)
	campaign := createSpinTestCampaign(t, db, 3, []models.Prize{
		creditPrize("仅展示", 0, 10),
	})

	if _, err := svc.Spin(1, campaign.ID); !errors.Is(err, ErrNoEligiblePrizes) {
		t.Fatalf("zero-weight pool want ErrNoEligiblePrizes got %v", err)
	}
}

func TestSpinDecrementsStockAndAppendsRecord(t *testing.T) {
	svc, db := setupSpinServiceTest(t)
	campaign := createSpinTestCampaign(t, db, 3, []models.Prize{creditPrize("限量奖", 1, 1)})

	result, err := svc.Spin(5, campaign.ID)
	if err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	if result.Record == nil || result.Record.ID == 0 {
		t.Fatalf("spin should append a record, got %+v", result.Record)
	}
	if result.Record.RecordNo == "" {
		t.Fatalf("record no should not be empty")
	}
	if result.SlotIndex != 0 {
		t.Fatalf("slot index want 0 got %d", result.SlotIndex)
	}

	var prize models.Prize
	if err := db.Where("campaign_id = ?", campaign.ID).First(&prize).Error; err != nil {
		t.Fatalf("load prize failed: %v", err)
	}
	if prize.Quantity != 0 {
		t.Fatalf("quantity after spin want 0 got %d", prize.Quantity)
	}

	// 快照是抽中时刻的值拷贝
	if result.Record.PrizeSnapshot["title"] != "限量奖" {
		t.Fatalf("snapshot title want 限量奖 got %v", result.Record.PrizeSnapshot["title"])
	}
	if result.Record.PrizeSnapshot["credit_amount"] != "1.50" {
		t.Fatalf("snapshot credit_amount want 1.50 got %v", result.Record.PrizeSnapshot["credit_amount"])
	}

	// 库存耗尽后的下一次抽奖
	if _, err := svc.Spin(5, campaign.ID); !errors.Is(err, ErrNoPrizesAvailable) {
		t.Fatalf("second spin want ErrNoPrizesAvailable got %v", err)
	}
}

func TestSpinUnlimitedPrizeKeepsSentinel(t *testing.T) {
	svc, db := setupSpinServiceTest(t)
	campaign := createSpinTestCampaign(t, db, 5, []models.Prize{creditPrize("不限量", 1, models.PrizeQuantityUnlimited)})

	for i := 0; i < 3; i++ {
		if _, err := svc.Spin(2, campaign.ID); err != nil {
			t.Fatalf("spin %d failed: %v", i+1, err)
		}
	}

	var prize models.Prize
	if err := db.Where("campaign_id = ?", campaign.ID).First(&prize).Error; err != nil {
		t.Fatalf("load prize failed: %v", err)
	}
	if prize.Quantity != models.PrizeQuantityUnlimited {
		t.Fatalf("unlimited quantity should stay -1, got %d", prize.Quantity)
	}
}

// staleCampaignRepo 总是返回库存为正的过期奖池，模拟并发抢占后读到旧值。
type staleCampaignRepo struct {
	repository.CampaignRepository
}

func (r *staleCampaignRepo) GetWithPrizes(id uint) (*models.SpinCampaign, error) {
	campaign, err := r.CampaignRepository.GetWithPrizes(id)
	if err != nil || campaign == nil {
		return campaign, err
	}
	for i := range campaign.Prizes {
		if campaign.Prizes[i].Quantity == 0 {
			campaign.Prizes[i].Quantity = 1
		}
	}
	return campaign, nil
}

func TestSpinConflictRetriesThenFails(t *testing.T) {
	svc, db := setupSpinServiceTest(t)
	campaign := createSpinTestCampaign(t, db, 3, []models.Prize{creditPrize("被抢光", 1, 0)})

	svc.campaignRepo = &staleCampaignRepo{CampaignRepository: svc.campaignRepo}

	if _, err := svc.Spin(1, campaign.ID); !errors.Is(err, ErrSpinConflict) {
		t.Fatalf("exhausted retries want ErrSpinConflict got %v", err)
	}

	var count int64
	if err := db.Model(&models.SpinRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count records failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("conflicted spin must not append records, got %d", count)
	}
}

// staleOnceCampaignRepo 第一次返回过期奖池，之后透传真实数据。
type staleOnceCampaignRepo struct {
	repository.CampaignRepository
	calls int
}

func (r *staleOnceCampaignRepo) GetWithPrizes(id uint) (*models.SpinCampaign, error) {
	r.calls++
	campaign, err := r.CampaignRepository.GetWithPrizes(id)
	if err != nil || campaign == nil || r.calls > 1 {
		return campaign, err
	}
	for i := range campaign.Prizes {
		if campaign.Prizes[i].Quantity == 0 {
			campaign.Prizes[i].Quantity = 1
		}
	}
	return campaign, nil
}

func TestSpinConflictRetriesThenSucceeds(t *testing.T) {
	svc, db := setupSpinServiceTest(t)
	campaign := createSpinTestCampaign(t, db, 3, []models.Prize{
		creditPrize("被抢光", 10, 0),
		creditPrize("还有货", 1, 5),
	})

	svc.campaignRepo = &staleOnceCampaignRepo{CampaignRepository: svc.campaignRepo}
	// 固定随机数让首轮命中高权重的过期奖品
	svc.randUnit = func() float64 { return 0 }

	result, err := svc.Spin(1, campaign.ID)
	if err != nil {
		t.Fatalf("retry spin failed: %v", err)
	}
	if result.Prize.Title != "还有货" {
		t.Fatalf("retry should land on in-stock prize, got %s", result.Prize.Title)
	}
	if result.SlotIndex != 1 {
		t.Fatalf("slot index want 1 got %d", result.SlotIndex)
	}

	var count int64
	if err := db.Model(&models.SpinRecord{}).Where("campaign_id = ?", campaign.ID).Count(&count).Error; err != nil {
		t.Fatalf("count records failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("exactly one record expected, got %d", count)
	}
}
