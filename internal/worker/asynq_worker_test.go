package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/luckywheel/luckywheel-api/internal/constants"
	"github.com/luckywheel/luckywheel-api/internal/models"
	"github.com/luckywheel/luckywheel-api/internal/provider"
	"github.com/luckywheel/luckywheel-api/internal/queue"
	"github.com/luckywheel/luckywheel-api/internal/repository"
	"github.com/luckywheel/luckywheel-api/internal/service"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.SpinCampaign{},
		&models.Prize{},
		&models.SpinRecord{},
		&models.CreditGrant{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	recordRepo := repository.NewSpinRecordRepository(db)
	grantRepo := repository.NewCreditGrantRepository(db)
	userRepo := repository.NewUserRepository(db)
	container := &provider.Container{
		RedeemService: service.NewRedeemService(db, recordRepo, grantRepo, userRepo),
	}
	return NewConsumer(container), db
}

func createRedeemFixtures(t *testing.T, db *gorm.DB, prizeType, creditAmount string) *models.SpinRecord {
	t.Helper()
	user := models.User{
		Email:        fmt.Sprintf("worker_user_%d@example.com", time.Now().UnixNano()),
		PasswordHash: "hash",
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	record := &models.SpinRecord{
		RecordNo:   fmt.Sprintf("SP%d", time.Now().UnixNano()),
		UserID:     user.ID,
		CampaignID: 1,
		PrizeID:    1,
		PrizeTitle: "测试奖品",
		PrizeType:  prizeType,
		PrizeSnapshot: models.JSON{
			"credit_amount": creditAmount,
		},
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("create spin record failed: %v", err)
	}
	return record
}

func TestHandlePrizeRedeemCredit(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	record := createRedeemFixtures(t, db, constants.PrizeTypeCredit, "8.80")

	task, err := queue.NewPrizeRedeemTask(queue.PrizeRedeemPayload{SpinRecordID: record.ID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handlePrizeRedeem(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}

	var user models.User
	if err := db.First(&user, record.UserID).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if user.Balance.String() != "8.80" {
		t.Fatalf("balance want 8.80 got %s", user.Balance.String())
	}

	// 重复投递不重复入账
	if err := consumer.handlePrizeRedeem(context.Background(), task); err != nil {
		t.Fatalf("redeliver task failed: %v", err)
	}
	if err := db.First(&user, record.UserID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if user.Balance.String() != "8.80" {
		t.Fatalf("balance after redeliver want 8.80 got %s", user.Balance.String())
	}
}

func TestHandlePrizeRedeemMissingRecordSkipped(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task, err := queue.NewPrizeRedeemTask(queue.PrizeRedeemPayload{SpinRecordID: 999})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handlePrizeRedeem(context.Background(), task); err != nil {
		t.Fatalf("missing record should be skipped, got %v", err)
	}
}

func TestHandlePrizeRedeemCouponNoop(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	record := createRedeemFixtures(t, db, constants.PrizeTypeCoupon, "")

	task, err := queue.NewPrizeRedeemTask(queue.PrizeRedeemPayload{SpinRecordID: record.ID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handlePrizeRedeem(context.Background(), task); err != nil {
		t.Fatalf("coupon redeem should be noop, got %v", err)
	}

	var grants int64
	if err := db.Model(&models.CreditGrant{}).Count(&grants).Error; err != nil {
		t.Fatalf("count grants failed: %v", err)
	}
	if grants != 0 {
		t.Fatalf("coupon redeem should not create credit grants, got %d", grants)
	}
}
