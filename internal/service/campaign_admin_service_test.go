package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/luckywheel/luckywheel-api/internal/constants"
	"github.com/luckywheel/luckywheel-api/internal/models"
	"github.com/luckywheel/luckywheel-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCampaignAdminServiceTest(t *testing.T) (*CampaignAdminService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:campaign_admin_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.SpinCampaign{},
		&models.Prize{},
		&models.SpinRecord{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewCampaignAdminService(repository.NewCampaignRepository(db), repository.NewSpinRecordRepository(db))
	return svc, db
}

func validCampaignInput() CampaignInput {
	now := time.Now()
	return CampaignInput{
		Name:            "新活动",
		StartAt:         now,
		EndAt:           now.Add(24 * time.Hour),
		MaxSpinsPerUser: 3,
		IsActive:        true,
		Prizes: []PrizeInput{
			{
				Title:      "九折券",
				Weight:     10,
				PrizeType:  constants.PrizeTypeCoupon,
				CouponCode: "OFF10",
				Quantity:   models.PrizeQuantityUnlimited,
				SortOrder:  1,
			},
			{
				Title:        "现金奖",
				Weight:       1,
				PrizeType:    constants.PrizeTypeCredit,
				CreditAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(5)),
				Quantity:     10,
				SortOrder:    2,
			},
		},
	}
}

func TestCreateCampaignPersistsPrizes(t *testing.T) {
	svc, db := setupCampaignAdminServiceTest(t)

	campaign, err := svc.Create(context.Background(), validCampaignInput())
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	if campaign.ID == 0 {
		t.Fatalf("campaign id should be assigned")
	}

	var prizes []models.Prize
	if err := db.Where("campaign_id = ?", campaign.ID).Order("sort_order").Find(&prizes).Error; err != nil {
		t.Fatalf("load prizes failed: %v", err)
	}
	if len(prizes) != 2 {
		t.Fatalf("prize count want 2 got %d", len(prizes))
	}
	if prizes[0].Title != "九折券" || prizes[1].Title != "现金奖" {
		t.Fatalf("unexpected prize order: %s / %s", prizes[0].Title, prizes[1].Title)
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)
	ctx := context.Background()

	blank := validCampaignInput()
	blank.Name = "  "
	if _, err := svc.Create(ctx, blank); !errors.Is(err, ErrInvalidCampaign) {
		t.Fatalf("blank name want ErrInvalidCampaign got %v", err)
	}

	reversed := validCampaignInput()
	reversed.StartAt, reversed.EndAt = reversed.EndAt, reversed.StartAt
	if _, err := svc.Create(ctx, reversed); !errors.Is(err, ErrInvalidCampaignTime) {
		t.Fatalf("reversed window want ErrInvalidCampaignTime got %v", err)
	}

	zeroQuota := validCampaignInput()
	zeroQuota.MaxSpinsPerUser = 0
	if _, err := svc.Create(ctx, zeroQuota); !errors.Is(err, ErrInvalidCampaign) {
		t.Fatalf("zero quota want ErrInvalidCampaign got %v", err)
	}

	badPrize := validCampaignInput()
	badPrize.Prizes[1].CreditAmount = models.Money{}
	if _, err := svc.Create(ctx, badPrize); !errors.Is(err, ErrInvalidPrize) {
		t.Fatalf("zero credit amount want ErrInvalidPrize got %v", err)
	}

	badQuantity := validCampaignInput()
	badQuantity.Prizes[0].Quantity = -2
	if _, err := svc.Create(ctx, badQuantity); !errors.Is(err, ErrInvalidPrize) {
		t.Fatalf("quantity below sentinel want ErrInvalidPrize got %v", err)
	}

	missingCode := validCampaignInput()
	missingCode.Prizes[0].CouponCode = ""
	if _, err := svc.Create(ctx, missingCode); !errors.Is(err, ErrInvalidPrize) {
		t.Fatalf("coupon without code want ErrInvalidPrize got %v", err)
	}
}

func TestUpdateCampaignNotFound(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)
	input := validCampaignInput()
	input.Prizes = nil
	if _, err := svc.Update(context.Background(), 999, input); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("missing campaign want ErrCampaignNotFound got %v", err)
	}
}

func TestUpdateCampaignKeepsPrizes(t *testing.T) {
	svc, db := setupCampaignAdminServiceTest(t)
	ctx := context.Background()

	campaign, err := svc.Create(ctx, validCampaignInput())
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}

	input := validCampaignInput()
	input.Name = "改名后的活动"
	input.IsActive = false
	input.Prizes = nil
	updated, err := svc.Update(ctx, campaign.ID, input)
	if err != nil {
		t.Fatalf("update campaign failed: %v", err)
	}
	if updated.Name != "改名后的活动" || updated.IsActive {
		t.Fatalf("update not applied: %+v", updated)
	}

	var prizeCount int64
	if err := db.Model(&models.Prize{}).Where("campaign_id = ?", campaign.ID).Count(&prizeCount).Error; err != nil {
		t.Fatalf("count prizes failed: %v", err)
	}
	if prizeCount != 2 {
		t.Fatalf("update must not touch prizes, count want 2 got %d", prizeCount)
	}
}

func TestReplacePrizesSwapsPool(t *testing.T) {
	svc, db := setupCampaignAdminServiceTest(t)
	ctx := context.Background()

	campaign, err := svc.Create(ctx, validCampaignInput())
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}

	prizes, err := svc.ReplacePrizes(ctx, campaign.ID, []PrizeInput{
		{
			Title:      "实物奖",
			Weight:     2,
			PrizeType:  constants.PrizeTypeProduct,
			ProductRef: "sku:cup",
			Quantity:   5,
			SortOrder:  1,
		},
	})
	if err != nil {
		t.Fatalf("replace prizes failed: %v", err)
	}
	if len(prizes) != 1 || prizes[0].Title != "实物奖" {
		t.Fatalf("unexpected pool after replace: %+v", prizes)
	}

	var count int64
	if err := db.Model(&models.Prize{}).Where("campaign_id = ?", campaign.ID).Count(&count).Error; err != nil {
		t.Fatalf("count prizes failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("old prizes should be removed, count want 1 got %d", count)
	}
}

func TestReplacePrizesValidatesInput(t *testing.T) {
	svc, _ := setupCampaignAdminServiceTest(t)
	ctx := context.Background()

	campaign, err := svc.Create(ctx, validCampaignInput())
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}

	_, err = svc.ReplacePrizes(ctx, campaign.ID, []PrizeInput{
		{Title: "坏奖品", Weight: 1, PrizeType: "unknown"},
	})
	if !errors.Is(err, ErrInvalidPrize) {
		t.Fatalf("unknown prize type want ErrInvalidPrize got %v", err)
	}

	if _, err := svc.ReplacePrizes(ctx, 999, nil); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("missing campaign want ErrCampaignNotFound got %v", err)
	}
}

func TestDeleteCampaignBlockedBySpins(t *testing.T) {
	svc, db := setupCampaignAdminServiceTest(t)
	ctx := context.Background()

	campaign, err := svc.Create(ctx, validCampaignInput())
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}

	record := models.SpinRecord{
		RecordNo:   "SP-DEL-1",
		UserID:     1,
		CampaignID: campaign.ID,
		PrizeID:    1,
		PrizeTitle: "九折券",
		PrizeType:  constants.PrizeTypeCoupon,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("create record failed: %v", err)
	}

	if err := svc.Delete(ctx, campaign.ID); !errors.Is(err, ErrCampaignHasSpins) {
		t.Fatalf("campaign with spins want ErrCampaignHasSpins got %v", err)
	}
}

func TestDeleteCampaignRemovesPrizes(t *testing.T) {
	svc, db := setupCampaignAdminServiceTest(t)
	ctx := context.Background()

	campaign, err := svc.Create(ctx, validCampaignInput())
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	if err := svc.Delete(ctx, campaign.ID); err != nil {
		t.Fatalf("delete campaign failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Prize{}).Where("campaign_id = ?", campaign.ID).Count(&count).Error; err != nil {
		t.Fatalf("count prizes failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("prizes should be deleted with campaign, got %d", count)
	}

	if _, err := svc.Get(campaign.ID); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("deleted campaign want ErrCampaignNotFound got %v", err)
	}
}
