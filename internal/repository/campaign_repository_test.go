package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/luckywheel/luckywheel-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCampaignRepoTest(t *testing.T) (*GormCampaignRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:campaign_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.SpinCampaign{}, &models.Prize{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCampaignRepository(db), db
}

func seedCampaign(t *testing.T, repo *GormCampaignRepository, name string, startAt, endAt time.Time, active bool, prizes []models.Prize) *models.SpinCampaign {
	t.Helper()
	campaign := &models.SpinCampaign{
		Name:            name,
		StartAt:         startAt,
		EndAt:           endAt,
		MaxSpinsPerUser: 3,
		IsActive:        active,
		Prizes:          prizes,
	}
	if err := repo.Create(campaign); err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	return campaign
}

func TestDecrementPrizeQuantity(t *testing.T) {
	repo, db := setupCampaignRepoTest(t)
	now := time.Now()
	campaign := seedCampaign(t, repo, "扣库存", now.Add(-time.Hour), now.Add(time.Hour), true, []models.Prize{
		{Title: "限量", Weight: 1, PrizeType: "coupon", CouponCode: "X", Quantity: 2},
	})
	prizeID := campaign.Prizes[0].ID

	for want := 1; want >= 0; want-- {
		affected, err := repo.DecrementPrizeQuantity(campaign.ID, prizeID)
		if err != nil {
			t.Fatalf("decrement failed: %v", err)
		}
		if affected != 1 {
			t.Fatalf("decrement should affect 1 row, got %d", affected)
		}
		var prize models.Prize
		if err := db.First(&prize, prizeID).Error; err != nil {
			t.Fatalf("load prize failed: %v", err)
		}
		if prize.Quantity != want {
			t.Fatalf("quantity want %d got %d", want, prize.Quantity)
		}
	}

	// 库存归零后继续扣减不生效
	affected, err := repo.DecrementPrizeQuantity(campaign.ID, prizeID)
	if err != nil {
		t.Fatalf("decrement on empty stock failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("empty stock decrement should affect 0 rows, got %d", affected)
	}
}

func TestDecrementPrizeQuantitySkipsUnlimited(t *testing.T) {
	repo, db := setupCampaignRepoTest(t)
	now := time.Now()
	campaign := seedCampaign(t, repo, "不限量", now.Add(-time.Hour), now.Add(time.Hour), true, []models.Prize{
		{Title: "不限量", Weight: 1, PrizeType: "coupon", CouponCode: "X", Quantity: models.PrizeQuantityUnlimited},
	})
	prizeID := campaign.Prizes[0].ID

	// 哨兵值不满足 quantity > 0 条件，不会被误减
	affected, err := repo.DecrementPrizeQuantity(campaign.ID, prizeID)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("unlimited prize should not be decremented, affected %d", affected)
	}
	var prize models.Prize
	if err := db.First(&prize, prizeID).Error; err != nil {
		t.Fatalf("load prize failed: %v", err)
	}
	if prize.Quantity != models.PrizeQuantityUnlimited {
		t.Fatalf("quantity want -1 got %d", prize.Quantity)
	}
}

func TestListActiveFiltersWindowAndFlag(t *testing.T) {
	repo, _ := setupCampaignRepoTest(t)
	now := time.Now()

	running := seedCampaign(t, repo, "进行中", now.Add(-time.Hour), now.Add(time.Hour), true, nil)
	seedCampaign(t, repo, "已结束", now.Add(-48*time.Hour), now.Add(-24*time.Hour), true, nil)
	seedCampaign(t, repo, "未开始", now.Add(24*time.Hour), now.Add(48*time.Hour), true, nil)
	seedCampaign(t, repo, "已停用", now.Add(-time.Hour), now.Add(time.Hour), false, nil)

	campaigns, err := repo.ListActive(now)
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(campaigns) != 1 || campaigns[0].ID != running.ID {
		t.Fatalf("active list want [%d] got %+v", running.ID, campaigns)
	}
}

func TestGetWithPrizesOrdersBySlot(t *testing.T) {
	repo, _ := setupCampaignRepoTest(t)
	now := time.Now()
	campaign := seedCampaign(t, repo, "排序", now.Add(-time.Hour), now.Add(time.Hour), true, []models.Prize{
		{Title: "后位", Weight: 1, PrizeType: "coupon", CouponCode: "B", Quantity: 1, SortOrder: 20},
		{Title: "前位", Weight: 1, PrizeType: "coupon", CouponCode: "A", Quantity: 1, SortOrder: 10},
	})

	loaded, err := repo.GetWithPrizes(campaign.ID)
	if err != nil {
		t.Fatalf("get with prizes failed: %v", err)
	}
	if loaded == nil || len(loaded.Prizes) != 2 {
		t.Fatalf("unexpected campaign load: %+v", loaded)
	}
	if loaded.Prizes[0].Title != "前位" || loaded.Prizes[1].Title != "后位" {
		t.Fatalf("prizes should sort by sort_order, got %s / %s", loaded.Prizes[0].Title, loaded.Prizes[1].Title)
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	repo, _ := setupCampaignRepoTest(t)
	campaign, err := repo.GetByID(404)
	if err != nil {
		t.Fatalf("missing campaign should not error, got %v", err)
	}
	if campaign != nil {
		t.Fatalf("missing campaign want nil got %+v", campaign)
	}
}

func TestReplacePrizesRebuildsPool(t *testing.T) {
	repo, db := setupCampaignRepoTest(t)
	now := time.Now()
	campaign := seedCampaign(t, repo, "换奖池", now.Add(-time.Hour), now.Add(time.Hour), true, []models.Prize{
		{Title: "旧奖", Weight: 1, PrizeType: "coupon", CouponCode: "OLD", Quantity: 1},
	})

	err := repo.ReplacePrizes(campaign.ID, []models.Prize{
		{Title: "新奖一", Weight: 1, PrizeType: "coupon", CouponCode: "N1", Quantity: 1, SortOrder: 1},
		{Title: "新奖二", Weight: 1, PrizeType: "coupon", CouponCode: "N2", Quantity: 1, SortOrder: 2},
	})
	if err != nil {
		t.Fatalf("replace prizes failed: %v", err)
	}

	var titles []string
	if err := db.Model(&models.Prize{}).Where("campaign_id = ?", campaign.ID).
		Order("sort_order").Pluck("title", &titles).Error; err != nil {
		t.Fatalf("load titles failed: %v", err)
	}
	if len(titles) != 2 || titles[0] != "新奖一" || titles[1] != "新奖二" {
		t.Fatalf("unexpected pool after replace: %v", titles)
	}
}

func TestListFiltersByActiveFlag(t *testing.T) {
	repo, _ := setupCampaignRepoTest(t)
	now := time.Now()
	seedCampaign(t, repo, "启用", now, now.Add(time.Hour), true, nil)
	seedCampaign(t, repo, "停用", now, now.Add(time.Hour), false, nil)

	active := true
	campaigns, total, err := repo.List(CampaignListFilter{Page: 1, PageSize: 10, IsActive: &active})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(campaigns) != 1 || campaigns[0].Name != "启用" {
		t.Fatalf("filter by is_active failed: total=%d campaigns=%+v", total, campaigns)
	}

	campaigns, total, err = repo.List(CampaignListFilter{Page: 1, PageSize: 10, Search: "停"})
	if err != nil {
		t.Fatalf("search list failed: %v", err)
	}
	if total != 1 || len(campaigns) != 1 || campaigns[0].Name != "停用" {
		t.Fatalf("search filter failed: total=%d campaigns=%+v", total, campaigns)
	}
}
