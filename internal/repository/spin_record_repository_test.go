package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/luckywheel/luckywheel-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSpinRecordRepoTest(t *testing.T) *GormSpinRecordRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:spin_record_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.SpinRecord{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewSpinRecordRepository(db)
}

func seedRecord(t *testing.T, repo *GormSpinRecordRepository, campaignID, userID uint, prizeType string) *models.SpinRecord {
	t.Helper()
	record := &models.SpinRecord{
		RecordNo:   fmt.Sprintf("SP%d-%d", time.Now().UnixNano(), userID),
		UserID:     userID,
		CampaignID: campaignID,
		PrizeID:    1,
		PrizeTitle: "奖",
		PrizeType:  prizeType,
	}
	if err := repo.Create(record); err != nil {
		t.Fatalf("create record failed: %v", err)
	}
	return record
}

func TestCountByUserScopedToCampaign(t *testing.T) {
	repo := setupSpinRecordRepoTest(t)

	seedRecord(t, repo, 1, 10, "coupon")
	seedRecord(t, repo, 1, 10, "credit")
	seedRecord(t, repo, 2, 10, "coupon")
	seedRecord(t, repo, 1, 11, "coupon")

	count, err := repo.CountByUser(1, 10)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("count want 2 got %d", count)
	}

	count, err = repo.CountByCampaign(1)
	if err != nil {
		t.Fatalf("count by campaign failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("campaign count want 3 got %d", count)
	}
}

func TestListByUserFiltersAndPaginates(t *testing.T) {
	repo := setupSpinRecordRepoTest(t)

	for i := 0; i < 5; i++ {
		seedRecord(t, repo, 1, 20, "coupon")
	}
	seedRecord(t, repo, 1, 20, "credit")
	seedRecord(t, repo, 2, 20, "coupon")
	seedRecord(t, repo, 1, 21, "coupon")

	records, total, err := repo.ListByUser(SpinRecordListFilter{Page: 1, PageSize: 3, UserID: 20, CampaignID: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 6 {
		t.Fatalf("total want 6 got %d", total)
	}
	if len(records) != 3 {
		t.Fatalf("page size want 3 got %d", len(records))
	}
	// 最新流水在前
	if records[0].ID <= records[1].ID {
		t.Fatalf("records should order by id desc, got %d then %d", records[0].ID, records[1].ID)
	}

	records, total, err = repo.ListByUser(SpinRecordListFilter{Page: 1, PageSize: 10, UserID: 20, CampaignID: 1, PrizeType: "credit"})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if total != 1 || len(records) != 1 || records[0].PrizeType != "credit" {
		t.Fatalf("prize_type filter failed: total=%d records=%+v", total, records)
	}
}

func TestListByCampaignFiltersByUser(t *testing.T) {
	repo := setupSpinRecordRepoTest(t)

	seedRecord(t, repo, 3, 30, "coupon")
	seedRecord(t, repo, 3, 31, "coupon")
	seedRecord(t, repo, 4, 30, "coupon")

	records, total, err := repo.ListByCampaign(SpinRecordListFilter{Page: 1, PageSize: 10, CampaignID: 3, UserID: 30})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(records) != 1 || records[0].UserID != 30 {
		t.Fatalf("user filter failed: total=%d records=%+v", total, records)
	}
}

func TestGetByRecordNo(t *testing.T) {
	repo := setupSpinRecordRepoTest(t)
	created := seedRecord(t, repo, 5, 50, "coupon")

	record, err := repo.GetByRecordNo(created.RecordNo)
	if err != nil {
		t.Fatalf("get by record no failed: %v", err)
	}
	if record == nil || record.ID != created.ID {
		t.Fatalf("record lookup failed: %+v", record)
	}

	missing, err := repo.GetByRecordNo("SP-MISSING")
	if err != nil {
		t.Fatalf("missing record no should not error, got %v", err)
	}
	if missing != nil {
		t.Fatalf("missing record want nil got %+v", missing)
	}
}
