package service

import (
	"testing"

	"github.com/luckywheel/luckywheel-api/internal/constants"
	"github.com/luckywheel/luckywheel-api/internal/models"
)

func TestEligiblePrizesFiltersWeightAndStock(t *testing.T) {
	prizes := []models.Prize{
		{ID: 1, Title: "零权重", Weight: 0, Quantity: 10},
		{ID: 2, Title: "已抽完", Weight: 5, Quantity: 0},
		{ID: 3, Title: "不限量", Weight: 5, Quantity: models.PrizeQuantityUnlimited},
		{ID: 4, Title: "有库存", Weight: 5, Quantity: 3},
	}

	eligible := eligiblePrizes(prizes)
	if len(eligible) != 2 {
		t.Fatalf("eligible count want 2 got %d", len(eligible))
	}
	if eligible[0].ID != 3 || eligible[1].ID != 4 {
		t.Fatalf("eligible order want [3 4] got [%d %d]", eligible[0].ID, eligible[1].ID)
	}
}

func TestSelectPrizeBoundaries(t *testing.T) {
	prizes := []models.Prize{
		{ID: 1, Weight: 1},
		{ID: 2, Weight: 2},
		{ID: 3, Weight: 3},
	}

	if got := selectPrize(prizes, 0); got == nil || got.ID != 1 {
		t.Fatalf("randUnit 0 should pick first prize, got %+v", got)
	}
	if got := selectPrize(prizes, 0.999999); got == nil || got.ID != 3 {
		t.Fatalf("randUnit near 1 should pick last prize, got %+v", got)
	}
	// 越界输入被收敛到 [0, 1)
	if got := selectPrize(prizes, -0.5); got == nil || got.ID != 1 {
		t.Fatalf("negative randUnit should clamp to first prize, got %+v", got)
	}
	if got := selectPrize(prizes, 1.5); got == nil || got.ID != 3 {
		t.Fatalf("randUnit >= 1 should clamp to last prize, got %+v", got)
	}
}

func TestSelectPrizeEmptyOrZeroWeight(t *testing.T) {
	if got := selectPrize(nil, 0.5); got != nil {
		t.Fatalf("empty pool should return nil, got %+v", got)
	}
	zeroed := []models.Prize{{ID: 1, Weight: 0}, {ID: 2, Weight: 0}}
	if got := selectPrize(zeroed, 0.5); got != nil {
		t.Fatalf("all-zero weights should return nil, got %+v", got)
	}
}

func TestSelectPrizeZeroWeightNeverWins(t *testing.T) {
	prizes := []models.Prize{
		{ID: 1, Weight: 2},
		{ID: 2, Weight: 0},
		{ID: 3, Weight: 2},
	}
	for i := 0; i < 100; i++ {
		randUnit := float64(i) / 100
		got := selectPrize(prizes, randUnit)
		if got == nil {
			t.Fatalf("randUnit %.2f should pick a prize", randUnit)
		}
		if got.ID == 2 {
			t.Fatalf("zero-weight prize won at randUnit %.2f", randUnit)
		}
	}
}

func TestSelectPrizeProportions(t *testing.T) {
	prizes := []models.Prize{
		{ID: 1, Weight: 1},
		{ID: 2, Weight: 3},
	}
	counts := map[uint]int{}
	const samples = 1000
	for i := 0; i < samples; i++ {
		got := selectPrize(prizes, float64(i)/samples)
		if got == nil {
			t.Fatalf("sample %d picked nothing", i)
		}
		counts[got.ID]++
	}
	if counts[1] != 250 || counts[2] != 750 {
		t.Fatalf("proportions want 250/750 got %d/%d", counts[1], counts[2])
	}
}

func TestClassifyEmptyPool(t *testing.T) {
	svc := &SpinService{}

	stockedOut := []models.Prize{
		{Weight: 5, Quantity: 0, PrizeType: constants.PrizeTypeCoupon},
	}
	if err := svc.classifyEmptyPool(stockedOut); err != ErrNoPrizesAvailable {
		t.Fatalf("stocked-out pool want ErrNoPrizesAvailable got %v", err)
	}

	noWeight := []models.Prize{
		{Weight: 0, Quantity: 10, PrizeType: constants.PrizeTypeCoupon},
	}
	if err := svc.classifyEmptyPool(noWeight); err != ErrNoEligiblePrizes {
		t.Fatalf("zero-weight pool want ErrNoEligiblePrizes got %v", err)
	}
}
