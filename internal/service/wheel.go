package service

import (
	"github.com/luckywheel/luckywheel-api/internal/models"
)

// eligiblePrizes 过滤出当前可被抽中的奖品：权重为正且数量未耗尽。
// 返回切片保持奖池原始顺序，选中结果据此回溯展示槽位。
func eligiblePrizes(prizes []models.Prize) []models.Prize {
	eligible := make([]models.Prize, 0, len(prizes))
	for _, prize := range prizes {
		if prize.Weight <= 0 {
			continue
		}
		if !prize.Available() {
			continue
		}
		eligible = append(eligible, prize)
	}
	return eligible
}

// selectPrize 按相对权重选取奖品。randUnit 取值于 [0, 1)。
// 游标法：用 randUnit*totalWeight 依次减去各奖品权重，落入谁的区间即中谁。
// 浮点误差导致游标走到最后仍未归零时，回退到最后一个正权重奖品。
func selectPrize(prizes []models.Prize, randUnit float64) *models.Prize {
	if len(prizes) == 0 {
		return nil
	}

	var totalWeight float64
	for _, prize := range prizes {
		totalWeight += prize.Weight
	}
	if totalWeight <= 0 {
		return nil
	}

	if randUnit < 0 {
		randUnit = 0
	}
	if randUnit >= 1 {
		randUnit = 1 - 1e-12
	}

	cursor := randUnit * totalWeight
	lastIdx := -1
	for i := range prizes {
		if prizes[i].Weight <= 0 {
			continue
		}
		lastIdx = i
		if cursor < prizes[i].Weight {
			return &prizes[i]
		}
		cursor -= prizes[i].Weight
	}
	if lastIdx >= 0 {
		return &prizes[lastIdx]
	}
	return nil
}
