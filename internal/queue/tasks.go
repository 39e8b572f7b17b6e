package queue

import (
	"encoding/json"

	"github.com/luckywheel/luckywheel-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPrizeRedeem 奖品兑付任务
	TaskPrizeRedeem = constants.TaskPrizeRedeem
)

// PrizeRedeemPayload 奖品兑付任务载荷
type PrizeRedeemPayload struct {
	SpinRecordID uint `json:"spin_record_id"`
}

// NewPrizeRedeemTask 创建奖品兑付任务
func NewPrizeRedeemTask(payload PrizeRedeemPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPrizeRedeem, body), nil
}
