package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/luckywheel/luckywheel-api/internal/logger"
	"github.com/luckywheel/luckywheel-api/internal/provider"
	"github.com/luckywheel/luckywheel-api/internal/queue"
	"github.com/luckywheel/luckywheel-api/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPrizeRedeem, c.handlePrizeRedeem)
}

func (c *Consumer) handlePrizeRedeem(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_prize_redeem_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PrizeRedeemPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_prize_redeem_unmarshal_failed", "error", err)
		return err
	}
	if payload.SpinRecordID == 0 {
		logger.Debugw("worker_prize_redeem_skip_invalid_payload", "spin_record_id", payload.SpinRecordID)
		return nil
	}
	if c.RedeemService == nil {
		logger.Warnw("worker_prize_redeem_skip_redeem_service_nil", "spin_record_id", payload.SpinRecordID)
		return nil
	}
	if err := c.RedeemService.Redeem(payload.SpinRecordID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			logger.Debugw("worker_prize_redeem_skip_record_not_found", "spin_record_id", payload.SpinRecordID)
			return nil
		}
		logger.Warnw("worker_prize_redeem_failed", "spin_record_id", payload.SpinRecordID, "error", err)
		return err
	}
	return nil
}
