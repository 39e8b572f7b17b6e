package public

import (
	"strconv"

	handlershared "github.com/luckywheel/luckywheel-api/internal/http/handlers/shared"
	"github.com/luckywheel/luckywheel-api/internal/http/response"
	"github.com/luckywheel/luckywheel-api/internal/models"

	"github.com/gin-gonic/gin"
)

// SpinRecordView 抽奖流水响应结构
type SpinRecordView struct {
	ID         uint        `json:"id"`
	RecordNo   string      `json:"record_no"`
	CampaignID uint        `json:"campaign_id"`
	PrizeID    uint        `json:"prize_id"`
	PrizeTitle string      `json:"prize_title"`
	PrizeType  string      `json:"prize_type"`
	CreatedAt  string      `json:"created_at"`
	Snapshot   models.JSON `json:"snapshot,omitempty"`
}

func newSpinRecordView(record *models.SpinRecord, withSnapshot bool) SpinRecordView {
	view := SpinRecordView{
		ID:         record.ID,
		RecordNo:   record.RecordNo,
		CampaignID: record.CampaignID,
		PrizeID:    record.PrizeID,
		PrizeTitle: record.PrizeTitle,
		PrizeType:  record.PrizeType,
		CreatedAt:  record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if withSnapshot {
		view.Snapshot = record.PrizeSnapshot
	}
	return view
}

// Spin 执行一次抽奖
func (h *Handler) Spin(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	campaignID, ok := parseCampaignID(c)
	if !ok {
		return
	}

	result, err := h.SpinService.Spin(userID, campaignID)
	if err != nil {
		respondSpinError(c, err)
		return
	}

	handlershared.RequestLog(c).Infow("spin_completed",
		"user_id", userID,
		"campaign_id", campaignID,
		"record_no", result.Record.RecordNo,
		"prize_id", result.Prize.ID,
	)

	response.Success(c, gin.H{
		"record":     newSpinRecordView(result.Record, true),
		"slot_index": result.SlotIndex,
		"prize": gin.H{
			"id":         result.Prize.ID,
			"title":      result.Prize.Title,
			"prize_type": result.Prize.PrizeType,
			"image_url":  result.Prize.ImageURL,
		},
	})
}

// ListHistory 获取用户抽奖历史
func (h *Handler) ListHistory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	var campaignID uint
	if raw := c.Query("campaign_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		campaignID = uint(parsed)
	}

	records, total, err := h.CampaignService.ListUserHistory(userID, campaignID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	views := make([]SpinRecordView, 0, len(records))
	for i := range records {
		views = append(views, newSpinRecordView(&records[i], true))
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, views, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}
