package admin

import (
	"errors"
	"strconv"
	"time"

	handlershared "github.com/luckywheel/luckywheel-api/internal/http/handlers/shared"
	"github.com/luckywheel/luckywheel-api/internal/http/response"
	"github.com/luckywheel/luckywheel-api/internal/models"
	"github.com/luckywheel/luckywheel-api/internal/repository"
	"github.com/luckywheel/luckywheel-api/internal/service"

	"github.com/gin-gonic/gin"
)

type prizeRequest struct {
	Title        string       `json:"title" binding:"required"`
	Description  string       `json:"description"`
	ImageURL     string       `json:"image_url"`
	Weight       float64      `json:"weight"`
	PrizeType    string       `json:"prize_type" binding:"required"`
	CouponCode   string       `json:"coupon_code"`
	ProductRef   string       `json:"product_ref"`
	CreditAmount models.Money `json:"credit_amount"`
	Quantity     int          `json:"quantity"`
	SortOrder    int          `json:"sort_order"`
}

type campaignRequest struct {
	Name            string         `json:"name" binding:"required"`
	Description     string         `json:"description"`
	StartAt         time.Time      `json:"start_at" binding:"required"`
	EndAt           time.Time      `json:"end_at" binding:"required"`
	MaxSpinsPerUser int            `json:"max_spins_per_user"`
	IsActive        bool           `json:"is_active"`
	Prizes          []prizeRequest `json:"prizes"`
}

func (req campaignRequest) toInput() service.CampaignInput {
	return service.CampaignInput{
		Name:            req.Name,
		Description:     req.Description,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		MaxSpinsPerUser: req.MaxSpinsPerUser,
		IsActive:        req.IsActive,
		Prizes:          toPrizeInputs(req.Prizes),
	}
}

func toPrizeInputs(reqs []prizeRequest) []service.PrizeInput {
	inputs := make([]service.PrizeInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, service.PrizeInput{
			Title:        req.Title,
			Description:  req.Description,
			ImageURL:     req.ImageURL,
			Weight:       req.Weight,
			PrizeType:    req.PrizeType,
			CouponCode:   req.CouponCode,
			ProductRef:   req.ProductRef,
			CreditAmount: req.CreditAmount,
			Quantity:     req.Quantity,
			SortOrder:    req.SortOrder,
		})
	}
	return inputs
}

func respondCampaignAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCampaignNotFound):
		respondError(c, response.CodeNotFound, "error.campaign_not_found", nil)
	case errors.Is(err, service.ErrInvalidCampaignTime):
		respondError(c, response.CodeBadRequest, "error.campaign_window", nil)
	case errors.Is(err, service.ErrInvalidCampaign):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	case errors.Is(err, service.ErrInvalidPrize):
		respondError(c, response.CodeBadRequest, "error.prize_invalid", nil)
	case errors.Is(err, service.ErrCampaignHasSpins):
		respondError(c, response.CodeConflict, "error.campaign_has_spins", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// CreateCampaign 创建活动
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
		return
	}

	campaign, err := h.CampaignAdminService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondCampaignAdminError(c, err)
		return
	}
	response.Success(c, campaign)
}

// UpdateCampaign 更新活动
func (h *Handler) UpdateCampaign(c *gin.Context) {
	campaignID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
		return
	}

	campaign, err := h.CampaignAdminService.Update(c.Request.Context(), campaignID, req.toInput())
	if err != nil {
		respondCampaignAdminError(c, err)
		return
	}
	response.Success(c, campaign)
}

// ReplacePrizes 整体替换活动奖池
func (h *Handler) ReplacePrizes(c *gin.Context) {
	campaignID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Prizes []prizeRequest `json:"prizes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
		return
	}

	prizes, err := h.CampaignAdminService.ReplacePrizes(c.Request.Context(), campaignID, toPrizeInputs(req.Prizes))
	if err != nil {
		respondCampaignAdminError(c, err)
		return
	}
	response.Success(c, prizes)
}

// DeleteCampaign 删除活动
func (h *Handler) DeleteCampaign(c *gin.Context) {
	campaignID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.CampaignAdminService.Delete(c.Request.Context(), campaignID); err != nil {
		respondCampaignAdminError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetCampaign 获取活动详情
func (h *Handler) GetCampaign(c *gin.Context) {
	campaignID, ok := parseIDParam(c)
	if !ok {
		return
	}

	campaign, err := h.CampaignAdminService.Get(campaignID)
	if err != nil {
		respondCampaignAdminError(c, err)
		return
	}
	response.Success(c, campaign)
}

// ListCampaigns 活动列表
func (h *Handler) ListCampaigns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.CampaignListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	campaigns, total, err := h.CampaignAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, campaigns, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// ListCampaignRecords 活动抽奖流水
func (h *Handler) ListCampaignRecords(c *gin.Context) {
	campaignID, ok := parseIDParam(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.SpinRecordListFilter{
		Page:       page,
		PageSize:   pageSize,
		CampaignID: campaignID,
		PrizeType:  c.Query("prize_type"),
	}
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		filter.UserID = uint(parsed)
	}

	records, total, err := h.CampaignAdminService.ListRecords(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, records, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

func parseIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
