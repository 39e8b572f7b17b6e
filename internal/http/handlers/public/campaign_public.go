package public

import (
	"strconv"

	"github.com/luckywheel/luckywheel-api/internal/http/response"
	"github.com/luckywheel/luckywheel-api/internal/models"

	"github.com/gin-gonic/gin"
)

// PublicPrizeView 公共奖品响应结构，不暴露权重与奖品载荷。
type PublicPrizeView struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	PrizeType   string `json:"prize_type"`
	SortOrder   int    `json:"sort_order"`
	IsSoldOut   bool   `json:"is_sold_out"`
}

// PublicCampaignView 公共活动响应结构
type PublicCampaignView struct {
	ID              uint              `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	StartAt         string            `json:"start_at"`
	EndAt           string            `json:"end_at"`
	MaxSpinsPerUser int               `json:"max_spins_per_user"`
	Prizes          []PublicPrizeView `json:"prizes"`
}

func newPublicCampaignView(campaign *models.SpinCampaign) PublicCampaignView {
	prizes := make([]PublicPrizeView, 0, len(campaign.Prizes))
	for _, prize := range campaign.Prizes {
		prizes = append(prizes, PublicPrizeView{
			ID:          prize.ID,
			Title:       prize.Title,
			Description: prize.Description,
			ImageURL:    prize.ImageURL,
			PrizeType:   prize.PrizeType,
			SortOrder:   prize.SortOrder,
			IsSoldOut:   !prize.Available(),
		})
	}
	return PublicCampaignView{
		ID:              campaign.ID,
		Name:            campaign.Name,
		Description:     campaign.Description,
		StartAt:         campaign.StartAt.Format("2006-01-02T15:04:05Z07:00"),
		EndAt:           campaign.EndAt.Format("2006-01-02T15:04:05Z07:00"),
		MaxSpinsPerUser: campaign.MaxSpinsPerUser,
		Prizes:          prizes,
	}
}

// ListCampaigns 获取当前有效活动列表
func (h *Handler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.CampaignService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	views := make([]PublicCampaignView, 0, len(campaigns))
	for i := range campaigns {
		views = append(views, newPublicCampaignView(&campaigns[i]))
	}
	response.Success(c, views)
}

// GetCampaign 获取活动详情
func (h *Handler) GetCampaign(c *gin.Context) {
	campaignID, ok := parseCampaignID(c)
	if !ok {
		return
	}

	campaign, err := h.CampaignService.GetActive(c.Request.Context(), campaignID)
	if err != nil {
		respondCampaignQueryError(c, err)
		return
	}
	response.Success(c, newPublicCampaignView(campaign))
}

// GetQuota 获取用户在活动内的剩余抽奖次数
func (h *Handler) GetQuota(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	campaignID, ok := parseCampaignID(c)
	if !ok {
		return
	}

	campaign, err := h.CampaignService.GetActive(c.Request.Context(), campaignID)
	if err != nil {
		respondCampaignQueryError(c, err)
		return
	}

	remaining, err := h.CampaignService.RemainingSpins(campaign, userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{
		"campaign_id":        campaign.ID,
		"max_spins_per_user": campaign.MaxSpinsPerUser,
		"remaining_spins":    remaining,
	})
}

func parseCampaignID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
