package public

import (
	"errors"

	"github.com/luckywheel/luckywheel-api/internal/http/response"
	"github.com/luckywheel/luckywheel-api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var campaignQueryErrorRules = []mappedHandlerError{
	{target: service.ErrCampaignNotFound, code: response.CodeNotFound, key: "error.campaign_not_found"},
	{target: service.ErrCampaignInactive, code: response.CodeBadRequest, key: "error.campaign_inactive"},
}

var spinErrorRules = []mappedHandlerError{
	{target: service.ErrCampaignNotFound, code: response.CodeNotFound, key: "error.campaign_not_found"},
	{target: service.ErrCampaignInactive, code: response.CodeBadRequest, key: "error.campaign_inactive"},
	{target: service.ErrQuotaExhausted, code: response.CodeBadRequest, key: "error.quota_exhausted"},
	{target: service.ErrNoPrizesAvailable, code: response.CodeBadRequest, key: "error.no_prizes_available"},
	{target: service.ErrNoEligiblePrizes, code: response.CodeBadRequest, key: "error.no_prizes_available"},
	{target: service.ErrSpinConflict, code: response.CodeConflict, key: "error.spin_conflict"},
	{target: service.ErrInvalidCampaign, code: response.CodeBadRequest, key: "error.bad_request"},
}

var userAuthErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, key: "error.email_exists"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, key: "error.user_disabled"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, key: "error.password_too_weak"},
}

func respondCampaignQueryError(c *gin.Context, err error) {
	respondWithMappedError(c, err, campaignQueryErrorRules, response.CodeInternal, "error.internal")
}

func respondSpinError(c *gin.Context, err error) {
	respondWithMappedError(c, err, spinErrorRules, response.CodeInternal, "error.internal")
}

func respondUserAuthError(c *gin.Context, err error) {
	respondWithMappedError(c, err, userAuthErrorRules, response.CodeInternal, "error.internal")
}
