package service

import "errors"

// 业务错误哨兵，handler 层据此映射统一响应码与文案。
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password too weak")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserDisabled       = errors.New("user disabled")

	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrCampaignInactive    = errors.New("campaign inactive")
	ErrQuotaExhausted      = errors.New("spin quota exhausted")
	ErrNoPrizesAvailable   = errors.New("no prizes available")
	ErrNoEligiblePrizes    = errors.New("no eligible prizes")
	ErrSpinConflict        = errors.New("spin allocation conflict")
	ErrCampaignHasSpins    = errors.New("campaign has spin records")
	ErrInvalidCampaign     = errors.New("invalid campaign")
	ErrInvalidPrize        = errors.New("invalid prize")
	ErrInvalidCampaignTime = errors.New("invalid campaign time window")
)
