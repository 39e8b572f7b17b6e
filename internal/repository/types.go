package repository

import "time"

// CampaignListFilter 查询活动列表的过滤条件
type CampaignListFilter struct {
	Page     int
	PageSize int
	Search   string
	IsActive *bool
	ActiveAt *time.Time
}

// SpinRecordListFilter 查询抽奖流水的过滤条件
type SpinRecordListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	CampaignID  uint
	PrizeType   string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
