package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSON 类型定义，用于存储奖品快照等结构化内容
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, j)
}

// SpinRecord 抽奖流水（只追加，不更新不删除；配额统计的唯一事实来源）
type SpinRecord struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                          // 主键
	RecordNo      string    `gorm:"uniqueIndex;not null" json:"record_no"`                         // 流水号
	UserID        uint      `gorm:"not null;index:idx_spin_campaign_user,priority:2" json:"user_id"`     // 用户ID
	CampaignID    uint      `gorm:"not null;index:idx_spin_campaign_user,priority:1" json:"campaign_id"` // 活动ID（非拥有引用）
	PrizeID       uint      `gorm:"not null" json:"prize_id"`                                      // 中奖奖品ID（仅供追溯）
	PrizeTitle    string    `gorm:"not null" json:"prize_title"`                                   // 中奖时的奖品标题
	PrizeType     string    `gorm:"not null" json:"prize_type"`                                    // 中奖时的奖品类型
	PrizeSnapshot JSON      `gorm:"type:json" json:"prize_snapshot"`                               // 中奖时的奖品完整快照（值拷贝，不随后续改动变化）
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                       // 中奖时间
}

// TableName 指定表名
func (SpinRecord) TableName() string {
	return "spin_records"
}

// NewPrizeSnapshot 按值拷贝奖品为快照
func NewPrizeSnapshot(prize *Prize) JSON {
	if prize == nil {
		return nil
	}
	return JSON{
		"id":            prize.ID,
		"campaign_id":   prize.CampaignID,
		"title":         prize.Title,
		"description":   prize.Description,
		"image_url":     prize.ImageURL,
		"weight":        prize.Weight,
		"prize_type":    prize.PrizeType,
		"coupon_code":   prize.CouponCode,
		"product_ref":   prize.ProductRef,
		"credit_amount": prize.CreditAmount.String(),
	}
}
