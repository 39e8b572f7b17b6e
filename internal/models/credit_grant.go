package models

import (
	"time"
)

// CreditGrant 余额奖品入账记录
// 每条抽奖流水至多入账一次，唯一索引保证任务重试不会重复加钱。
type CreditGrant struct {
	ID           uint      `gorm:"primarykey" json:"id"`                       // 主键
	SpinRecordID uint      `gorm:"uniqueIndex;not null" json:"spin_record_id"` // 抽奖流水ID
	UserID       uint      `gorm:"index;not null" json:"user_id"`              // 用户ID
	Amount       Money     `gorm:"type:decimal(20,2);not null" json:"amount"`  // 入账金额
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                    // 创建时间
}

// TableName 指定表名
func (CreditGrant) TableName() string {
	return "credit_grants"
}
