package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// PrizeQuantityUnlimited 奖品不限量的哨兵值
	PrizeQuantityUnlimited = -1
)

// SpinCampaign 抽奖活动
type SpinCampaign struct {
	ID              uint           `gorm:"primarykey" json:"id"`                        // 主键
	Name            string         `gorm:"not null" json:"name"`                        // 名称
	Description     string         `gorm:"type:text" json:"description"`                // 描述
	StartAt         time.Time      `gorm:"index;not null" json:"start_at"`              // 开始时间
	EndAt           time.Time      `gorm:"index;not null" json:"end_at"`                // 结束时间
	MaxSpinsPerUser int            `gorm:"not null;default:1" json:"max_spins_per_user"` // 每人抽奖次数上限
	IsActive        bool           `gorm:"not null;default:true" json:"is_active"`      // 是否启用
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                     // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                     // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                              // 软删除时间

	Prizes []Prize `gorm:"foreignKey:CampaignID" json:"prizes"` // 奖池（展示顺序稳定）
}

// TableName 指定表名
func (SpinCampaign) TableName() string {
	return "spin_campaigns"
}

// WindowContains 判断时间点是否落在活动窗口内
func (c *SpinCampaign) WindowContains(t time.Time) bool {
	return !t.Before(c.StartAt) && !t.After(c.EndAt)
}

// Prize 奖品（隶属于唯一活动）
type Prize struct {
	ID           uint           `gorm:"primarykey" json:"id"`                  // 主键
	CampaignID   uint           `gorm:"index;not null" json:"campaign_id"`     // 所属活动ID
	Title        string         `gorm:"not null" json:"title"`                 // 标题
	Description  string         `gorm:"type:text" json:"description"`          // 描述
	ImageURL     string         `json:"image_url"`                             // 图片地址
	Weight       float64        `gorm:"not null;default:0" json:"weight"`      // 相对权重（0 表示不可中但保留展示）
	PrizeType    string         `gorm:"not null" json:"prize_type"`            // 类型（coupon/product/credit）
	CouponCode   string         `json:"coupon_code,omitempty"`                 // 优惠码（coupon 类型）
	ProductRef   string         `json:"product_ref,omitempty"`                 // 商品引用（product 类型，由兑付流程解释）
	CreditAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"credit_amount"` // 余额金额（credit 类型）
	Quantity     int            `gorm:"not null;default:-1" json:"quantity"`   // 剩余数量（-1 不限量，仅由引擎条件扣减）
	SortOrder    int            `gorm:"default:0;index" json:"sort_order"`     // 排序权重
	CreatedAt    time.Time      `json:"created_at"`                            // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                            // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                        // 软删除时间
}

// TableName 指定表名
func (Prize) TableName() string {
	return "prizes"
}

// Unlimited 判断奖品是否不限量
func (p *Prize) Unlimited() bool {
	return p.Quantity == PrizeQuantityUnlimited
}

// Available 判断奖品当前是否可被抽中（数量维度）
func (p *Prize) Available() bool {
	return p.Quantity != 0
}

// PrizePayload 奖品载荷（按类型区分，兑付流程可穷举匹配）
type PrizePayload interface {
	isPrizePayload()
}

// CouponPayload 优惠码载荷
type CouponPayload struct {
	Code string `json:"code"`
}

// ProductPayload 商品载荷
type ProductPayload struct {
	ProductRef string `json:"product_ref"`
}

// CreditPayload 余额载荷
type CreditPayload struct {
	Amount Money `json:"amount"`
}

func (CouponPayload) isPrizePayload()  {}
func (ProductPayload) isPrizePayload() {}
func (CreditPayload) isPrizePayload()  {}

// Payload 返回奖品的类型化载荷；未知类型返回 nil
func (p *Prize) Payload() PrizePayload {
	switch p.PrizeType {
	case "coupon":
		return CouponPayload{Code: p.CouponCode}
	case "product":
		return ProductPayload{ProductRef: p.ProductRef}
	case "credit":
		return CreditPayload{Amount: p.CreditAmount}
	default:
		return nil
	}
}
