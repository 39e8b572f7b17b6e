package constants

// 奖品类型常量
const (
	PrizeTypeCoupon  = "coupon"
	PrizeTypeProduct = "product"
	PrizeTypeCredit  = "credit"
)

// 用户状态常量
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskPrizeRedeem = "prize:redeem"
)

// 抽奖引擎常量
const (
	// SpinMaxAttempts 库存冲突时单次抽奖的最大重选次数
	SpinMaxAttempts = 3
)
