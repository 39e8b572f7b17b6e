package main

import (
	"fmt"
	"time"

	"github.com/luckywheel/luckywheel-api/internal/config"
	"github.com/luckywheel/luckywheel-api/internal/constants"
	"github.com/luckywheel/luckywheel-api/internal/logger"
	"github.com/luckywheel/luckywheel-api/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	now := time.Now()

	// 演示活动：进行中、未开始、已停用各一个
	campaigns := []models.SpinCampaign{
		{
			Name:            "周年庆大转盘",
			Description:     "周年庆限时抽奖，人人有机会",
			StartAt:         now.Add(-24 * time.Hour),
			EndAt:           now.AddDate(0, 1, 0),
			MaxSpinsPerUser: 3,
			IsActive:        true,
			Prizes: []models.Prize{
				{
					Title:        "88 元余额",
					Description:  "直接入账到账户余额",
					Weight:       1,
					PrizeType:    constants.PrizeTypeCredit,
					CreditAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(88)),
					Quantity:     10,
					SortOrder:    10,
				},
				{
					Title:        "8.8 元余额",
					Description:  "直接入账到账户余额",
					Weight:       20,
					PrizeType:    constants.PrizeTypeCredit,
					CreditAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(8.8)),
					Quantity:     200,
					SortOrder:    20,
				},
				{
					Title:      "9 折优惠码",
					Weight:     30,
					PrizeType:  constants.PrizeTypeCoupon,
					CouponCode: "ANNIV-90OFF",
					Quantity:   models.PrizeQuantityUnlimited,
					SortOrder:  30,
				},
				{
					Title:      "定制马克杯",
					Weight:     5,
					PrizeType:  constants.PrizeTypeProduct,
					ProductRef: "sku:mug-anniv",
					Quantity:   30,
					SortOrder:  40,
				},
				{
					Title:     "谢谢参与",
					Weight:    100,
					PrizeType: constants.PrizeTypeCoupon,
					// 安慰奖用不可兑付的占位优惠码表达
					CouponCode: "THANKS",
					Quantity:   models.PrizeQuantityUnlimited,
					SortOrder:  50,
				},
			},
		},
		{
			Name:            "下月新人抽奖",
			Description:     "尚未开始的预热活动",
			StartAt:         now.AddDate(0, 1, 0),
			EndAt:           now.AddDate(0, 2, 0),
			MaxSpinsPerUser: 1,
			IsActive:        true,
			Prizes: []models.Prize{
				{
					Title:      "新人 95 折券",
					Weight:     1,
					PrizeType:  constants.PrizeTypeCoupon,
					CouponCode: "NEWBIE-95",
					Quantity:   models.PrizeQuantityUnlimited,
					SortOrder:  10,
				},
			},
		},
		{
			Name:            "内部测试转盘",
			Description:     "已停用，仅后台可见",
			StartAt:         now.Add(-48 * time.Hour),
			EndAt:           now.AddDate(0, 0, 7),
			MaxSpinsPerUser: 99,
			IsActive:        false,
			Prizes: []models.Prize{
				{
					Title:        "测试余额",
					Weight:       1,
					PrizeType:    constants.PrizeTypeCredit,
					CreditAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(0.01)),
					Quantity:     models.PrizeQuantityUnlimited,
					SortOrder:    10,
				},
			},
		},
	}

	for i := range campaigns {
		campaign := &campaigns[i]
		var existing models.SpinCampaign
		if err := models.DB.Where("name = ?", campaign.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(campaign).Error; err != nil {
				stdLog.Printf("Failed to create campaign %s: %v", campaign.Name, err)
			} else {
				stdLog.Printf("Created campaign: %s (%d prizes)", campaign.Name, len(campaign.Prizes))
			}
		} else {
			stdLog.Printf("Campaign already exists: %s", campaign.Name)
		}
	}

	// 演示用户
	users := []struct {
		Email       string
		Password    string
		DisplayName string
		Status      string
	}{
		{Email: "alice@example.com", Password: "Passw0rd!", DisplayName: "Alice", Status: constants.UserStatusActive},
		{Email: "bob@example.com", Password: "Passw0rd!", DisplayName: "Bob", Status: constants.UserStatusActive},
		{Email: "banned@example.com", Password: "Passw0rd!", DisplayName: "Banned", Status: constants.UserStatusBlocked},
	}

	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", u.Email)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", u.Email, err)
			continue
		}
		user := models.User{
			Email:        u.Email,
			PasswordHash: string(hash),
			DisplayName:  u.DisplayName,
			Status:       u.Status,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", u.Email, err)
		} else {
			stdLog.Printf("Created user: %s", u.Email)
		}
	}

	fmt.Println("\n✅ Demo data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Campaigns (running / upcoming / disabled)")
	fmt.Println("- 3 Users (alice / bob / banned)")
}
