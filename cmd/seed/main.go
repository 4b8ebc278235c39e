package main

import (
	"os"
	"time"

	"github.com/carman72tmn/foodtech/internal/config"
	"github.com/carman72tmn/foodtech/internal/constants"
	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/repository"

	"github.com/shopspring/decimal"
)

// Seeds demo catalog data for local development. Running twice is safe,
// existing rows are left alone.
func main() {
	cfg := config.Load()
	log := logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer func() { _ = log.Sync() }()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns: cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns: cfg.Database.Pool.MaxIdleConns,
	}); err != nil {
		logger.Errorw("seed_db_init_failed", "error", err)
		os.Exit(1)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Errorw("seed_db_migrate_failed", "error", err)
		os.Exit(1)
	}

	if err := seed(); err != nil {
		logger.Errorw("seed_failed", "error", err)
		os.Exit(1)
	}
	logger.Infow("seed_done")
}

func seed() error {
	branchRepo := repository.NewBranchRepository(models.DB)
	categoryRepo := repository.NewCategoryRepository(models.DB)
	productRepo := repository.NewProductRepository(models.DB)
	promoRepo := repository.NewPromoCodeRepository(models.DB)
	actionRepo := repository.NewActionRepository(models.DB)

	branch, err := branchRepo.GetByTerminalID("demo-terminal-1")
	if err != nil {
		return err
	}
	if branch == nil {
		branch = &models.Branch{
			Name:              "Central",
			Address:           "1 Main Street",
			Phone:             "+10000000000",
			IikoTerminalID:    "demo-terminal-1",
			IsActive:          true,
			IsAcceptingOrders: true,
		}
		if err := branchRepo.Create(branch); err != nil {
			return err
		}
	}

	categories := []struct {
		name   string
		iikoID string
		items  []struct {
			name   string
			iikoID string
			price  int64
		}
	}{
		{
			name:   "Pizza",
			iikoID: "demo-cat-pizza",
			items: []struct {
				name   string
				iikoID string
				price  int64
			}{
				{"Margherita", "demo-prod-margherita", 550},
				{"Pepperoni", "demo-prod-pepperoni", 650},
			},
		},
		{
			name:   "Drinks",
			iikoID: "demo-cat-drinks",
			items: []struct {
				name   string
				iikoID string
				price  int64
			}{
				{"Cola 0.5", "demo-prod-cola", 120},
				{"Lemonade 0.5", "demo-prod-lemonade", 150},
			},
		},
	}

	for order, entry := range categories {
		category, err := categoryRepo.GetByIikoID(entry.iikoID)
		if err != nil {
			return err
		}
		if category == nil {
			category = &models.Category{
				Name:      entry.name,
				IikoID:    entry.iikoID,
				SortOrder: order,
				IsActive:  true,
			}
			if err := categoryRepo.Create(category); err != nil {
				return err
			}
		}
		for i, item := range entry.items {
			product, err := productRepo.GetByIikoID(item.iikoID)
			if err != nil {
				return err
			}
			if product != nil {
				continue
			}
			product = &models.Product{
				CategoryID:  category.ID,
				Name:        item.name,
				Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(item.price)),
				IikoID:      item.iikoID,
				IsAvailable: true,
				SortOrder:   i,
			}
			if err := productRepo.Create(product); err != nil {
				return err
			}
		}
	}

	promo, err := promoRepo.GetByCode("WELCOME10")
	if err != nil {
		return err
	}
	if promo == nil {
		until := time.Now().AddDate(1, 0, 0)
		promo = &models.PromoCode{
			Code:           "WELCOME10",
			Description:    "10% off the first order",
			Type:           constants.PromoTypePercent,
			Value:          models.NewMoneyFromInt(10),
			IsActive:       true,
			ValidUntil:     &until,
			UsageType:      constants.PromoUsageSinglePerUser,
			FirstOrderOnly: true,
		}
		if err := promoRepo.Create(promo); err != nil {
			return err
		}
	}

	actions, err := actionRepo.ListActive()
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		action := &models.Action{
			Name:           "Free lemonade over 1000",
			Type:           constants.ActionTypeGiftProduct,
			IsActive:       true,
			MinOrderAmount: models.NewMoneyFromInt(1000),
			Priority:       10,
		}
		if lemonade, err := productRepo.GetByIikoID("demo-prod-lemonade"); err == nil && lemonade != nil {
			action.GiftProductIDs = models.UintArray{lemonade.ID}
		}
		if err := actionRepo.Create(action); err != nil {
			return err
		}
	}

	return nil
}
