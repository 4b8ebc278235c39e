package service

import (
	"context"
	"fmt"
	"time"

	"github.com/carman72tmn/foodtech/internal/constants"
	"github.com/carman72tmn/foodtech/internal/iiko"
	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SyncService mirrors the POS catalog into the local database. Each run
// writes a SyncLog row so operators can inspect sync history.
type SyncService struct {
	client       *iiko.Client
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	syncLogRepo  repository.SyncLogRepository
}

// NewSyncService creates a sync service.
func NewSyncService(
	client *iiko.Client,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	syncLogRepo repository.SyncLogRepository,
) *SyncService {
	return &SyncService{
		client:       client,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		syncLogRepo:  syncLogRepo,
	}
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	RunID      string `json:"run_id"`
	Categories int    `json:"categories"`
	Products   int    `json:"products"`
}

// SyncMenu pulls the full nomenclature and upserts categories and
// products keyed by their external ids. Rows are never deleted: items
// removed upstream are marked unavailable.
func (s *SyncService) SyncMenu(ctx context.Context) (*SyncResult, error) {
	log, err := s.startLog(constants.SyncTypeMenu)
	if err != nil {
		return nil, err
	}

	menu, err := s.client.Nomenclature(ctx)
	if err != nil {
		s.finishLog(log, constants.SyncStatusError, 0, 0, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	var categories, products int
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		categoryRepo := s.categoryRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		categoryIDs := make(map[string]uint, len(menu.Groups))
		for _, group := range menu.Groups {
			id, err := s.upsertCategory(categoryRepo, group)
			if err != nil {
				return err
			}
			categoryIDs[group.ID] = id
			categories++
		}

		for _, item := range menu.Products {
			if err := s.upsertProduct(productRepo, item, categoryIDs); err != nil {
				return err
			}
			products++
		}
		return nil
	})
	if err != nil {
		s.finishLog(log, constants.SyncStatusError, categories, products, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	s.finishLog(log, constants.SyncStatusSuccess, categories, products, "")
	logger.Infow("sync_menu_completed", "run_id", log.RunID, "categories", categories, "products", products)
	return &SyncResult{RunID: log.RunID, Categories: categories, Products: products}, nil
}

// SyncPrices refreshes product prices from the nomenclature without
// touching names, categories or availability. Unchanged prices are
// skipped.
func (s *SyncService) SyncPrices(ctx context.Context) (*SyncResult, error) {
	log, err := s.startLog(constants.SyncTypePrices)
	if err != nil {
		return nil, err
	}

	menu, err := s.client.Nomenclature(ctx)
	if err != nil {
		s.finishLog(log, constants.SyncStatusError, 0, 0, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	var updated int
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		for _, item := range menu.Products {
			price, ok := primaryPrice(item)
			if !ok {
				continue
			}
			product, err := productRepo.GetByIikoID(item.ID)
			if err != nil {
				return err
			}
			if product == nil || product.Price.Decimal.Equal(price) {
				continue
			}
			updates := map[string]interface{}{
				"price": models.NewMoneyFromDecimal(price),
			}
			if err := productRepo.UpdateFields(product.ID, updates); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		s.finishLog(log, constants.SyncStatusError, 0, updated, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	s.finishLog(log, constants.SyncStatusSuccess, 0, updated, "")
	logger.Infow("sync_prices_completed", "run_id", log.RunID, "updated", updated)
	return &SyncResult{RunID: log.RunID, Products: updated}, nil
}

// SyncStopLists flips product availability from stop list balances. A
// product on a stop list with zero balance becomes unavailable, every
// other known product becomes available again.
func (s *SyncService) SyncStopLists(ctx context.Context) (*SyncResult, error) {
	log, err := s.startLog(constants.SyncTypeStopLists)
	if err != nil {
		return nil, err
	}

	items, err := s.client.StopLists(ctx)
	if err != nil {
		s.finishLog(log, constants.SyncStatusError, 0, 0, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	stopped := make(map[string]bool, len(items))
	for _, item := range items {
		if item.Balance <= 0 {
			stopped[item.ProductID] = true
		}
	}

	var flipped int
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		products, err := productRepo.ListAll()
		if err != nil {
			return err
		}
		for _, product := range products {
			if product.IikoID == "" {
				continue
			}
			available := !stopped[product.IikoID]
			if product.IsAvailable == available {
				continue
			}
			updates := map[string]interface{}{
				"is_available": available,
			}
			if err := productRepo.UpdateFields(product.ID, updates); err != nil {
				return err
			}
			flipped++
		}
		return nil
	})
	if err != nil {
		s.finishLog(log, constants.SyncStatusError, 0, flipped, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	s.finishLog(log, constants.SyncStatusSuccess, 0, flipped, "")
	logger.Infow("sync_stop_lists_completed", "run_id", log.RunID, "flipped", flipped, "stopped", len(stopped))
	return &SyncResult{RunID: log.RunID, Products: flipped}, nil
}

// SyncHistory lists past sync runs.
func (s *SyncService) SyncHistory(syncType string, page, pageSize int) ([]models.SyncLog, int64, error) {
	return s.syncLogRepo.List(syncType, page, pageSize)
}

func (s *SyncService) startLog(syncType string) (*models.SyncLog, error) {
	now := time.Now()
	log := &models.SyncLog{
		SyncType:  syncType,
		Status:    constants.SyncStatusRunning,
		RunID:     uuid.NewString(),
		StartedAt: now,
	}
	if err := s.syncLogRepo.Create(log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *SyncService) finishLog(log *models.SyncLog, status string, categories, products int, details string) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":           status,
		"categories_count": categories,
		"products_count":   products,
		"finished_at":      now,
	}
	if details != "" {
		updates["details"] = details
	}
	if err := s.syncLogRepo.UpdateFields(log.ID, updates); err != nil {
		logger.Errorw("sync_log_update_failed", "sync_log_id", log.ID, "error", err)
	}
}

func (s *SyncService) upsertCategory(repo repository.CategoryRepository, group iiko.Group) (uint, error) {
	existing, err := repo.GetByIikoID(group.ID)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		category := &models.Category{
			Name:      group.Name,
			IikoID:    group.ID,
			SortOrder: group.Order,
			IsActive:  !group.IsDeleted,
		}
		if err := repo.Create(category); err != nil {
			return 0, err
		}
		return category.ID, nil
	}

	existing.Name = group.Name
	existing.SortOrder = group.Order
	existing.IsActive = !group.IsDeleted
	if err := repo.Update(existing); err != nil {
		return 0, err
	}
	return existing.ID, nil
}

func (s *SyncService) upsertProduct(repo repository.ProductRepository, item iiko.MenuProduct, categoryIDs map[string]uint) error {
	price, hasPrice := primaryPrice(item)

	existing, err := repo.GetByIikoID(item.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		existing = &models.Product{
			Name:        item.Name,
			Description: item.Description,
			Price:       models.NewMoneyFromDecimal(price),
			IikoID:      item.ID,
			SortOrder:   item.Order,
			IsAvailable: !item.IsDeleted,
			CategoryID:  categoryIDs[item.ParentGroup],
		}
		if len(item.ImageLinks) > 0 {
			existing.ImageURL = item.ImageLinks[0]
		}
		if err := repo.Create(existing); err != nil {
			return err
		}
	} else {
		existing.Name = item.Name
		existing.Description = item.Description
		// A feed item without any price entry keeps the stored price.
		if hasPrice {
			existing.Price = models.NewMoneyFromDecimal(price)
		}
		existing.SortOrder = item.Order
		if item.IsDeleted {
			existing.IsAvailable = false
		}
		if id, ok := categoryIDs[item.ParentGroup]; ok {
			existing.CategoryID = id
		}
		if len(item.ImageLinks) > 0 {
			existing.ImageURL = item.ImageLinks[0]
		}
		if err := repo.Update(existing); err != nil {
			return err
		}
	}

	// Size rows mirror the feed wholesale. A product that shrank back to
	// a single size loses its per-size rows.
	var sizes []models.ProductSize
	if len(item.SizePrices) > 1 {
		sizes = make([]models.ProductSize, 0, len(item.SizePrices))
		for _, sp := range item.SizePrices {
			sizes = append(sizes, models.ProductSize{
				Name:       sp.SizeName,
				IikoSizeID: sp.SizeID,
				Price:      models.NewMoneyFromDecimal(decimal.NewFromFloat(sp.Price.CurrentPrice)),
			})
		}
	}
	return repo.ReplaceSizes(existing.ID, sizes)
}

// primaryPrice returns the first included size price.
func primaryPrice(item iiko.MenuProduct) (decimal.Decimal, bool) {
	for _, sp := range item.SizePrices {
		if sp.Price.IsIncluded {
			return decimal.NewFromFloat(sp.Price.CurrentPrice), true
		}
	}
	if len(item.SizePrices) > 0 {
		return decimal.NewFromFloat(item.SizePrices[0].Price.CurrentPrice), true
	}
	return decimal.Zero, false
}
