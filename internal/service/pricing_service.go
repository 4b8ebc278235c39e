package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/carman72tmn/foodtech/internal/constants"
	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/repository"

	"github.com/shopspring/decimal"
)

// PricingService prices a cart: subtotal, bonus debit, promo code and
// automatic actions, in that order.
type PricingService struct {
	productRepo repository.ProductRepository
	promoRepo   repository.PromoCodeRepository
	actionRepo  repository.ActionRepository
	orderRepo   repository.OrderRepository
}

// NewPricingService creates a pricing service.
func NewPricingService(
	productRepo repository.ProductRepository,
	promoRepo repository.PromoCodeRepository,
	actionRepo repository.ActionRepository,
	orderRepo repository.OrderRepository,
) *PricingService {
	return &PricingService{
		productRepo: productRepo,
		promoRepo:   promoRepo,
		actionRepo:  actionRepo,
		orderRepo:   orderRepo,
	}
}

// QuoteItem is one cart line to price.
type QuoteItem struct {
	ProductID uint
	Quantity  int
}

// QuoteInput is the pricing request.
type QuoteInput struct {
	Items          []QuoteItem
	Customer       *models.Customer
	BonusRequested models.Money
	PromoCode      string
	BranchID       uint
	Platform       string
	DeliveryType   string
	Now            time.Time
}

// Quote is the pricing result.
type Quote struct {
	Subtotal       models.Money
	BonusApplied   models.Money
	PromoDiscount  models.Money
	ActionDiscount models.Money
	TotalDiscount  models.Money
	FinalTotal     models.Money
	Promo          *models.PromoCode
	Lines          []models.OrderItem
}

// Quote prices a cart. Validation failures on customer-entered inputs
// (items, bonus, promo code) are hard errors; defects in stored action or
// gift configuration are logged and skipped so checkout never blocks on
// them.
func (s *PricingService) Quote(input QuoteInput) (*Quote, error) {
	if len(input.Items) == 0 {
		return nil, ErrOrderEmpty
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	lines, subtotal, itemsCount, err := s.priceItems(input.Items)
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		Subtotal: models.NewMoneyFromDecimal(subtotal),
		Lines:    lines,
	}

	running := decimal.Zero

	bonus := input.BonusRequested.Decimal
	if bonus.GreaterThan(decimal.Zero) {
		if input.Customer == nil || bonus.GreaterThan(input.Customer.BonusPoints.Decimal) {
			return nil, ErrInsufficientBonus
		}
		if bonus.GreaterThan(subtotal) {
			bonus = subtotal
		}
		quote.BonusApplied = models.NewMoneyFromDecimal(bonus)
		running = running.Add(bonus)
	}

	if strings.TrimSpace(input.PromoCode) != "" {
		promo, discount, giftLines, err := s.applyPromo(input, subtotal, itemsCount, running, now)
		if err != nil {
			return nil, err
		}
		quote.Promo = promo
		quote.PromoDiscount = models.NewMoneyFromDecimal(discount)
		quote.Lines = append(quote.Lines, giftLines...)
		running = running.Add(discount)
	}

	// A no-combine promo excludes automatic actions.
	if quote.Promo == nil || !quote.Promo.NoCombine {
		actionDiscount, actionGifts := s.applyActions(subtotal, running)
		quote.ActionDiscount = models.NewMoneyFromDecimal(actionDiscount)
		quote.Lines = append(quote.Lines, actionGifts...)
		running = running.Add(actionDiscount)
	}

	if running.GreaterThan(subtotal) {
		running = subtotal
	}
	quote.TotalDiscount = models.NewMoneyFromDecimal(running)

	final := subtotal.Sub(running)
	if final.LessThan(decimal.Zero) {
		final = decimal.Zero
	}
	quote.FinalTotal = models.NewMoneyFromDecimal(final)
	return quote, nil
}

func (s *PricingService) priceItems(items []QuoteItem) ([]models.OrderItem, decimal.Decimal, int, error) {
	lines := make([]models.OrderItem, 0, len(items))
	subtotal := decimal.Zero
	itemsCount := 0
	for _, item := range items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, decimal.Zero, 0, err
		}
		if product == nil {
			return nil, decimal.Zero, 0, fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
		}
		if !product.IsAvailable {
			return nil, decimal.Zero, 0, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
		}
		lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(quantity)))
		lines = append(lines, models.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			UnitPrice:  product.Price,
			Quantity:   quantity,
			TotalPrice: models.NewMoneyFromDecimal(lineTotal),
		})
		subtotal = subtotal.Add(lineTotal)
		itemsCount += quantity
	}
	return lines, subtotal, itemsCount, nil
}

func (s *PricingService) applyPromo(input QuoteInput, subtotal decimal.Decimal, itemsCount int, running decimal.Decimal, now time.Time) (*models.PromoCode, decimal.Decimal, []models.OrderItem, error) {
	promo, err := s.promoRepo.GetByCode(input.PromoCode)
	if err != nil {
		return nil, decimal.Zero, nil, err
	}
	if promo == nil {
		return nil, decimal.Zero, nil, ErrPromoNotFound
	}
	if !promo.IsActive {
		return promo, decimal.Zero, nil, ErrPromoInactive
	}
	if err := checkPromoWindow(promo, now); err != nil {
		return promo, decimal.Zero, nil, err
	}
	if err := s.checkPromoUsage(promo, input.Customer); err != nil {
		return promo, decimal.Zero, nil, err
	}
	if err := checkPromoEligibility(promo, input, subtotal, itemsCount); err != nil {
		return promo, decimal.Zero, nil, err
	}

	var discount decimal.Decimal
	var giftLines []models.OrderItem
	switch promo.Type {
	case constants.PromoTypePercent:
		discount = subtotal.Mul(promo.Value.Decimal).Div(decimal.NewFromInt(100)).Round(2)
	case constants.PromoTypeFixed:
		discount = promo.Value.Decimal
	case constants.PromoTypeGift, constants.PromoTypeFreeItems:
		giftLines = s.resolveGiftLines(promo.GiftProductIDs, "promo", promo.Code)
	case constants.PromoTypeFunnel:
		// Funnel codes track attribution only, no direct discount.
	default:
		logger.Warnw("pricing_promo_unknown_type", "code", promo.Code, "type", promo.Type)
	}

	remaining := subtotal.Sub(running)
	if remaining.LessThan(decimal.Zero) {
		remaining = decimal.Zero
	}
	if discount.GreaterThan(remaining) {
		discount = remaining
	}
	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}
	return promo, discount, giftLines, nil
}

func checkPromoWindow(promo *models.PromoCode, now time.Time) error {
	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return ErrPromoExpired
	}
	if promo.ValidUntil != nil && now.After(*promo.ValidUntil) {
		return ErrPromoExpired
	}
	if len(promo.ValidDays) > 0 {
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // ISO: Sunday is 7
		}
		if !promo.ValidDays.Contains(weekday) {
			return ErrPromoExpired
		}
	}
	clock := now.Format("15:04")
	if promo.TimeFrom != "" && clock < promo.TimeFrom {
		return ErrPromoExpired
	}
	if promo.TimeUntil != "" && clock > promo.TimeUntil {
		return ErrPromoExpired
	}
	return nil
}

func (s *PricingService) checkPromoUsage(promo *models.PromoCode, customer *models.Customer) error {
	if promo.MaxUses > 0 && promo.CurrentUses >= promo.MaxUses {
		return ErrPromoExhausted
	}
	if promo.UsageType == constants.PromoUsageSingle && promo.CurrentUses >= 1 {
		return ErrPromoExhausted
	}
	if promo.UsageType == constants.PromoUsageSinglePerUser && customer != nil && customer.ID != 0 {
		count, err := s.orderRepo.CountByCustomerAndPromo(customer.ID, promo.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrPromoAlreadyUsed
		}
	}
	if promo.FirstOrderOnly && customer != nil && customer.TotalOrdersCount > 0 {
		return ErrPromoFirstOrderOnly
	}
	return nil
}

func checkPromoEligibility(promo *models.PromoCode, input QuoteInput, subtotal decimal.Decimal, itemsCount int) error {
	if subtotal.LessThan(promo.MinOrderAmount.Decimal) {
		return ErrPromoNotApplicable
	}
	if promo.MinItemsCount > 0 && itemsCount < promo.MinItemsCount {
		return ErrPromoNotApplicable
	}
	if len(promo.RequiredProductIDs) > 0 {
		found := false
		for _, item := range input.Items {
			if promo.RequiredProductIDs.Contains(item.ProductID) {
				found = true
				break
			}
		}
		if !found {
			return ErrPromoNotApplicable
		}
	}
	if len(promo.Platforms) > 0 && !containsString(promo.Platforms, input.Platform) {
		return ErrPromoNotApplicable
	}
	if len(promo.DeliveryTypes) > 0 && !containsString(promo.DeliveryTypes, input.DeliveryType) {
		return ErrPromoNotApplicable
	}
	if len(promo.BranchIDs) > 0 && !promo.BranchIDs.Contains(input.BranchID) {
		return ErrPromoNotApplicable
	}
	return nil
}

// applyActions evaluates automatic promotions. Broken action configuration
// never fails a checkout, it is logged and skipped.
func (s *PricingService) applyActions(subtotal, running decimal.Decimal) (decimal.Decimal, []models.OrderItem) {
	actions, err := s.actionRepo.ListActive()
	if err != nil {
		logger.Warnw("pricing_actions_load_failed", "error", err)
		return decimal.Zero, nil
	}

	discount := decimal.Zero
	var giftLines []models.OrderItem
	for _, action := range actions {
		if action.MinOrderAmount.Decimal.GreaterThan(decimal.Zero) &&
			subtotal.LessThan(action.MinOrderAmount.Decimal) {
			continue
		}
		switch action.Type {
		case constants.ActionTypeGiftProduct:
			giftLines = append(giftLines, s.resolveGiftLines(action.GiftProductIDs, "action", action.Name)...)
		case constants.ActionTypeCartDiscount:
			remaining := subtotal.Sub(running).Sub(discount)
			if remaining.LessThanOrEqual(decimal.Zero) {
				continue
			}
			value := action.DiscountValue.Decimal
			if value.GreaterThan(remaining) {
				value = remaining
			}
			if value.GreaterThan(decimal.Zero) {
				discount = discount.Add(value)
			}
		default:
			logger.Warnw("pricing_action_unknown_type", "action", action.Name, "type", action.Type)
		}
	}
	return discount, giftLines
}

// resolveGiftLines turns configured gift product ids into zero-price lines.
// Missing or unavailable gift products are a configuration defect, not a
// checkout error.
func (s *PricingService) resolveGiftLines(ids models.UintArray, source, name string) []models.OrderItem {
	var lines []models.OrderItem
	for _, id := range ids {
		product, err := s.productRepo.GetByID(id)
		if err != nil {
			logger.Warnw("pricing_gift_lookup_failed", "source", source, "name", name, "product_id", id, "error", err)
			continue
		}
		if product == nil {
			logger.Warnw("pricing_gift_product_missing", "source", source, "name", name, "product_id", id)
			continue
		}
		if !product.IsAvailable {
			logger.Debugw("pricing_gift_product_unavailable", "source", source, "name", name, "product_id", id)
			continue
		}
		lines = append(lines, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  1,
			IsGift:    true,
		})
	}
	return lines
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
