package service

import (
	"errors"
	"testing"
	"time"

	"github.com/carman72tmn/foodtech/internal/constants"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newPricingService(db *gorm.DB) *PricingService {
	return NewPricingService(
		repository.NewProductRepository(db),
		repository.NewPromoCodeRepository(db),
		repository.NewActionRepository(db),
		repository.NewOrderRepository(db),
	)
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price int64, available bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		IikoID:      "iiko-" + name,
		IsAvailable: available,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestQuoteBonusAndPercentPromo(t *testing.T) {
	db := newTestDB(t, "pricing_bonus_percent")
	svc := newPricingService(db)

	product := createTestProduct(t, db, "pizza", 500, true)
	promo := &models.PromoCode{
		Code:     "TEN",
		Type:     constants.PromoTypePercent,
		Value:    models.NewMoneyFromInt(10),
		IsActive: true,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}
	customer := &models.Customer{Phone: "+1001", BonusPoints: models.NewMoneyFromInt(300)}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	quote, err := svc.Quote(QuoteInput{
		Items:          []QuoteItem{{ProductID: product.ID, Quantity: 3}},
		Customer:       customer,
		BonusRequested: models.NewMoneyFromInt(200),
		PromoCode:      "TEN",
	})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}

	if !quote.Subtotal.Decimal.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("subtotal = %s, want 1500", quote.Subtotal)
	}
	if !quote.BonusApplied.Decimal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("bonus = %s, want 200", quote.BonusApplied)
	}
	if !quote.PromoDiscount.Decimal.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("promo discount = %s, want 150", quote.PromoDiscount)
	}
	if !quote.TotalDiscount.Decimal.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("total discount = %s, want 350", quote.TotalDiscount)
	}
	if !quote.FinalTotal.Decimal.Equal(decimal.NewFromInt(1150)) {
		t.Fatalf("final total = %s, want 1150", quote.FinalTotal)
	}
}

func TestQuoteFixedPromoNeverGoesNegative(t *testing.T) {
	db := newTestDB(t, "pricing_fixed_clamp")
	svc := newPricingService(db)

	product := createTestProduct(t, db, "drink", 300, true)
	promo := &models.PromoCode{
		Code:     "FIVEHUNDRED",
		Type:     constants.PromoTypeFixed,
		Value:    models.NewMoneyFromInt(500),
		IsActive: true,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}

	quote, err := svc.Quote(QuoteInput{
		Items:     []QuoteItem{{ProductID: product.ID, Quantity: 1}},
		PromoCode: "FIVEHUNDRED",
	})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.FinalTotal.Decimal.Equal(decimal.Zero) {
		t.Fatalf("final total = %s, want 0", quote.FinalTotal)
	}
	if !quote.PromoDiscount.Decimal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("promo discount = %s, want clamped 300", quote.PromoDiscount)
	}
}

func TestQuoteInsufficientBonus(t *testing.T) {
	db := newTestDB(t, "pricing_insufficient_bonus")
	svc := newPricingService(db)

	product := createTestProduct(t, db, "pizza", 500, true)
	customer := &models.Customer{Phone: "+1002", BonusPoints: models.NewMoneyFromInt(50)}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	_, err := svc.Quote(QuoteInput{
		Items:          []QuoteItem{{ProductID: product.ID, Quantity: 1}},
		Customer:       customer,
		BonusRequested: models.NewMoneyFromInt(100),
	})
	if !errors.Is(err, ErrInsufficientBonus) {
		t.Fatalf("expected insufficient bonus, got %v", err)
	}
}

func TestQuoteEmptyCart(t *testing.T) {
	db := newTestDB(t, "pricing_empty")
	svc := newPricingService(db)
	if _, err := svc.Quote(QuoteInput{}); !errors.Is(err, ErrOrderEmpty) {
		t.Fatalf("expected order empty, got %v", err)
	}
}

func TestQuoteUnavailableProduct(t *testing.T) {
	db := newTestDB(t, "pricing_unavailable")
	svc := newPricingService(db)
	product := createTestProduct(t, db, "stopped", 100, false)

	_, err := svc.Quote(QuoteInput{Items: []QuoteItem{{ProductID: product.ID, Quantity: 1}}})
	if !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected product unavailable, got %v", err)
	}
}

func TestQuotePromoValidationErrors(t *testing.T) {
	db := newTestDB(t, "pricing_promo_errors")
	svc := newPricingService(db)
	product := createTestProduct(t, db, "pizza", 500, true)

	past := time.Now().Add(-time.Hour)
	promos := []models.PromoCode{
		{Code: "INACTIVE", Type: constants.PromoTypePercent, Value: models.NewMoneyFromInt(10)},
		{Code: "EXPIRED", Type: constants.PromoTypePercent, Value: models.NewMoneyFromInt(10), IsActive: true, ValidUntil: &past},
		{Code: "MINAMOUNT", Type: constants.PromoTypePercent, Value: models.NewMoneyFromInt(10), IsActive: true, MinOrderAmount: models.NewMoneyFromInt(10000)},
		{Code: "USEDUP", Type: constants.PromoTypePercent, Value: models.NewMoneyFromInt(10), IsActive: true, MaxUses: 2, CurrentUses: 2},
	}
	for i := range promos {
		if err := db.Create(&promos[i]).Error; err != nil {
			t.Fatalf("create promo failed: %v", err)
		}
	}

	cases := []struct {
		code string
		want error
	}{
		{"MISSING", ErrPromoNotFound},
		{"INACTIVE", ErrPromoInactive},
		{"EXPIRED", ErrPromoExpired},
		{"MINAMOUNT", ErrPromoNotApplicable},
		{"USEDUP", ErrPromoExhausted},
	}
	for _, tc := range cases {
		_, err := svc.Quote(QuoteInput{
			Items:     []QuoteItem{{ProductID: product.ID, Quantity: 1}},
			PromoCode: tc.code,
		})
		if !errors.Is(err, tc.want) {
			t.Fatalf("promo %s: expected %v, got %v", tc.code, tc.want, err)
		}
	}
}

func TestQuotePromoSinglePerUser(t *testing.T) {
	db := newTestDB(t, "pricing_single_per_user")
	svc := newPricingService(db)
	product := createTestProduct(t, db, "pizza", 500, true)

	promo := &models.PromoCode{
		Code:      "ONCE",
		Type:      constants.PromoTypePercent,
		Value:     models.NewMoneyFromInt(10),
		IsActive:  true,
		UsageType: constants.PromoUsageSinglePerUser,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}
	customer := &models.Customer{Phone: "+1003"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	order := &models.Order{
		OrderNo:     "FD-prev",
		CustomerID:  customer.ID,
		Status:      constants.OrderStatusDelivered,
		PromoCodeID: &promo.ID,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	_, err := svc.Quote(QuoteInput{
		Items:     []QuoteItem{{ProductID: product.ID, Quantity: 1}},
		Customer:  customer,
		PromoCode: "ONCE",
	})
	if !errors.Is(err, ErrPromoAlreadyUsed) {
		t.Fatalf("expected promo already used, got %v", err)
	}
}

func TestQuotePromoFirstOrderOnly(t *testing.T) {
	db := newTestDB(t, "pricing_first_order")
	svc := newPricingService(db)
	product := createTestProduct(t, db, "pizza", 500, true)

	promo := &models.PromoCode{
		Code:           "FIRST",
		Type:           constants.PromoTypePercent,
		Value:          models.NewMoneyFromInt(10),
		IsActive:       true,
		FirstOrderOnly: true,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}
	customer := &models.Customer{Phone: "+1004", TotalOrdersCount: 3}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	_, err := svc.Quote(QuoteInput{
		Items:     []QuoteItem{{ProductID: product.ID, Quantity: 1}},
		Customer:  customer,
		PromoCode: "FIRST",
	})
	if !errors.Is(err, ErrPromoFirstOrderOnly) {
		t.Fatalf("expected first order only, got %v", err)
	}
}

func TestQuoteGiftPromoAddsZeroPriceLines(t *testing.T) {
	db := newTestDB(t, "pricing_gift")
	svc := newPricingService(db)
	product := createTestProduct(t, db, "pizza", 500, true)
	gift := createTestProduct(t, db, "lemonade", 150, true)
	missing := createTestProduct(t, db, "stopped", 150, false)

	promo := &models.PromoCode{
		Code:           "GIFT",
		Type:           constants.PromoTypeGift,
		IsActive:       true,
		GiftProductIDs: models.UintArray{gift.ID, missing.ID, 99999},
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}

	quote, err := svc.Quote(QuoteInput{
		Items:     []QuoteItem{{ProductID: product.ID, Quantity: 1}},
		PromoCode: "GIFT",
	})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}

	gifts := 0
	for _, line := range quote.Lines {
		if line.IsGift {
			gifts++
			if line.ProductID != gift.ID {
				t.Fatalf("unexpected gift product %d", line.ProductID)
			}
			if !line.UnitPrice.Decimal.Equal(decimal.Zero) {
				t.Fatalf("gift line must be free, got %s", line.UnitPrice)
			}
		}
	}
	if gifts != 1 {
		t.Fatalf("expected exactly one gift line, got %d", gifts)
	}
	// Unavailable and missing gift products are skipped, not fatal.
	if !quote.FinalTotal.Decimal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("final total = %s, want 500", quote.FinalTotal)
	}
}

func TestQuoteCartDiscountAction(t *testing.T) {
	db := newTestDB(t, "pricing_action")
	svc := newPricingService(db)
	product := createTestProduct(t, db, "pizza", 600, true)

	action := &models.Action{
		Name:           "minus 100 over 500",
		Type:           constants.ActionTypeCartDiscount,
		IsActive:       true,
		MinOrderAmount: models.NewMoneyFromInt(500),
		DiscountValue:  models.NewMoneyFromInt(100),
	}
	if err := db.Create(action).Error; err != nil {
		t.Fatalf("create action failed: %v", err)
	}

	quote, err := svc.Quote(QuoteInput{Items: []QuoteItem{{ProductID: product.ID, Quantity: 1}}})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.ActionDiscount.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("action discount = %s, want 100", quote.ActionDiscount)
	}
	if !quote.FinalTotal.Decimal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("final total = %s, want 500", quote.FinalTotal)
	}

	// Below the threshold the action does not fire.
	cheap := createTestProduct(t, db, "water", 100, true)
	quote, err = svc.Quote(QuoteInput{Items: []QuoteItem{{ProductID: cheap.ID, Quantity: 1}}})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.ActionDiscount.Decimal.Equal(decimal.Zero) {
		t.Fatalf("action discount = %s, want 0", quote.ActionDiscount)
	}
}

func TestQuoteNoCombinePromoExcludesActions(t *testing.T) {
	db := newTestDB(t, "pricing_no_combine")
	svc := newPricingService(db)
	product := createTestProduct(t, db, "pizza", 600, true)

	action := &models.Action{
		Name:           "minus 100 over 500",
		Type:           constants.ActionTypeCartDiscount,
		IsActive:       true,
		MinOrderAmount: models.NewMoneyFromInt(500),
		DiscountValue:  models.NewMoneyFromInt(100),
	}
	if err := db.Create(action).Error; err != nil {
		t.Fatalf("create action failed: %v", err)
	}
	promo := &models.PromoCode{
		Code:      "SOLO",
		Type:      constants.PromoTypePercent,
		Value:     models.NewMoneyFromInt(10),
		IsActive:  true,
		NoCombine: true,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}

	quote, err := svc.Quote(QuoteInput{
		Items:     []QuoteItem{{ProductID: product.ID, Quantity: 1}},
		PromoCode: "SOLO",
	})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.PromoDiscount.Decimal.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("promo discount = %s, want 60", quote.PromoDiscount)
	}
	if !quote.ActionDiscount.Decimal.Equal(decimal.Zero) {
		t.Fatalf("action discount = %s, a no-combine promo must exclude actions", quote.ActionDiscount)
	}
	if !quote.FinalTotal.Decimal.Equal(decimal.NewFromInt(540)) {
		t.Fatalf("final total = %s, want 540", quote.FinalTotal)
	}

	// Without the flag the same promo stacks with the action.
	if err := db.Model(promo).Update("no_combine", false).Error; err != nil {
		t.Fatalf("update promo failed: %v", err)
	}
	quote, err = svc.Quote(QuoteInput{
		Items:     []QuoteItem{{ProductID: product.ID, Quantity: 1}},
		PromoCode: "SOLO",
	})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.ActionDiscount.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("action discount = %s, want 100", quote.ActionDiscount)
	}
	if !quote.FinalTotal.Decimal.Equal(decimal.NewFromInt(440)) {
		t.Fatalf("final total = %s, want 440", quote.FinalTotal)
	}
}
