package service

import (
	"context"
	"errors"
	"testing"

	"github.com/carman72tmn/foodtech/internal/constants"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) *OrderService {
	pricing := newPricingService(db)
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewBranchRepository(db),
		repository.NewPromoCodeRepository(db),
		pricing,
		nil, // loyalty backend not wired in tests
		nil, // queue disabled, enqueue is a no-op
		nil, // no POS client
	)
}

func createTestBranch(t *testing.T, db *gorm.DB, accepting bool) *models.Branch {
	t.Helper()
	branch := &models.Branch{
		Name:              "Main",
		IikoTerminalID:    "terminal-1",
		IsActive:          true,
		IsAcceptingOrders: accepting,
	}
	if err := db.Create(branch).Error; err != nil {
		t.Fatalf("create branch failed: %v", err)
	}
	return branch
}

func TestCreateOrderPersistsOrderAndCustomerStats(t *testing.T) {
	db := newTestDB(t, "order_create")
	svc := newOrderService(db)
	branch := createTestBranch(t, db, true)
	product := createTestProduct(t, db, "pizza", 500, true)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Phone:    "+2001",
		Name:     "Alex",
		BranchID: branch.ID,
		Items:    []QuoteItem{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.OrderNo == "" {
		t.Fatal("order number must be generated")
	}
	if order.Status != constants.OrderStatusNew {
		t.Fatalf("status = %s, want new", order.Status)
	}
	if !order.FinalTotal.Decimal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("final total = %s, want 1000", order.FinalTotal)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", order.Items)
	}

	var customer models.Customer
	if err := db.Where("phone = ?", "+2001").First(&customer).Error; err != nil {
		t.Fatalf("customer not created: %v", err)
	}
	if customer.TotalOrdersCount != 1 {
		t.Fatalf("total orders count = %d, want 1", customer.TotalOrdersCount)
	}
	if !customer.TotalOrdersAmount.Decimal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("total orders amount = %s, want 1000", customer.TotalOrdersAmount)
	}
	if customer.LastOrderAt == nil {
		t.Fatal("last order at must be set")
	}
}

func TestCreateOrderDebitsBonus(t *testing.T) {
	db := newTestDB(t, "order_bonus")
	svc := newOrderService(db)
	branch := createTestBranch(t, db, true)
	product := createTestProduct(t, db, "pizza", 500, true)
	customer := &models.Customer{Phone: "+2002", BonusPoints: models.NewMoneyFromInt(300)}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Phone:          "+2002",
		BranchID:       branch.ID,
		Items:          []QuoteItem{{ProductID: product.ID, Quantity: 1}},
		BonusRequested: models.NewMoneyFromInt(200),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.BonusApplied.Decimal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("bonus applied = %s, want 200", order.BonusApplied)
	}

	var reloaded models.Customer
	if err := db.First(&reloaded, customer.ID).Error; err != nil {
		t.Fatalf("reload customer failed: %v", err)
	}
	if !reloaded.BonusPoints.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("bonus balance = %s, want 100", reloaded.BonusPoints)
	}
}

func TestCreateOrderIncrementsPromoAtomically(t *testing.T) {
	db := newTestDB(t, "order_promo_atomic")
	svc := newOrderService(db)
	branch := createTestBranch(t, db, true)
	product := createTestProduct(t, db, "pizza", 500, true)

	promo := &models.PromoCode{
		Code:     "LIMITED",
		Type:     constants.PromoTypePercent,
		Value:    models.NewMoneyFromInt(10),
		IsActive: true,
		MaxUses:  2,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}

	succeeded := 0
	for i := 0; i < 3; i++ {
		_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			Phone:     "+2003",
			BranchID:  branch.ID,
			Items:     []QuoteItem{{ProductID: product.ID, Quantity: 1}},
			PromoCode: "LIMITED",
		})
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, ErrPromoExhausted) {
			t.Fatalf("attempt %d: unexpected error %v", i, err)
		}
	}
	if succeeded != 2 {
		t.Fatalf("redemptions = %d, want exactly max_uses 2", succeeded)
	}

	var reloaded models.PromoCode
	if err := db.First(&reloaded, promo.ID).Error; err != nil {
		t.Fatalf("reload promo failed: %v", err)
	}
	if reloaded.CurrentUses != 2 {
		t.Fatalf("current uses = %d, want 2", reloaded.CurrentUses)
	}

	// The rejected attempt must leave no order behind.
	var orders int64
	if err := db.Model(&models.Order{}).Count(&orders).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orders != 2 {
		t.Fatalf("orders = %d, want 2", orders)
	}
}

func TestCreateOrderBlockedCustomer(t *testing.T) {
	db := newTestDB(t, "order_blocked")
	svc := newOrderService(db)
	branch := createTestBranch(t, db, true)
	product := createTestProduct(t, db, "pizza", 500, true)
	customer := &models.Customer{Phone: "+2004", IsBlocked: true}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Phone:    "+2004",
		BranchID: branch.ID,
		Items:    []QuoteItem{{ProductID: product.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrCustomerBlocked) {
		t.Fatalf("expected customer blocked, got %v", err)
	}
}

func TestCreateOrderBranchChecks(t *testing.T) {
	db := newTestDB(t, "order_branch")
	svc := newOrderService(db)
	product := createTestProduct(t, db, "pizza", 500, true)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Phone:    "+2005",
		BranchID: 999,
		Items:    []QuoteItem{{ProductID: product.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrBranchNotFound) {
		t.Fatalf("expected branch not found, got %v", err)
	}

	closed := createTestBranch(t, db, false)
	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{
		Phone:    "+2005",
		BranchID: closed.ID,
		Items:    []QuoteItem{{ProductID: product.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrBranchClosed) {
		t.Fatalf("expected branch closed, got %v", err)
	}
}

func TestCancelOrder(t *testing.T) {
	db := newTestDB(t, "order_cancel")
	svc := newOrderService(db)
	branch := createTestBranch(t, db, true)
	product := createTestProduct(t, db, "pizza", 500, true)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Phone:    "+2006",
		BranchID: branch.ID,
		Items:    []QuoteItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	cancelled, err := svc.CancelOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}

	// Terminal orders stay put.
	if _, err := svc.CancelOrder(context.Background(), order.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestUpdateOrderStatusRejectsIllegalMove(t *testing.T) {
	db := newTestDB(t, "order_status_move")
	svc := newOrderService(db)
	branch := createTestBranch(t, db, true)
	product := createTestProduct(t, db, "pizza", 500, true)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Phone:    "+2007",
		BranchID: branch.ID,
		Items:    []QuoteItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusDelivered); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition new -> delivered, got %v", err)
	}

	updated, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusPending)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != constants.OrderStatusPending {
		t.Fatalf("status = %s, want pending", updated.Status)
	}
}
