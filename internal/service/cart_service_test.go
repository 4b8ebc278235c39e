package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carman72tmn/foodtech/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCartService(db *gorm.DB) *CartService {
	return NewCartService(NewMemoryCartStore(time.Hour), repository.NewProductRepository(db))
}

func TestAddItemMergesLines(t *testing.T) {
	db := newTestDB(t, "cart_add")
	svc := newCartService(db)
	pizza := createTestProduct(t, db, "pizza", 500, true)
	cola := createTestProduct(t, db, "cola", 120, true)

	if _, err := svc.AddItem(context.Background(), "k1", pizza.ID, 1); err != nil {
		t.Fatalf("add pizza failed: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), "k1", cola.ID, 2); err != nil {
		t.Fatalf("add cola failed: %v", err)
	}
	cart, err := svc.AddItem(context.Background(), "k1", pizza.ID, 1)
	if err != nil {
		t.Fatalf("add pizza again failed: %v", err)
	}

	if len(cart.Items) != 2 {
		t.Fatalf("lines = %d, same product must merge", len(cart.Items))
	}
	for _, line := range cart.Items {
		switch line.ProductID {
		case pizza.ID:
			if line.Quantity != 2 {
				t.Fatalf("pizza quantity = %d, want 2", line.Quantity)
			}
			if !line.Price.Decimal.Equal(decimal.NewFromInt(500)) {
				t.Fatalf("pizza price = %s, want 500", line.Price)
			}
		case cola.ID:
			if line.Quantity != 2 {
				t.Fatalf("cola quantity = %d, want 2", line.Quantity)
			}
		default:
			t.Fatalf("unexpected line %+v", line)
		}
	}
}

func TestAddItemClampsQuantity(t *testing.T) {
	db := newTestDB(t, "cart_clamp")
	svc := newCartService(db)
	pizza := createTestProduct(t, db, "pizza", 500, true)

	cart, err := svc.AddItem(context.Background(), "k1", pizza.ID, -3)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if cart.Items[0].Quantity != 1 {
		t.Fatalf("quantity = %d, want clamped to 1", cart.Items[0].Quantity)
	}
}

func TestAddItemRejectsUnknownAndUnavailable(t *testing.T) {
	db := newTestDB(t, "cart_reject")
	svc := newCartService(db)
	off := createTestProduct(t, db, "off-sale", 500, false)

	if _, err := svc.AddItem(context.Background(), "k1", 999, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
	if _, err := svc.AddItem(context.Background(), "k1", off.ID, 1); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected product unavailable, got %v", err)
	}
}

func TestGetCartEmptyWhenAbsent(t *testing.T) {
	db := newTestDB(t, "cart_empty")
	svc := newCartService(db)

	cart, err := svc.GetCart(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if cart == nil || len(cart.Items) != 0 {
		t.Fatalf("want empty cart, got %+v", cart)
	}
}

func TestClearCart(t *testing.T) {
	db := newTestDB(t, "cart_clear")
	svc := newCartService(db)
	pizza := createTestProduct(t, db, "pizza", 500, true)

	if _, err := svc.AddItem(context.Background(), "k1", pizza.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.ClearCart(context.Background(), "k1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	cart, err := svc.GetCart(context.Background(), "k1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("cart not cleared: %+v", cart.Items)
	}
}

func TestQuoteItems(t *testing.T) {
	db := newTestDB(t, "cart_quote")
	svc := newCartService(db)
	pizza := createTestProduct(t, db, "pizza", 500, true)

	if _, err := svc.AddItem(context.Background(), "k1", pizza.ID, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	items, err := svc.QuoteItems(context.Background(), "k1")
	if err != nil {
		t.Fatalf("quote items failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != pizza.ID || items[0].Quantity != 3 {
		t.Fatalf("unexpected quote items: %+v", items)
	}
}

func TestMemoryCartStoreExpiry(t *testing.T) {
	store := NewMemoryCartStore(10 * time.Millisecond)
	cart := &Cart{Key: "k1", Items: []CartItem{{ProductID: 1, Quantity: 1}}, UpdatedAt: time.Now()}
	if err := store.Save(context.Background(), cart); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := store.Get(context.Background(), "k1")
	if err != nil || got == nil {
		t.Fatalf("fresh cart missing: %v %v", got, err)
	}

	time.Sleep(20 * time.Millisecond)
	got, err = store.Get(context.Background(), "k1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Fatal("expired cart must be dropped")
	}
}

func TestMemoryCartStoreReturnsCopies(t *testing.T) {
	store := NewMemoryCartStore(time.Hour)
	cart := &Cart{Key: "k1", Items: []CartItem{{ProductID: 1, Quantity: 1}}, UpdatedAt: time.Now()}
	if err := store.Save(context.Background(), cart); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	first, err := store.Get(context.Background(), "k1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	first.Items[0].Quantity = 99

	second, err := store.Get(context.Background(), "k1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if second.Items[0].Quantity != 1 {
		t.Fatal("mutating a returned cart must not affect the store")
	}
}
