package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carman72tmn/foodtech/internal/constants"
	"github.com/carman72tmn/foodtech/internal/iiko"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/repository"

	"gorm.io/gorm"
)

func newSubmissionService(t *testing.T, db *gorm.DB, baseURL string, attempts int) *SubmissionService {
	t.Helper()
	client, err := iiko.NewClient(iiko.Config{
		BaseURL:        baseURL,
		APILogin:       "login",
		OrganizationID: "org-1",
	})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	return NewSubmissionService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		client,
		attempts,
		0, // no sleep between attempts in tests
	)
}

func createSubmittableOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()
	customer := &models.Customer{Phone: "+4001", Name: "Alex"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	product := createTestProduct(t, db, "pizza", 500, true)
	order := &models.Order{
		OrderNo:    "FD-100",
		Status:     constants.OrderStatusNew,
		CustomerID: customer.ID,
		FinalTotal: models.NewMoneyFromInt(500),
		Items: []models.OrderItem{
			{ProductID: product.ID, Name: product.Name, UnitPrice: product.Price, Quantity: 1, TotalPrice: product.Price},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestSubmitOrderSuccess(t *testing.T) {
	db := newTestDB(t, "submit_success")

	var gotItems []map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/1/access_token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "t"})
	})
	mux.HandleFunc("/api/1/deliveries/create", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Order struct {
				Phone string                   `json:"phone"`
				Items []map[string]interface{} `json:"items"`
			} `json:"order"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotItems = body.Order.Items
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"orderInfo": map[string]string{"id": "ext-100"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc := newSubmissionService(t, db, server.URL, 3)
	order := createSubmittableOrder(t, db)

	if err := svc.SubmitOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("status = %s, want pending", reloaded.Status)
	}
	if reloaded.IikoOrderID != "ext-100" {
		t.Fatalf("external id = %s, want ext-100", reloaded.IikoOrderID)
	}
	if len(gotItems) != 1 {
		t.Fatalf("sent items = %d, want 1", len(gotItems))
	}
	if gotItems[0]["productId"] != "iiko-pizza" {
		t.Fatalf("product id = %v, want iiko-pizza", gotItems[0]["productId"])
	}
}

func TestSubmitOrderExhaustsRetries(t *testing.T) {
	db := newTestDB(t, "submit_retries")

	createCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/1/access_token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "t"})
	})
	mux.HandleFunc("/api/1/deliveries/create", func(w http.ResponseWriter, r *http.Request) {
		createCalls++
		http.Error(w, "pos is down", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc := newSubmissionService(t, db, server.URL, 2)
	order := createSubmittableOrder(t, db)

	err := svc.SubmitOrder(context.Background(), order.ID)
	if !errors.Is(err, ErrExternalSubmissionFailed) {
		t.Fatalf("expected submission failed, got %v", err)
	}
	if createCalls != 2 {
		t.Fatalf("create calls = %d, want the full retry budget of 2", createCalls)
	}

	// The order stays untouched for manual resubmission.
	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusNew {
		t.Fatalf("status = %s, want new", reloaded.Status)
	}
	if reloaded.IikoOrderID != "" {
		t.Fatalf("external id = %s, want empty", reloaded.IikoOrderID)
	}
}

func TestSubmitOrderSkipsAlreadySubmitted(t *testing.T) {
	db := newTestDB(t, "submit_skip")

	posCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		posCalls++
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "t"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc := newSubmissionService(t, db, server.URL, 3)
	order := createSubmittableOrder(t, db)
	if err := db.Model(order).Update("iiko_order_id", "ext-already").Error; err != nil {
		t.Fatalf("mark submitted failed: %v", err)
	}

	if err := svc.SubmitOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if posCalls != 0 {
		t.Fatal("already submitted order must not hit the POS")
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusNew {
		t.Fatalf("status = %s, skip must not change it", reloaded.Status)
	}
}

func TestSubmitOrderMissingOrder(t *testing.T) {
	db := newTestDB(t, "submit_missing")
	svc := newSubmissionService(t, db, "http://127.0.0.1:1", 1)

	if err := svc.SubmitOrder(context.Background(), 12345); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}
