package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/carman72tmn/foodtech/internal/constants"
	"github.com/carman72tmn/foodtech/internal/iiko"
	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/queue"
	"github.com/carman72tmn/foodtech/internal/repository"

	"gorm.io/gorm"
)

// OrderService drives the order lifecycle: checkout, cancellation and
// manual status moves.
type OrderService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	branchRepo   repository.BranchRepository
	promoRepo    repository.PromoCodeRepository
	pricing      *PricingService
	loyalty      *LoyaltyService
	queueClient  *queue.Client
	iikoClient   *iiko.Client
}

// NewOrderService creates an order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	branchRepo repository.BranchRepository,
	promoRepo repository.PromoCodeRepository,
	pricing *PricingService,
	loyalty *LoyaltyService,
	queueClient *queue.Client,
	iikoClient *iiko.Client,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		branchRepo:   branchRepo,
		promoRepo:    promoRepo,
		pricing:      pricing,
		loyalty:      loyalty,
		queueClient:  queueClient,
		iikoClient:   iikoClient,
	}
}

// CreateOrderInput is a checkout request.
type CreateOrderInput struct {
	Phone          string
	Name           string
	TelegramID     int64
	BranchID       uint
	Items          []QuoteItem
	PromoCode      string
	BonusRequested models.Money
	DeliveryType   string
	Platform       string
	Address        string
	Comment        string
}

// CreateOrder validates and prices a cart, persists the order in one
// transaction and schedules external submission. Promo usage is counted
// inside the same transaction, so an exhausted code rolls the whole order
// back.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.Phone) == "" {
		return nil, fmt.Errorf("phone is required")
	}

	customer, err := s.customerRepo.GetOrCreateByPhone(input.Phone, input.Name, input.TelegramID)
	if err != nil {
		return nil, err
	}
	if customer.IsBlocked {
		return nil, ErrCustomerBlocked
	}

	// Loyalty balance refresh is best effort: an unreachable loyalty
	// backend must not block checkout.
	if s.loyalty != nil {
		if err := s.loyalty.Refresh(ctx, customer); err != nil {
			logger.Warnw("order_loyalty_refresh_failed", "customer_id", customer.ID, "error", err)
		}
	}

	branch, err := s.branchRepo.GetByID(input.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, ErrBranchNotFound
	}
	if !branch.IsActive || !branch.IsAcceptingOrders {
		return nil, ErrBranchClosed
	}

	quote, err := s.pricing.Quote(QuoteInput{
		Items:          input.Items,
		Customer:       customer,
		BonusRequested: input.BonusRequested,
		PromoCode:      input.PromoCode,
		BranchID:       branch.ID,
		Platform:       input.Platform,
		DeliveryType:   input.DeliveryType,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		OrderNo:        generateOrderNo(),
		CustomerID:     customer.ID,
		BranchID:       branch.ID,
		Status:         constants.OrderStatusNew,
		Subtotal:       quote.Subtotal,
		BonusApplied:   quote.BonusApplied,
		PromoDiscount:  quote.PromoDiscount,
		ActionDiscount: quote.ActionDiscount,
		TotalDiscount:  quote.TotalDiscount,
		FinalTotal:     quote.FinalTotal,
		DeliveryType:   input.DeliveryType,
		Platform:       input.Platform,
		Address:        input.Address,
		Comment:        input.Comment,
		Details:        models.JSON{},
	}
	if quote.Promo != nil {
		promoID := quote.Promo.ID
		order.PromoCodeID = &promoID
		order.PromoCode = quote.Promo.Code
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order, quote.Lines); err != nil {
			return err
		}
		if quote.Promo != nil {
			rows, err := s.promoRepo.WithTx(tx).IncrementUses(quote.Promo.ID)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrPromoExhausted
			}
		}
		updates := map[string]interface{}{
			"total_orders_count":  customer.TotalOrdersCount + 1,
			"total_orders_amount": models.NewMoneyFromDecimal(customer.TotalOrdersAmount.Decimal.Add(quote.FinalTotal.Decimal)),
			"last_order_at":       now,
		}
		if quote.BonusApplied.Decimal.IsPositive() {
			updates["bonus_points"] = models.NewMoneyFromDecimal(customer.BonusPoints.Decimal.Sub(quote.BonusApplied.Decimal))
		}
		return s.customerRepo.WithTx(tx).UpdateFields(customer.ID, updates)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"customer_id", customer.ID,
		"final_total", order.FinalTotal.String(),
	)

	// External submission runs in the worker. A queue failure leaves the
	// order in status new for later resubmission, checkout still succeeds.
	if err := s.queueClient.EnqueueOrderSubmit(queue.OrderSubmitPayload{OrderID: order.ID}); err != nil {
		logger.Errorw("order_submit_enqueue_failed", "order_id", order.ID, "error", err)
	}

	return s.orderRepo.GetByID(order.ID)
}

// GetOrder fetches an order by id.
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns orders matching the filter.
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// CancelOrder cancels a non-terminal order and propagates the cancel to
// the POS when an external id exists.
func (s *OrderService) CancelOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if IsTerminalStatus(order.Status) {
		return nil, ErrInvalidTransition
	}

	if order.IikoOrderID != "" && s.iikoClient != nil {
		if err := s.iikoClient.CancelDelivery(ctx, order.IikoOrderID); err != nil {
			logger.Warnw("order_external_cancel_failed",
				"order_id", order.ID,
				"iiko_order_id", order.IikoOrderID,
				"error", err,
			)
		}
	}

	if err := s.orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, nil); err != nil {
		return nil, err
	}
	logger.Infow("order_cancelled", "order_id", order.ID, "order_no", order.OrderNo)
	return s.orderRepo.GetByID(order.ID)
}

// UpdateOrderStatus moves an order along the status machine.
func (s *OrderService) UpdateOrderStatus(id uint, target string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}
	if err := s.orderRepo.UpdateStatus(order.ID, target, nil); err != nil {
		return nil, err
	}
	logger.Infow("order_status_updated", "order_id", order.ID, "from", order.Status, "to", target)
	return s.orderRepo.GetByID(order.ID)
}

// generateOrderNo builds a unique human-readable order number.
func generateOrderNo() string {
	timestamp := time.Now().Format("20060102150405")
	suffix := ""
	for i := 0; i < 4; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			n = big.NewInt(int64(time.Now().Nanosecond() % 10))
		}
		suffix += n.String()
	}
	return "FD" + timestamp + suffix
}
