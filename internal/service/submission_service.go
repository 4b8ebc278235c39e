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
)

const (
	defaultSubmitAttempts = 3
	defaultSubmitDelay    = 2 * time.Second
)

// SubmissionService pushes persisted orders to the POS. It runs outside
// any database transaction: the order is already committed and retry
// sleeps must not hold locks.
type SubmissionService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	client      *iiko.Client
	attempts    int
	delay       time.Duration
}

// NewSubmissionService creates a submission service.
func NewSubmissionService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, client *iiko.Client, attempts int, delay time.Duration) *SubmissionService {
	if attempts <= 0 {
		attempts = defaultSubmitAttempts
	}
	if delay < 0 {
		delay = defaultSubmitDelay
	}
	return &SubmissionService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		client:      client,
		attempts:    attempts,
		delay:       delay,
	}
}

// SubmitOrder sends an order to the POS with a fixed retry budget. On
// success the order moves to pending with its external id recorded. On
// exhaustion the order is left untouched for later resubmission and the
// wrapped error is returned.
func (s *SubmissionService) SubmitOrder(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.IikoOrderID != "" {
		logger.Debugw("submission_skip_already_submitted", "order_id", order.ID, "iiko_order_id", order.IikoOrderID)
		return nil
	}
	if IsTerminalStatus(order.Status) {
		logger.Debugw("submission_skip_terminal", "order_id", order.ID, "status", order.Status)
		return nil
	}

	req := s.buildDeliveryRequest(order)
	externalID, err := s.submitWithRetry(ctx, order.ID, req)
	if err != nil {
		logger.Errorw("submission_exhausted",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"attempts", s.attempts,
			"error", err,
		)
		return err
	}

	updates := map[string]interface{}{
		"iiko_order_id": externalID,
	}
	if err := s.orderRepo.UpdateStatus(order.ID, constants.OrderStatusPending, updates); err != nil {
		return err
	}
	logger.Infow("submission_succeeded", "order_id", order.ID, "iiko_order_id", externalID)
	return nil
}

func (s *SubmissionService) submitWithRetry(ctx context.Context, orderID uint, req iiko.CreateDeliveryRequest) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		externalID, err := s.client.CreateDelivery(ctx, req)
		if err == nil {
			return externalID, nil
		}
		lastErr = err
		logger.Warnw("submission_attempt_failed",
			"order_id", orderID,
			"attempt", attempt,
			"attempts", s.attempts,
			"error", err,
		)
		if attempt == s.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrExternalSubmissionFailed, ctx.Err())
		case <-time.After(s.delay):
		}
	}
	return "", fmt.Errorf("%w: %v", ErrExternalSubmissionFailed, lastErr)
}

func (s *SubmissionService) buildDeliveryRequest(order *models.Order) iiko.CreateDeliveryRequest {
	items := make([]iiko.DeliveryItem, 0, len(order.Items))
	for _, line := range order.Items {
		item := iiko.DeliveryItem{
			Type:   "Product",
			Amount: float64(line.Quantity),
		}
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil || product == nil {
			logger.Warnw("submission_product_resolve_failed", "order_id", order.ID, "product_id", line.ProductID, "error", err)
		} else {
			item.ProductID = product.IikoID
		}
		price, _ := line.UnitPrice.Decimal.Float64()
		item.Price = price
		if line.IsGift {
			item.Price = 0
			item.Comment = "gift"
		}
		items = append(items, item)
	}

	req := iiko.CreateDeliveryRequest{
		Comment: order.Comment,
		Address: order.Address,
		Items:   items,
	}
	if order.Customer != nil {
		req.Phone = order.Customer.Phone
		req.CustomerName = order.Customer.Name
	}
	return req
}
