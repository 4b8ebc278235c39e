package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/carman72tmn/foodtech/internal/constants"
	"github.com/carman72tmn/foodtech/internal/iiko"
	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/queue"
	"github.com/carman72tmn/foodtech/internal/repository"

	"github.com/shopspring/decimal"
)

// ReconcileService folds external delivery state back into local orders.
// Every operation is idempotent: webhooks arrive at least once and may be
// replayed.
type ReconcileService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	branchRepo   repository.BranchRepository
	webhookRepo  repository.WebhookEventRepository
	queueClient  *queue.Client
}

// NewReconcileService creates a reconciliation service.
func NewReconcileService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	branchRepo repository.BranchRepository,
	webhookRepo repository.WebhookEventRepository,
	queueClient *queue.Client,
) *ReconcileService {
	return &ReconcileService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		branchRepo:   branchRepo,
		webhookRepo:  webhookRepo,
		queueClient:  queueClient,
	}
}

// WebhookEventInput is one inbound webhook delivery.
type WebhookEventInput struct {
	EventType string
	EventID   string
	Payload   models.JSON
}

// DeliveryUpdateItem is one order line reported by the POS.
type DeliveryUpdateItem struct {
	Name     string
	Price    models.Money
	Quantity int
}

// DeliveryUpdate is the normalized reconciliation input, produced from
// webhook payloads and status polls alike.
type DeliveryUpdate struct {
	IikoOrderID    string
	Status         string // raw external status
	Phone          string
	CustomerName   string
	TerminalID     string
	WhenCreated    *time.Time
	CompleteBefore *time.Time
	WhenDelivered  *time.Time
	Sum            models.Money
	Items          []DeliveryUpdateItem
	Details        models.JSON
}

// HandleWebhookEvents appends every delivery to the event log, then
// processes each one. A failing event records its error and does not stop
// the batch.
func (s *ReconcileService) HandleWebhookEvents(ctx context.Context, events []WebhookEventInput) error {
	for _, input := range events {
		row := &models.WebhookEvent{
			EventType: input.EventType,
			EventID:   input.EventID,
			Payload:   input.Payload,
		}
		if err := s.webhookRepo.Create(row); err != nil {
			return err
		}

		processErr := s.processEvent(ctx, input)
		updates := map[string]interface{}{"processed": true}
		if processErr != nil {
			updates["error"] = processErr.Error()
			logger.Warnw("reconcile_webhook_event_failed",
				"event_id", input.EventID,
				"event_type", input.EventType,
				"error", processErr,
			)
		}
		if err := s.webhookRepo.UpdateFields(row.ID, updates); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReconcileService) processEvent(ctx context.Context, input WebhookEventInput) error {
	switch input.EventType {
	case constants.WebhookEventStopListUpdate:
		return s.queueClient.EnqueueStopListSync()
	case constants.WebhookEventDeliveryOrderUpdate:
		update, err := parseDeliveryUpdate(input.Payload)
		if err != nil {
			return err
		}
		return s.ApplyDeliveryUpdate(ctx, update)
	default:
		logger.Debugw("reconcile_webhook_event_ignored", "event_type", input.EventType)
		return nil
	}
}

// ApplyDeliveryUpdate upserts local order state keyed by the external
// order id. Unknown orders are synthesized, known terminal orders are
// never touched, and replays converge to the same state.
func (s *ReconcileService) ApplyDeliveryUpdate(ctx context.Context, update DeliveryUpdate) error {
	externalID := strings.TrimSpace(update.IikoOrderID)
	if externalID == "" {
		return fmt.Errorf("delivery update without external order id")
	}

	order, err := s.orderRepo.GetByIikoOrderID(externalID)
	if err != nil {
		return err
	}
	if order == nil {
		return s.synthesizeOrder(ctx, externalID, update)
	}

	if IsTerminalStatus(order.Status) {
		logger.Debugw("reconcile_skip_terminal_order",
			"order_id", order.ID,
			"status", order.Status,
			"iiko_order_id", externalID,
		)
		return nil
	}

	updates := map[string]interface{}{
		"status":      MapIikoStatus(update.Status),
		"iiko_status": update.Status,
	}
	if update.CompleteBefore != nil {
		updates["expected_delivery_at"] = *update.CompleteBefore
	}
	if update.WhenDelivered != nil {
		updates["actual_delivery_at"] = *update.WhenDelivered
	}
	if delay, ok := computeDelayMinutes(firstNonNilTime(update.CompleteBefore, order.ExpectedDeliveryAt), update.WhenDelivered); ok {
		updates["delay_minutes"] = delay
	}
	if len(update.Details) > 0 {
		updates["details"] = mergeDetails(order.Details, update.Details)
	}

	if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
		return err
	}
	logger.Infow("reconcile_order_updated",
		"order_id", order.ID,
		"iiko_order_id", externalID,
		"iiko_status", update.Status,
		"status", updates["status"],
	)
	return nil
}

// synthesizeOrder records an order that exists externally but not locally,
// for example one placed over the phone directly in the POS.
func (s *ReconcileService) synthesizeOrder(ctx context.Context, externalID string, update DeliveryUpdate) error {
	var customerID uint
	if strings.TrimSpace(update.Phone) != "" {
		customer, err := s.customerRepo.GetOrCreateByPhone(update.Phone, update.CustomerName, 0)
		if err != nil {
			return err
		}
		customerID = customer.ID
	}

	var branchID uint
	if update.TerminalID != "" {
		branch, err := s.branchRepo.GetByTerminalID(update.TerminalID)
		if err != nil {
			return err
		}
		if branch != nil {
			branchID = branch.ID
		}
	}

	order := &models.Order{
		OrderNo:            generateOrderNo(),
		CustomerID:         customerID,
		BranchID:           branchID,
		Status:             MapIikoStatus(update.Status),
		Subtotal:           update.Sum,
		FinalTotal:         update.Sum,
		IikoOrderID:        externalID,
		IikoStatus:         update.Status,
		ExpectedDeliveryAt: update.CompleteBefore,
		ActualDeliveryAt:   update.WhenDelivered,
		Details:            mergeDetails(nil, update.Details),
	}
	if delay, ok := computeDelayMinutes(update.CompleteBefore, update.WhenDelivered); ok {
		order.DelayMinutes = delay
	}

	items := make([]models.OrderItem, 0, len(update.Items))
	for _, line := range update.Items {
		quantity := line.Quantity
		if quantity < 1 {
			quantity = 1
		}
		items = append(items, models.OrderItem{
			Name:       line.Name,
			UnitPrice:  line.Price,
			Quantity:   quantity,
			TotalPrice: models.NewMoneyFromDecimal(line.Price.Decimal.Mul(decimal.NewFromInt(int64(quantity)))),
		})
	}

	if err := s.orderRepo.Create(order, items); err != nil {
		// A concurrent webhook or poll may have synthesized the order
		// first; the unique index on the external id rejects the loser.
		existing, lookupErr := s.orderRepo.GetByIikoOrderID(externalID)
		if lookupErr == nil && existing != nil {
			logger.Debugw("reconcile_synthesize_lost_race", "iiko_order_id", externalID, "order_id", existing.ID)
			return s.ApplyDeliveryUpdate(ctx, update)
		}
		return err
	}
	logger.Infow("reconcile_order_synthesized",
		"order_id", order.ID,
		"iiko_order_id", externalID,
		"status", order.Status,
	)
	return nil
}

// computeDelayMinutes returns the delivery delay, never negative. Both
// timestamps must be known.
func computeDelayMinutes(expected, actual *time.Time) (int, bool) {
	if expected == nil || actual == nil {
		return 0, false
	}
	minutes := int(actual.Sub(*expected).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	return minutes, true
}

// mergeDetails merges incoming detail keys over the stored blob. Empty
// incoming values never erase stored ones.
func mergeDetails(dst, src models.JSON) models.JSON {
	merged := models.JSON{}
	for k, v := range dst {
		merged[k] = v
	}
	for k, v := range src {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok && strings.TrimSpace(str) == "" {
			continue
		}
		merged[k] = v
	}
	return merged
}

func firstNonNilTime(values ...*time.Time) *time.Time {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// parseDeliveryUpdate extracts order state from a DeliveryOrderUpdate
// webhook payload.
func parseDeliveryUpdate(payload models.JSON) (DeliveryUpdate, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return DeliveryUpdate{}, err
	}
	var decoded struct {
		EventInfo struct {
			ID    string `json:"id"`
			Order struct {
				Status         string  `json:"status"`
				Phone          string  `json:"phone"`
				WhenCreated    string  `json:"whenCreated"`
				CompleteBefore string  `json:"completeBefore"`
				WhenDelivered  string  `json:"whenDelivered"`
				Sum            float64 `json:"sum"`
				TerminalGroup  string  `json:"terminalGroupId"`
				Customer       struct {
					Name string `json:"name"`
				} `json:"customer"`
				Items []struct {
					Amount  float64 `json:"amount"`
					Price   float64 `json:"price"`
					Product struct {
						Name string `json:"name"`
					} `json:"product"`
				} `json:"items"`
			} `json:"order"`
		} `json:"eventInfo"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return DeliveryUpdate{}, err
	}

	update := DeliveryUpdate{
		IikoOrderID:    decoded.EventInfo.ID,
		Status:         decoded.EventInfo.Order.Status,
		Phone:          decoded.EventInfo.Order.Phone,
		CustomerName:   decoded.EventInfo.Order.Customer.Name,
		TerminalID:     decoded.EventInfo.Order.TerminalGroup,
		WhenCreated:    iiko.ParseTime(decoded.EventInfo.Order.WhenCreated),
		CompleteBefore: iiko.ParseTime(decoded.EventInfo.Order.CompleteBefore),
		WhenDelivered:  iiko.ParseTime(decoded.EventInfo.Order.WhenDelivered),
		Sum:            models.NewMoneyFromDecimal(decimal.NewFromFloat(decoded.EventInfo.Order.Sum)),
		Details:        payload,
	}
	for _, item := range decoded.EventInfo.Order.Items {
		update.Items = append(update.Items, DeliveryUpdateItem{
			Name:     item.Product.Name,
			Price:    models.NewMoneyFromDecimal(decimal.NewFromFloat(item.Price)),
			Quantity: int(item.Amount),
		})
	}
	return update, nil
}
