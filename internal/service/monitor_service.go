package service

import (
	"context"
	"errors"

	"github.com/carman72tmn/foodtech/internal/iiko"
	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/models"
	"github.com/carman72tmn/foodtech/internal/repository"

	"github.com/shopspring/decimal"
)

// MonitorService polls the POS for every order that is out for
// fulfillment and folds the answers through reconciliation. It backs up
// webhooks, which can be dropped or delayed.
type MonitorService struct {
	orderRepo repository.OrderRepository
	client    *iiko.Client
	reconcile *ReconcileService
}

// NewMonitorService creates an order monitor.
func NewMonitorService(orderRepo repository.OrderRepository, client *iiko.Client, reconcile *ReconcileService) *MonitorService {
	return &MonitorService{orderRepo: orderRepo, client: client, reconcile: reconcile}
}

// CheckActiveOrders polls every non-terminal order that has an external
// id. One failing order does not stop the sweep.
func (s *MonitorService) CheckActiveOrders(ctx context.Context) error {
	orders, err := s.orderRepo.ListActiveExternal()
	if err != nil {
		return err
	}
	for i := range orders {
		if err := ctx.Err(); err != nil {
			return err
		}
		order := &orders[i]

		status, err := s.client.DeliveryByID(ctx, order.IikoOrderID)
		if err != nil {
			if errors.Is(err, iiko.ErrOrderNotFound) {
				logger.Warnw("monitor_order_missing_upstream", "order_id", order.ID, "iiko_order_id", order.IikoOrderID)
				continue
			}
			logger.Warnw("monitor_poll_failed", "order_id", order.ID, "iiko_order_id", order.IikoOrderID, "error", err)
			continue
		}

		update := DeliveryUpdate{
			IikoOrderID:    status.ID,
			Status:         status.Status,
			WhenCreated:    status.WhenCreated,
			CompleteBefore: status.CompleteBefore,
			WhenDelivered:  status.WhenDelivered,
			Sum:            models.NewMoneyFromDecimal(decimal.NewFromFloat(status.Sum)),
		}
		if err := s.reconcile.ApplyDeliveryUpdate(ctx, update); err != nil {
			logger.Warnw("monitor_apply_failed", "order_id", order.ID, "iiko_order_id", order.IikoOrderID, "error", err)
		}
	}
	return nil
}
