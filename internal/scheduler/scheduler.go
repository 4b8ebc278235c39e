package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/provider"

	"github.com/robfig/cron/v3"
)

// Service runs the periodic jobs: stop list refresh and the order
// status sweep that backs up webhooks.
type Service struct {
	name      string
	cron      *cron.Cron
	container *provider.Container
}

// NewService creates the scheduler.
func NewService(container *provider.Container) (*Service, error) {
	if container == nil {
		return nil, errors.New("container is nil")
	}
	s := &Service{
		name:      "scheduler",
		cron:      cron.New(),
		container: container,
	}
	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) registerJobs() error {
	syncCfg := s.container.Config.Sync

	stopListSpec := fmt.Sprintf("@every %s", syncCfg.StopListInterval())
	if _, err := s.cron.AddFunc(stopListSpec, s.runStopListSync); err != nil {
		return fmt.Errorf("schedule stop list sync: %w", err)
	}

	pollSpec := fmt.Sprintf("@every %s", syncCfg.OrderPollInterval())
	if _, err := s.cron.AddFunc(pollSpec, s.runOrderPoll); err != nil {
		return fmt.Errorf("schedule order poll: %w", err)
	}
	return nil
}

func (s *Service) runStopListSync() {
	// Route through the queue when possible so a slow POS response does
	// not pile up cron goroutines.
	if s.container.QueueClient.Enabled() {
		if err := s.container.QueueClient.EnqueueStopListSync(); err != nil {
			logger.Warnw("scheduler_stop_list_enqueue_failed", "error", err)
		}
		return
	}
	if _, err := s.container.SyncService.SyncStopLists(context.Background()); err != nil {
		logger.Warnw("scheduler_stop_list_sync_failed", "error", err)
	}
}

func (s *Service) runOrderPoll() {
	if err := s.container.MonitorService.CheckActiveOrders(context.Background()); err != nil {
		logger.Warnw("scheduler_order_poll_failed", "error", err)
	}
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "scheduler"
	}
	return s.name
}

// Start runs scheduled jobs until the context ends.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return errors.New("scheduler not initialized")
	}
	s.cron.Start()
	<-ctx.Done()
	return ctx.Err()
}

// Stop waits for running jobs to finish.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return nil
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
