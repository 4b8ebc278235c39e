package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carman72tmn/foodtech/internal/config"
	"github.com/carman72tmn/foodtech/internal/constants"
	"github.com/carman72tmn/foodtech/internal/logger"

	"github.com/hibiken/asynq"
)

// Client enqueues background tasks. A nil or disabled client drops
// tasks silently so callers never need a queue to function.
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient creates a queue client from config. A disabled queue yields
// a usable no-op client.
func NewClient(cfg *config.QueueConfig) *Client {
	if cfg == nil || !cfg.Enabled {
		return &Client{}
	}
	return &Client{
		client:       asynq.NewClient(buildRedisOpt(cfg)),
		enabled:      true,
		defaultQueue: constants.QueueDefault,
	}
}

// Enabled reports whether tasks will actually be enqueued.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderSubmit schedules an order for POS submission.
func (c *Client) EnqueueOrderSubmit(payload OrderSubmitPayload) error {
	if !c.Enabled() {
		logger.Debugw("queue_disabled_skip_enqueue", "task", constants.TaskOrderSubmit, "order_id", payload.OrderID)
		return nil
	}
	task, err := NewOrderSubmitTask(payload)
	if err != nil {
		return err
	}
	info, err := c.client.Enqueue(task,
		asynq.Queue(c.defaultQueue),
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", constants.TaskOrderSubmit, err)
	}
	logger.Infow("task_enqueued", "task", constants.TaskOrderSubmit, "task_id", info.ID, "order_id", payload.OrderID)
	return nil
}

// EnqueueStopListSync schedules a stop list refresh. Duplicate requests
// within a short window collapse into one task.
func (c *Client) EnqueueStopListSync() error {
	if !c.Enabled() {
		logger.Debugw("queue_disabled_skip_enqueue", "task", constants.TaskSyncStopLists)
		return nil
	}
	task, err := NewStopListSyncTask()
	if err != nil {
		return err
	}
	info, err := c.client.Enqueue(task,
		asynq.Queue(c.defaultQueue),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Unique(30*time.Second),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			logger.Debugw("task_deduplicated", "task", constants.TaskSyncStopLists)
			return nil
		}
		return fmt.Errorf("enqueue %s: %w", constants.TaskSyncStopLists, err)
	}
	logger.Infow("task_enqueued", "task", constants.TaskSyncStopLists, "task_id", info.ID)
	return nil
}

// BuildServerConfig translates queue config into asynq server settings.
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := 10
	queues := map[string]int{constants.QueueDefault: 10}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			queues = cfg.Queues
		}
	}
	return buildRedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		Logger:      asynqLogger{},
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 1
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}

// asynqLogger routes asynq's internal logging through the shared logger.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.S().Debug(args...) }
func (asynqLogger) Info(args ...interface{})  { logger.S().Info(args...) }
func (asynqLogger) Warn(args ...interface{})  { logger.S().Warn(args...) }
func (asynqLogger) Error(args ...interface{}) { logger.S().Error(args...) }
func (asynqLogger) Fatal(args ...interface{}) { logger.S().Fatal(args...) }
