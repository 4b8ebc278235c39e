package queue

import (
	"encoding/json"

	"github.com/carman72tmn/foodtech/internal/constants"

	"github.com/hibiken/asynq"
)

// OrderSubmitPayload asks the worker to push one order to the POS.
type OrderSubmitPayload struct {
	OrderID uint `json:"order_id"`
}

// StopListSyncPayload asks the worker to refresh product availability.
type StopListSyncPayload struct{}

// NewOrderSubmitTask builds an order submission task.
func NewOrderSubmitTask(payload OrderSubmitPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskOrderSubmit, data), nil
}

// NewStopListSyncTask builds a stop list sync task.
func NewStopListSyncTask() (*asynq.Task, error) {
	data, err := json.Marshal(StopListSyncPayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskSyncStopLists, data), nil
}
