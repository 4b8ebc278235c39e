package service

import "github.com/carman72tmn/foodtech/internal/constants"

// allowedTransitions is the order status machine. Cancellation is allowed
// from every non-terminal status; terminal orders never change again.
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusNew: {
		constants.OrderStatusPending:   true,
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCooking:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusCooking:   true,
		constants.OrderStatusReady:     true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusCooking: {
		constants.OrderStatusReady:     true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusReady: {
		constants.OrderStatusDelivering: true,
		constants.OrderStatusDelivered:  true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusDelivering: {
		constants.OrderStatusDelivered: true,
		constants.OrderStatusCancelled: true,
	},
}

// IsTerminalStatus reports whether a status admits no further transitions.
func IsTerminalStatus(status string) bool {
	return status == constants.OrderStatusDelivered || status == constants.OrderStatusCancelled
}

func isTransitionAllowed(from, to string) bool {
	if from == to {
		return false
	}
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// iikoStatusMap translates external delivery statuses into the local
// vocabulary. Unknown statuses fall back to pending so an unrecognized
// value never breaks reconciliation.
var iikoStatusMap = map[string]string{
	"Unconfirmed":      constants.OrderStatusPending,
	"WaitCooking":      constants.OrderStatusConfirmed,
	"ReadyForCooking":  constants.OrderStatusConfirmed,
	"CookingStarted":   constants.OrderStatusCooking,
	"CookingCompleted": constants.OrderStatusReady,
	"Waiting":          constants.OrderStatusReady,
	"OnWay":            constants.OrderStatusDelivering,
	"Delivered":        constants.OrderStatusDelivered,
	"Closed":           constants.OrderStatusDelivered,
	"Cancelled":        constants.OrderStatusCancelled,
}

// MapIikoStatus maps an external status to a local one. Total: every input
// yields a valid local status.
func MapIikoStatus(raw string) string {
	if mapped, ok := iikoStatusMap[raw]; ok {
		return mapped
	}
	return constants.OrderStatusPending
}
