package service

import "github.com/glowmart/glowmart-api/internal/constants"

// allowedOrderTransitions admissible order status moves. Delivered and
// cancelled are terminal.
var allowedOrderTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
		constants.OrderStatusCancelled: true,
	},
}

// CanTransitionOrderStatus reports whether an order may move between the
// two statuses
func CanTransitionOrderStatus(from, to string) bool {
	if from == to {
		return false
	}
	return allowedOrderTransitions[from][to]
}
