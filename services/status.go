package services

import "github.com/ndiayedev/jokkoshop-api/models"

// Order statuses move strictly forward; cancellation is reachable from any
// non-terminal state. Delivery-driven propagation may skip intermediate
// states (a delivery can go out while the order is still "preparing"), so
// forward jumps are legal.
var orderStatusRank = map[string]int{
	models.OrderStatusPreparing:      0,
	models.OrderStatusReady:          1,
	models.OrderStatusOutForDelivery: 2,
	models.OrderStatusDelivered:      3,
}

func IsValidOrderStatus(status string) bool {
	if status == models.OrderStatusCancelled {
		return true
	}
	_, ok := orderStatusRank[status]
	return ok
}

func CanTransitionOrder(from, to string) bool {
	if from == to {
		return false
	}
	if models.OrderIsTerminal(from) {
		return false
	}
	if to == models.OrderStatusCancelled {
		return true
	}
	fromRank, okFrom := orderStatusRank[from]
	toRank, okTo := orderStatusRank[to]
	return okFrom && okTo && toRank > fromRank
}

func IsValidDeliveryStatus(status string) bool {
	switch status {
	case models.DeliveryStatusNotDelivered,
		models.DeliveryStatusInProgress,
		models.DeliveryStatusDelivered,
		models.DeliveryStatusCancelled:
		return true
	}
	return false
}

// Fan-out mapping tables between order and delivery statuses. Kept as data
// so the transition rules stay auditable in one place.
var orderToDeliveryStatus = map[string]string{
	models.OrderStatusOutForDelivery: models.DeliveryStatusInProgress,
	models.OrderStatusDelivered:      models.DeliveryStatusDelivered,
	models.OrderStatusCancelled:      models.DeliveryStatusCancelled,
}

var deliveryToOrderStatus = map[string]string{
	models.DeliveryStatusInProgress: models.OrderStatusOutForDelivery,
	models.DeliveryStatusDelivered:  models.OrderStatusDelivered,
	models.DeliveryStatusCancelled:  models.OrderStatusCancelled,
}
