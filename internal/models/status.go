package models

// OrderStatus is the fulfillment state of an order.
//
//	Pending -> Processing -> Shipped -> Delivered
//	   \___________\____________\______> Cancelled
//
// Delivered and Cancelled are terminal. Admins may still set any status
// directly; CanTransition only describes the canonical walk.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s OrderStatus) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusProcessing:
		return 1
	case StatusShipped:
		return 2
	case StatusDelivered:
		return 3
	}
	return -1
}

// CanTransition reports whether to is the next step of the canonical
// lifecycle from from, or a cancellation of a non-terminal order.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() || from.IsTerminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return to.rank() == from.rank()+1
}
