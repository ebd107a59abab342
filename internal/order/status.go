package order

// Order status codes shared with the order service.
const (
	StatusPending        = 1
	StatusConfirmed      = 2
	StatusAwaitingPickup = 3
	StatusInTransit      = 4
	StatusDelivered      = 5
	StatusCanceled       = 6
	StatusRejected       = 7
	StatusRefunded       = 8
	StatusTSCCanceled    = 9
)

func StatusLabel(statusID int) string {
	switch statusID {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusAwaitingPickup:
		return "Awaiting Pickup"
	case StatusInTransit:
		return "In Transit"
	case StatusDelivered:
		return "Delivered"
	case StatusCanceled:
		return "Canceled"
	case StatusRejected:
		return "Rejected"
	case StatusRefunded:
		return "Refunded"
	case StatusTSCCanceled:
		return "TSC Canceled"
	}
	return "Unknown"
}

// Delivery type codes and the order-type labels the order service expects.
const (
	DeliveryTypeTable    = 0
	DeliveryTypeDelivery = 1
	DeliveryTypePickup   = 2
	DeliveryTypeKiosk    = 3
)

func OrderTypeLabel(deliveryType int) string {
	switch deliveryType {
	case DeliveryTypeDelivery:
		return "delivery"
	case DeliveryTypePickup:
		return "pickup"
	case DeliveryTypeKiosk:
		return "kiosk"
	}
	return "table"
}
