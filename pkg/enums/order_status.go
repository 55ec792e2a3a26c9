package enums

import "fmt"

// OrderStatus tracks fulfillment of a submitted order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
}

var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusConfirmed: 1,
	OrderStatusShipped:   2,
	OrderStatusDelivered: 3,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered
}

// CanAdvanceTo reports whether the status may move to next. Fulfillment only
// moves forward; skipping a stage is allowed, going back is not.
func (o OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	from, ok := orderStatusRank[o]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
