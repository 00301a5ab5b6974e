package enums

import "fmt"

// OrderStatus is fixed at creation; no further lifecycle is modeled.
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "Confirmed"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusConfirmed,
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

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
