package enums

// PaymentMethod records which hosted widget settled an order.
type PaymentMethod string

const (
	PaymentMethodRazorpay PaymentMethod = "Razorpay"
)

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}
