package enums

// PaymentOutcome labels how a payment attempt ended.
type PaymentOutcome string

const (
	PaymentOutcomeOpened      PaymentOutcome = "opened"
	PaymentOutcomeSucceeded   PaymentOutcome = "succeeded"
	PaymentOutcomeFailed      PaymentOutcome = "failed"
	PaymentOutcomeCancelled   PaymentOutcome = "cancelled"
	PaymentOutcomeUnavailable PaymentOutcome = "unavailable"
	PaymentOutcomeEmptyCart   PaymentOutcome = "empty_cart"
	PaymentOutcomeInvalid     PaymentOutcome = "invalid_form"
)

// String implements fmt.Stringer.
func (p PaymentOutcome) String() string {
	return string(p)
}
