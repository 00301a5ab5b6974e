package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cricketstore/storefront/internal/cart"
	"github.com/cricketstore/storefront/pkg/enums"
)

// SignatureAbsent stands in for a payment signature the widget did not return.
const SignatureAbsent = "N/A"

// DateLayout renders orderDateFormatted the way en-IN locales print it.
const DateLayout = "02 Jan 2006, 03:04 pm"

// BillingDetails is the checkout form as submitted.
type BillingDetails struct {
	Name    string `json:"name" validate:"filled"`
	Email   string `json:"email" validate:"filled,storeemail"`
	Phone   string `json:"phone" validate:"filled,inmobile"`
	Address string `json:"address" validate:"filled"`
	City    string `json:"city" validate:"filled"`
	State   string `json:"state" validate:"filled"`
	Pincode string `json:"pincode" validate:"filled"`
}

// Order is an immutable record of a completed checkout.
type Order struct {
	OrderID            string              `json:"orderId"`
	PaymentID          string              `json:"paymentId"`
	Signature          string              `json:"signature"`
	Items              []cart.Line         `json:"items"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	Shipping           decimal.Decimal     `json:"shipping"`
	Tax                decimal.Decimal     `json:"tax"`
	Total              decimal.Decimal     `json:"total"`
	BillingDetails     BillingDetails      `json:"billingDetails"`
	OrderDate          time.Time           `json:"orderDate"`
	OrderDateFormatted string              `json:"orderDateFormatted"`
	Status             enums.OrderStatus   `json:"status"`
	PaymentMethod      enums.PaymentMethod `json:"paymentMethod"`
}

// FormatOrderDate renders t in loc using DateLayout.
func FormatOrderDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
