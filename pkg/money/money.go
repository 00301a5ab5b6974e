package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const rupeeSign = "₹"

var (
	hundred = decimal.NewFromInt(100)
	indian  = language.MustParse("en-IN")
)

func init() {
	// Prices and totals are exchanged as JSON numbers, matching the stored cart format.
	decimal.MarshalJSONWithoutQuotes = true
}

// FormatINR renders whole rupees with en-IN digit grouping, e.g. ₹1,23,456.
// Fractions are rounded half away from zero.
func FormatINR(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + rupeeSign + message.NewPrinter(indian).Sprintf("%d", rounded.IntPart())
}

// Subunits converts a rupee total into the paise amount sent to the payment widget.
// The total is rounded to whole rupees first, so the charged amount can differ from
// the recorded order total by up to half a rupee.
func Subunits(total decimal.Decimal) int64 {
	return total.Round(0).Mul(hundred).IntPart()
}
