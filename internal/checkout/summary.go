package checkout

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cricketstore/storefront/internal/cart"
	"github.com/cricketstore/storefront/pkg/money"
)

const (
	freeShippingLabel  = "FREE"
	defaultContinueURL = "/"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var summaryTemplate = template.Must(template.ParseFS(templateFS, "templates/summary.html.tmpl"))

// SummaryItem is one rendered line of the order summary.
type SummaryItem struct {
	ID                 cart.ProductID  `json:"id"`
	Name               string          `json:"name"`
	Brand              string          `json:"brand"`
	Image              string          `json:"image"`
	Quantity           int             `json:"quantity"`
	LineTotal          decimal.Decimal `json:"line_total"`
	LineTotalFormatted string          `json:"line_total_formatted"`
}

// Totals is the priced block under the line items.
type Totals struct {
	Quote
	SubtotalFormatted string `json:"subtotal_formatted"`
	ShippingLabel     string `json:"shipping_label"`
	TaxLabel          string `json:"tax_label"`
	TaxFormatted      string `json:"tax_formatted"`
	TotalFormatted    string `json:"total_formatted"`
}

// Summary is the order summary view. An empty cart has no totals and no pay affordance.
type Summary struct {
	Empty       bool          `json:"empty"`
	Items       []SummaryItem `json:"items"`
	Totals      *Totals       `json:"totals"`
	CanPay      bool          `json:"can_pay"`
	ContinueURL string        `json:"continue_url,omitempty"`
}

// BuildSummary prices lines into a Summary.
func BuildSummary(lines []cart.Line, pricing Pricing) Summary {
	if len(lines) == 0 {
		return Summary{Empty: true, Items: []SummaryItem{}, ContinueURL: defaultContinueURL}
	}

	items := make([]SummaryItem, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		lineTotal := line.LineTotal()
		subtotal = subtotal.Add(lineTotal)
		items = append(items, SummaryItem{
			ID:                 line.ID,
			Name:               line.Name,
			Brand:              line.Brand,
			Image:              line.Image,
			Quantity:           line.Quantity,
			LineTotal:          lineTotal,
			LineTotalFormatted: money.FormatINR(lineTotal),
		})
	}

	quote := pricing.Quote(subtotal)
	shippingLabel := freeShippingLabel
	if !quote.Shipping.IsZero() {
		shippingLabel = money.FormatINR(quote.Shipping)
	}

	return Summary{
		Items: items,
		Totals: &Totals{
			Quote:             quote,
			SubtotalFormatted: money.FormatINR(quote.Subtotal),
			ShippingLabel:     shippingLabel,
			TaxLabel:          fmt.Sprintf("GST (%s%%)", pricing.TaxPercent()),
			TaxFormatted:      money.FormatINR(quote.Tax),
			TotalFormatted:    money.FormatINR(quote.Total),
		},
		CanPay: true,
	}
}

// RenderSummaryHTML writes the summary as an HTML fragment.
func RenderSummaryHTML(w io.Writer, s Summary) error {
	return summaryTemplate.ExecuteTemplate(w, "summary", s)
}
