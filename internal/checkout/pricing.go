package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/cricketstore/storefront/pkg/config"
)

// Pricing holds the checkout pricing rule inputs.
type Pricing struct {
	FreeShippingOver decimal.Decimal
	ShippingFee      decimal.Decimal
	TaxRate          decimal.Decimal
}

// Quote is a priced subtotal.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingOver: decimal.NewFromInt(1000),
		ShippingFee:      decimal.NewFromInt(100),
		TaxRate:          decimal.RequireFromString("0.18"),
	}
}

func PricingFromConfig(cfg config.PricingConfig) Pricing {
	return Pricing{
		FreeShippingOver: cfg.FreeShippingOver,
		ShippingFee:      cfg.ShippingFee,
		TaxRate:          cfg.TaxRate,
	}
}

// Quote prices a subtotal: shipping is waived strictly above the threshold, tax applies to the
// subtotal only and is not rounded.
func (p Pricing) Quote(subtotal decimal.Decimal) Quote {
	shipping := p.ShippingFee
	if subtotal.GreaterThan(p.FreeShippingOver) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(p.TaxRate)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// TaxPercent renders the rate as a percentage, e.g. "18".
func (p Pricing) TaxPercent() string {
	return p.TaxRate.Mul(decimal.NewFromInt(100)).String()
}
