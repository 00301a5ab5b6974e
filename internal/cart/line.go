package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	// registers JSON number encoding for decimal amounts
	_ "github.com/cricketstore/storefront/pkg/money"
)

// ProductID identifies a product. Stored carts may carry it as a JSON string or number.
type ProductID string

func (p *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ProductID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	*p = ProductID(n.String())
	return nil
}

func (p ProductID) String() string {
	return string(p)
}

// Product is the catalogue entry offered to Add.
type Product struct {
	ID    ProductID       `json:"id" validate:"required"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
	Brand string          `json:"brand"`
}

// Line is one product/quantity pairing in the cart.
type Line struct {
	ID       ProductID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Brand    string          `json:"brand"`
	Quantity int             `json:"quantity"`
}

// LineTotal is price × quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Badge is the navbar cart counter.
type Badge struct {
	Count   int  `json:"count"`
	Visible bool `json:"visible"`
}

// DecodeLines parses a stored cart and rejects any structural mismatch.
func DecodeLines(raw string) ([]Line, error) {
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decoding cart lines: %w", err)
	}
	seen := make(map[ProductID]struct{}, len(lines))
	for i, line := range lines {
		if line.ID == "" {
			return nil, fmt.Errorf("line %d: missing id", i)
		}
		if line.Price.IsNegative() {
			return nil, fmt.Errorf("line %d: negative price", i)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("line %d: quantity %d must be positive", i, line.Quantity)
		}
		if _, dup := seen[line.ID]; dup {
			return nil, fmt.Errorf("line %d: duplicate id %q", i, line.ID)
		}
		seen[line.ID] = struct{}{}
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

// EncodeLines serialises the cart for storage.
func EncodeLines(lines []Line) (string, error) {
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encoding cart lines: %w", err)
	}
	return string(raw), nil
}

// CloneLines deep-copies a line slice.
func CloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
