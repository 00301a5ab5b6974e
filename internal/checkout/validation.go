package checkout

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cricketstore/storefront/internal/orders"
	checkoutrules "github.com/cricketstore/storefront/pkg/checkout"
)

// FormFields lists the checkout form fields in display order.
var FormFields = []string{"name", "email", "phone", "address", "city", "state", "pincode"}

// FieldState is the flag shown next to one form field. A valid field has its flag cleared.
type FieldState struct {
	Field   string `json:"field"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ValidationResult aggregates every field state into one verdict.
type ValidationResult struct {
	Valid  bool         `json:"valid"`
	Fields []FieldState `json:"fields"`
}

// Invalid returns only the flagged fields.
func (r ValidationResult) Invalid() []FieldState {
	var out []FieldState
	for _, f := range r.Fields {
		if !f.Valid {
			out = append(out, f)
		}
	}
	return out
}

var billingValidator = newBillingValidator()

func newBillingValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	if err := checkoutrules.RegisterRules(v); err != nil {
		panic(err)
	}
	return v
}

// ValidateBilling checks the form and reports a state for every field.
func ValidateBilling(details orders.BillingDetails) ValidationResult {
	failed := map[string]string{}
	if err := billingValidator.Struct(details); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			for _, fe := range errs {
				failed[fe.Field()] = checkoutrules.Message(fe.Tag())
			}
		}
	}

	result := ValidationResult{Valid: len(failed) == 0, Fields: make([]FieldState, 0, len(FormFields))}
	for _, field := range FormFields {
		msg, bad := failed[field]
		result.Fields = append(result.Fields, FieldState{Field: field, Valid: !bad, Message: msg})
	}
	return result
}
