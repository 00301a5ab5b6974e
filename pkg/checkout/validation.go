package checkout

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validation tags understood by validators that call RegisterRules.
const (
	TagFilled = "filled"
	TagEmail  = "storeemail"
	TagMobile = "inmobile"
)

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobileRe = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// RegisterRules adds the checkout form tags to v.
func RegisterRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		TagFilled: func(fl validator.FieldLevel) bool { return IsFilled(fl.Field().String()) },
		TagEmail: func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == "" || IsEmail(value)
		},
		TagMobile: func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == "" || IsIndianMobile(value)
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s rule: %w", tag, err)
		}
	}
	return nil
}

// IsFilled reports whether value has content once surrounding whitespace is trimmed.
func IsFilled(value string) bool {
	return strings.TrimSpace(value) != ""
}

// IsEmail checks for local-part@domain.tld with no whitespace anywhere.
func IsEmail(value string) bool {
	if strings.ContainsFunc(value, unicode.IsSpace) {
		return false
	}
	return emailRe.MatchString(value)
}

// IsIndianMobile checks for a ten digit number starting 6-9, ignoring whitespace.
func IsIndianMobile(value string) bool {
	return mobileRe.MatchString(StripSpaces(value))
}

// StripSpaces removes every whitespace rune.
func StripSpaces(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}

// Message returns the shopper-facing text for a failed tag.
func Message(tag string) string {
	switch tag {
	case TagFilled, "required":
		return "is required"
	case TagEmail:
		return "must be a valid email address"
	case TagMobile:
		return "must be a valid 10 digit mobile number"
	}
	return "is invalid"
}
