package razorpay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cricketstore/storefront/pkg/config"
)

// ErrUnavailable is returned when the hosted checkout widget cannot be initialised.
var ErrUnavailable = errors.New("razorpay checkout not loaded")

var (
	errAmountRequired   = errors.New("razorpay amount must be positive")
	errCurrencyRequired = errors.New("razorpay currency is required")
)

// Prefill seeds the widget's contact form.
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// Notes travel with the payment as free-text metadata.
type Notes struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

type Theme struct {
	Color string `json:"color"`
}

type Modal struct {
	ConfirmClose bool `json:"confirm_close"`
}

// Callbacks are the storefront endpoints the page forwards widget events to.
type Callbacks struct {
	Success string `json:"success"`
	Dismiss string `json:"dismiss"`
	Failure string `json:"failure"`
}

// Options is the configuration object handed to the client-side widget constructor.
type Options struct {
	Key         string    `json:"key"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	Prefill     Prefill   `json:"prefill"`
	Notes       Notes     `json:"notes"`
	Theme       Theme     `json:"theme"`
	Modal       Modal     `json:"modal"`
	Callbacks   Callbacks `json:"callbacks"`
}

// Request carries the per-checkout values of an Options build.
type Request struct {
	Amount      int64
	Description string
	Prefill     Prefill
	Notes       Notes
	Callbacks   Callbacks
}

// Widget builds hosted checkout options from merchant configuration.
type Widget struct {
	key          string
	currency     string
	merchantName string
	imageURL     string
	themeColor   string
}

// NewWidget captures the merchant settings. A blank key leaves the widget unavailable.
func NewWidget(cfg config.PaymentConfig) *Widget {
	return &Widget{
		key:          strings.TrimSpace(cfg.Key),
		currency:     strings.ToUpper(strings.TrimSpace(cfg.Currency)),
		merchantName: cfg.MerchantName,
		imageURL:     cfg.ImageURL,
		themeColor:   cfg.ThemeColor,
	}
}

// Available reports whether the widget can be opened at all.
func (w *Widget) Available() error {
	if w == nil || w.key == "" {
		return ErrUnavailable
	}
	return nil
}

// Options assembles the widget configuration for one checkout.
func (w *Widget) Options(req Request) (Options, error) {
	if err := w.Available(); err != nil {
		return Options{}, err
	}
	if req.Amount <= 0 {
		return Options{}, errAmountRequired
	}
	if w.currency == "" {
		return Options{}, errCurrencyRequired
	}
	return Options{
		Key:         w.key,
		Amount:      req.Amount,
		Currency:    w.currency,
		Name:        w.merchantName,
		Description: req.Description,
		Image:       w.imageURL,
		Prefill:     req.Prefill,
		Notes:       req.Notes,
		Theme:       Theme{Color: w.themeColor},
		Modal:       Modal{ConfirmClose: true},
		Callbacks:   req.Callbacks,
	}, nil
}

// KeyHint returns a redacted form of the key id suitable for logs.
func (w *Widget) KeyHint() string {
	if w == nil || len(w.key) < 8 {
		return "[REDACTED]"
	}
	return fmt.Sprintf("%s…", w.key[:8])
}
