package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cricketstore/storefront/internal/cart"
	"github.com/cricketstore/storefront/internal/orders"
	"github.com/cricketstore/storefront/pkg/enums"
	pkgerrors "github.com/cricketstore/storefront/pkg/errors"
	"github.com/cricketstore/storefront/pkg/logger"
	"github.com/cricketstore/storefront/pkg/money"
	"github.com/cricketstore/storefront/pkg/razorpay"
	"github.com/cricketstore/storefront/pkg/storage"
)

const (
	msgEmptyCart      = "Your cart is empty!"
	msgPaymentOK      = "Payment successful! Redirecting..."
	msgCancelled      = "Payment cancelled by user"
	msgFailedPrefix   = "Payment failed: "
	msgInitErrPrefix  = "Error initializing payment: "
	defaultConfirmURL = "/success"
)

// Widget builds the hosted payment widget configuration.
type Widget interface {
	Options(req razorpay.Request) (razorpay.Options, error)
}

// Notifier displays a transient notice to the shopper.
type Notifier interface {
	Show(ctx context.Context, message string, kind enums.NotificationType) error
}

// OutcomeRecorder counts checkout outcomes.
type OutcomeRecorder interface {
	IncPaymentOutcome(outcome string)
	ObserveOrder(total float64)
}

// Settings carries the tunable parts of the flow.
type Settings struct {
	Pricing          Pricing
	BusyFallback     time.Duration
	RedirectDelay    time.Duration
	AttemptTTL       time.Duration
	ConfirmationPath string
	Location         *time.Location
	Callbacks        razorpay.Callbacks
}

// Deps wires a Flow for one session.
type Deps struct {
	Cart     *cart.Store
	Orders   *orders.Log
	Bucket   storage.Bucket
	Notifier Notifier
	Widget   Widget
	IDs      *orders.IDGenerator
	Logger   *logger.Logger
	Metrics  OutcomeRecorder
	Settings Settings
	Now      func() time.Time
}

// Handoff is what the storefront page needs to open the widget.
type Handoff struct {
	AttemptID string           `json:"attempt_id"`
	Options   razorpay.Options `json:"options"`
	Quote     Quote            `json:"quote"`
	PayButton PayButton        `json:"pay_button"`
}

// Outcome reports a settled-without-order widget event.
type Outcome struct {
	Outcome   enums.PaymentOutcome `json:"outcome"`
	Message   string               `json:"message"`
	PayButton PayButton            `json:"pay_button"`
}

// Confirmation is returned once an order is recorded.
type Confirmation struct {
	Order           orders.Order `json:"order"`
	RedirectURL     string       `json:"redirect_url"`
	RedirectAfterMs int64        `json:"redirect_after_ms"`
}

// Flow drives summary, validation, payment handoff and order recording for one session.
type Flow struct {
	cart     *cart.Store
	orders   *orders.Log
	attempts attemptRepo
	notify   Notifier
	widget   Widget
	ids      *orders.IDGenerator
	logg     *logger.Logger
	metrics  OutcomeRecorder
	settings Settings
	now      func() time.Time
}

// NewFlow validates the dependencies and applies defaults.
func NewFlow(deps Deps) (*Flow, error) {
	if deps.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if deps.Orders == nil {
		return nil, fmt.Errorf("order log required")
	}
	if deps.Widget == nil {
		return nil, fmt.Errorf("payment widget required")
	}
	if deps.IDs == nil {
		return nil, fmt.Errorf("order id generator required")
	}
	s := deps.Settings
	if s.Pricing.TaxRate.IsZero() && s.Pricing.ShippingFee.IsZero() && s.Pricing.FreeShippingOver.IsZero() {
		s.Pricing = DefaultPricing()
	}
	if s.BusyFallback <= 0 {
		s.BusyFallback = time.Second
	}
	if s.RedirectDelay <= 0 {
		s.RedirectDelay = 1500 * time.Millisecond
	}
	if s.AttemptTTL <= 0 {
		s.AttemptTTL = 30 * time.Minute
	}
	if s.ConfirmationPath == "" {
		s.ConfirmationPath = defaultConfirmURL
	}
	if s.Location == nil {
		s.Location = time.UTC
	}
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Flow{
		cart:     deps.Cart,
		orders:   deps.Orders,
		attempts: attemptRepo{bucket: deps.Bucket, ttl: s.AttemptTTL, logg: logg},
		notify:   deps.Notifier,
		widget:   deps.Widget,
		ids:      deps.IDs,
		logg:     logg,
		metrics:  deps.Metrics,
		settings: s,
		now:      now,
	}, nil
}

// Summary prices the current cart.
func (f *Flow) Summary() Summary {
	return BuildSummary(f.cart.Lines(), f.settings.Pricing)
}

// PayButton reports the current pay action state.
func (f *Flow) PayButton(ctx context.Context) (PayButton, error) {
	attempt, err := f.attempts.load(ctx)
	if err != nil {
		return PayButton{}, err
	}
	return payButtonFor(f.cart.IsEmpty(), attempt, f.now()), nil
}

// Pay validates the form and hands the priced cart to the payment widget.
func (f *Flow) Pay(ctx context.Context, billing orders.BillingDetails) (*Handoff, error) {
	result := ValidateBilling(billing)
	if !result.Valid {
		f.record(enums.PaymentOutcomeInvalid)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "please correct the highlighted fields").WithDetails(result)
	}

	if f.cart.IsEmpty() {
		f.show(ctx, msgEmptyCart, enums.NotificationTypeDanger)
		f.record(enums.PaymentOutcomeEmptyCart)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, msgEmptyCart)
	}

	now := f.now()
	current, err := f.attempts.load(ctx)
	if err != nil {
		return nil, err
	}
	if current.BusyAt(now) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "payment already in progress").WithDetails(map[string]any{
			"busy_until": current.BusyUntil,
		})
	}

	items := f.cart.Lines()
	quote := f.settings.Pricing.Quote(f.cart.Total())
	attempt := &Attempt{
		ID:          uuid.NewString(),
		Billing:     billing,
		Items:       items,
		Quote:       quote,
		Description: Describe(items),
		Amount:      money.Subunits(quote.Total),
		Busy:        true,
		BusyUntil:   now.Add(f.settings.BusyFallback),
		CreatedAt:   now,
	}
	if err := f.attempts.save(ctx, attempt); err != nil {
		return nil, err
	}

	ctx = f.logg.WithField(ctx, "attempt_id", attempt.ID)
	opts, err := f.widget.Options(razorpay.Request{
		Amount:      attempt.Amount,
		Description: attempt.Description,
		Prefill: razorpay.Prefill{
			Name:    billing.Name,
			Email:   billing.Email,
			Contact: billing.Phone,
		},
		Notes: razorpay.Notes{
			Address: billing.Address,
			City:    billing.City,
			State:   billing.State,
			Pincode: billing.Pincode,
		},
		Callbacks: f.settings.Callbacks,
	})
	if err != nil {
		return nil, f.abortHandoff(ctx, err)
	}

	f.record(enums.PaymentOutcomeOpened)
	f.logg.Info(f.logg.WithField(ctx, "amount", attempt.Amount), "payment widget handoff")
	return &Handoff{
		AttemptID: attempt.ID,
		Options:   opts,
		Quote:     quote,
		PayButton: payButtonFor(false, attempt, now),
	}, nil
}

// abortHandoff discards the attempt so a later success callback is rejected.
func (f *Flow) abortHandoff(ctx context.Context, cause error) error {
	if err := f.attempts.delete(ctx); err != nil {
		f.logg.Warn(f.logg.WithField(ctx, "error", err.Error()), "pay action not restored")
	}
	f.logg.Error(ctx, "payment initialization failed", cause)
	f.show(ctx, msgInitErrPrefix+cause.Error(), enums.NotificationTypeDanger)
	f.record(enums.PaymentOutcomeUnavailable)

	if errors.Is(cause, razorpay.ErrUnavailable) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "payment widget unavailable")
	}
	return pkgerrors.Wrap(pkgerrors.CodeStateConflict, cause, "payment could not be initialized")
}

// Dismiss handles the shopper closing the widget.
func (f *Flow) Dismiss(ctx context.Context) (*Outcome, error) {
	button, err := f.reenable(ctx)
	if err != nil {
		return nil, err
	}
	f.show(ctx, msgCancelled, enums.NotificationTypeWarning)
	f.record(enums.PaymentOutcomeCancelled)
	return &Outcome{Outcome: enums.PaymentOutcomeCancelled, Message: msgCancelled, PayButton: button}, nil
}

// Failure handles a widget-reported payment failure.
func (f *Flow) Failure(ctx context.Context, description string) (*Outcome, error) {
	button, err := f.reenable(ctx)
	if err != nil {
		return nil, err
	}
	msg := msgFailedPrefix + description
	f.show(ctx, msg, enums.NotificationTypeDanger)
	f.record(enums.PaymentOutcomeFailed)
	f.logg.Warn(f.logg.WithField(ctx, "description", description), "payment failed")
	return &Outcome{Outcome: enums.PaymentOutcomeFailed, Message: msg, PayButton: button}, nil
}

// reenable clears the busy flag. Calling it with nothing busy is harmless.
func (f *Flow) reenable(ctx context.Context) (PayButton, error) {
	attempt, err := f.attempts.load(ctx)
	if err != nil {
		return PayButton{}, err
	}
	if attempt != nil && attempt.Busy {
		attempt.Busy = false
		if err := f.attempts.save(ctx, attempt); err != nil {
			return PayButton{}, err
		}
	}
	return payButtonFor(f.cart.IsEmpty(), attempt, f.now()), nil
}

// Success records the order for the pending attempt, empties the cart and returns the redirect.
func (f *Flow) Success(ctx context.Context, paymentID, signature string) (*Confirmation, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	attempt, err := f.attempts.load(ctx)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no payment attempt in progress")
	}
	if strings.TrimSpace(signature) == "" {
		signature = orders.SignatureAbsent
	}

	now := f.now()
	order := orders.Order{
		OrderID:            f.ids.Next(),
		PaymentID:          paymentID,
		Signature:          signature,
		Items:              cart.CloneLines(attempt.Items),
		Subtotal:           attempt.Quote.Subtotal,
		Shipping:           attempt.Quote.Shipping,
		Tax:                attempt.Quote.Tax,
		Total:              attempt.Quote.Total,
		BillingDetails:     attempt.Billing,
		OrderDate:          now.UTC(),
		OrderDateFormatted: orders.FormatOrderDate(now, f.settings.Location),
		Status:             enums.OrderStatusConfirmed,
		PaymentMethod:      enums.PaymentMethodRazorpay,
	}
	ctx = f.logg.WithOrderID(ctx, order.OrderID)

	if err := f.orders.Append(ctx, order); err != nil {
		return nil, err
	}
	// The order is recorded; later failures only warn.
	if err := f.cart.Clear(ctx); err != nil {
		f.logg.Warn(f.logg.WithField(ctx, "error", err.Error()), "cart not cleared after order")
	}
	if err := f.attempts.delete(ctx); err != nil {
		f.logg.Warn(f.logg.WithField(ctx, "error", err.Error()), "payment attempt not cleared")
	}
	f.show(ctx, msgPaymentOK, enums.NotificationTypeSuccess)

	f.record(enums.PaymentOutcomeSucceeded)
	if f.metrics != nil {
		total, _ := order.Total.Float64()
		f.metrics.ObserveOrder(total)
	}
	f.logg.Info(f.logg.WithField(ctx, "payment_id", paymentID), "order recorded")

	return &Confirmation{
		Order:           order,
		RedirectURL:     f.confirmationURL(order.OrderID),
		RedirectAfterMs: f.settings.RedirectDelay.Milliseconds(),
	}, nil
}

func (f *Flow) confirmationURL(orderID string) string {
	q := url.Values{}
	q.Set("orderId", orderID)
	return f.settings.ConfirmationPath + "?" + q.Encode()
}

func (f *Flow) record(outcome enums.PaymentOutcome) {
	if f.metrics != nil {
		f.metrics.IncPaymentOutcome(outcome.String())
	}
}

func (f *Flow) show(ctx context.Context, message string, kind enums.NotificationType) {
	if f.notify == nil {
		return
	}
	if err := f.notify.Show(ctx, message, kind); err != nil {
		f.logg.Warn(f.logg.WithField(ctx, "error", err.Error()), "checkout notification not shown")
	}
}

// Describe joins "name xqty" for every line.
func Describe(lines []cart.Line) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%s x%d", line.Name, line.Quantity))
	}
	return strings.Join(parts, ", ")
}
