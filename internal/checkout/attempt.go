package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cricketstore/storefront/internal/cart"
	"github.com/cricketstore/storefront/internal/orders"
	pkgerrors "github.com/cricketstore/storefront/pkg/errors"
	"github.com/cricketstore/storefront/pkg/logger"
	"github.com/cricketstore/storefront/pkg/storage"
)

const attemptKey = "checkoutAttempt"

const (
	PayLabelIdle = "Pay Now"
	PayLabelBusy = "Opening Razorpay..."
)

// Attempt is the payment handed to the widget and not yet settled.
type Attempt struct {
	ID          string                `json:"id"`
	Billing     orders.BillingDetails `json:"billing"`
	Items       []cart.Line           `json:"items"`
	Quote       Quote                 `json:"quote"`
	Description string                `json:"description"`
	Amount      int64                 `json:"amount"`
	Busy        bool                  `json:"busy"`
	BusyUntil   time.Time             `json:"busy_until"`
	CreatedAt   time.Time             `json:"created_at"`
}

// BusyAt reports whether the pay action is still disabled at now.
// The fallback deadline re-enables it even when no widget event arrives.
func (a *Attempt) BusyAt(now time.Time) bool {
	return a != nil && a.Busy && now.Before(a.BusyUntil)
}

// PayButton is the state of the pay action.
type PayButton struct {
	Visible   bool       `json:"visible"`
	Enabled   bool       `json:"enabled"`
	Busy      bool       `json:"busy"`
	Label     string     `json:"label"`
	BusyUntil *time.Time `json:"busy_until,omitempty"`
}

func payButtonFor(cartEmpty bool, a *Attempt, now time.Time) PayButton {
	if a.BusyAt(now) {
		until := a.BusyUntil
		return PayButton{Visible: !cartEmpty, Busy: true, Label: PayLabelBusy, BusyUntil: &until}
	}
	return PayButton{Visible: !cartEmpty, Enabled: !cartEmpty, Label: PayLabelIdle}
}

type attemptRepo struct {
	bucket storage.Bucket
	ttl    time.Duration
	logg   *logger.Logger
}

func (r attemptRepo) load(ctx context.Context) (*Attempt, error) {
	raw, err := r.bucket.Get(ctx, attemptKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment attempt")
	}
	var a Attempt
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		r.logg.Warn(r.logg.WithField(ctx, "reason", err.Error()), "discarding malformed payment attempt")
		return nil, nil
	}
	return &a, nil
}

func (r attemptRepo) save(ctx context.Context, a *Attempt) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode payment attempt")
	}
	if err := r.bucket.Set(ctx, attemptKey, string(raw), r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save payment attempt")
	}
	return nil
}

func (r attemptRepo) delete(ctx context.Context) error {
	if err := r.bucket.Delete(ctx, attemptKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear payment attempt")
	}
	return nil
}
