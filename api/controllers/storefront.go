package controllers

import (
	"net/http"
	"time"

	"github.com/cricketstore/storefront/api/middleware"
	"github.com/cricketstore/storefront/internal/cart"
	"github.com/cricketstore/storefront/internal/checkout"
	"github.com/cricketstore/storefront/internal/notify"
	"github.com/cricketstore/storefront/internal/orders"
	"github.com/cricketstore/storefront/pkg/config"
	pkgerrors "github.com/cricketstore/storefront/pkg/errors"
	"github.com/cricketstore/storefront/pkg/logger"
	"github.com/cricketstore/storefront/pkg/metrics"
	"github.com/cricketstore/storefront/pkg/razorpay"
	"github.com/cricketstore/storefront/pkg/storage"
)

const (
	callbackSuccessPath = "/api/v1/checkout/payments/success"
	callbackDismissPath = "/api/v1/checkout/payments/dismiss"
	callbackFailurePath = "/api/v1/checkout/payments/failure"
)

// Storefront holds the process-wide collaborators the shopper handlers open a session scope from.
type Storefront struct {
	Store   storage.Store
	Config  *config.Config
	Widget  checkout.Widget
	IDs     *orders.IDGenerator
	Metrics *metrics.StorefrontMetrics
	Now     func() time.Time
}

// sessionScope is the per-request view of one shopper's state.
type sessionScope struct {
	cart    *cart.Store
	orders  *orders.Log
	toaster *notify.Toaster
	flow    *checkout.Flow
}

func (s *Storefront) open(r *http.Request, logg *logger.Logger) (*sessionScope, error) {
	if s == nil || s.Store == nil || s.Config == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "storefront unavailable")
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "shopper session missing")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	cfg := s.Config
	bucket := storage.ForSession(s.Store, sessionID)
	toaster := notify.NewToaster(bucket, cfg.Notification.TTL)
	if s.Now != nil {
		toaster.WithClock(s.Now)
	}

	cartStore, err := cart.Open(r.Context(), bucket, cart.Options{
		Key:              cfg.Store.CartKey,
		BrandPlaceholder: cfg.Store.BrandPlaceholder,
		Notifier:         toaster,
		Logger:           logg,
		Metrics:          s.Metrics,
	})
	if err != nil {
		return nil, err
	}
	orderLog := orders.NewLog(bucket, cfg.Store.OrdersKey, logg)

	widget := s.Widget
	if widget == nil {
		widget = razorpay.NewWidget(cfg.Payment)
	}
	ids := s.IDs
	if ids == nil {
		ids = orders.NewIDGenerator(s.Now)
	}

	flow, err := checkout.NewFlow(checkout.Deps{
		Cart:     cartStore,
		Orders:   orderLog,
		Bucket:   bucket,
		Notifier: toaster,
		Widget:   widget,
		IDs:      ids,
		Logger:   logg,
		Metrics:  s.Metrics,
		Now:      s.Now,
		Settings: checkout.Settings{
			Pricing:          checkout.PricingFromConfig(cfg.Pricing),
			BusyFallback:     cfg.Payment.BusyFallback,
			RedirectDelay:    cfg.Payment.RedirectDelay,
			AttemptTTL:       cfg.Payment.AttemptTTL,
			ConfirmationPath: cfg.Store.ConfirmationPath,
			Location:         cfg.Store.Location(),
			Callbacks: razorpay.Callbacks{
				Success: callbackSuccessPath,
				Dismiss: callbackDismissPath,
				Failure: callbackFailurePath,
			},
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout unavailable")
	}

	return &sessionScope{cart: cartStore, orders: orderLog, toaster: toaster, flow: flow}, nil
}
