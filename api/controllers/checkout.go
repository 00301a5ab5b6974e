package controllers

import (
	"bytes"
	"net/http"

	"github.com/cricketstore/storefront/api/responses"
	"github.com/cricketstore/storefront/api/validators"
	"github.com/cricketstore/storefront/internal/checkout"
	"github.com/cricketstore/storefront/internal/orders"
	pkgerrors "github.com/cricketstore/storefront/pkg/errors"
	"github.com/cricketstore/storefront/pkg/logger"
)

const maxFailureDescription = 500

type payRequest struct {
	Billing orders.BillingDetails `json:"billing"`
}

type paymentSuccessRequest struct {
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type paymentFailureRequest struct {
	Description string `json:"description"`
}

// CheckoutSummary returns the priced order summary.
func CheckoutSummary(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, scope.flow.Summary())
	}
}

// CheckoutSummaryHTML renders the order summary fragment for the checkout page.
func CheckoutSummaryHTML(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var buf bytes.Buffer
		if err := checkout.RenderSummaryHTML(&buf, scope.flow.Summary()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render summary"))
			return
		}
		responses.WriteHTML(w, http.StatusOK, buf.Bytes())
	}
}

// CheckoutPayButton reports whether the pay action is visible, enabled or busy.
func CheckoutPayButton(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		button, err := scope.flow.PayButton(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, button)
	}
}

// CheckoutPay validates the billing form and returns the payment widget handoff.
// Field-level validation happens in the flow so every field gets a state.
func CheckoutPay(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req payRequest
		if err := validators.DecodeJSON(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		handoff, err := scope.flow.Pay(r.Context(), req.Billing)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, handoff)
	}
}

// CheckoutPaymentSuccess records the order for a completed payment.
func CheckoutPaymentSuccess(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentSuccessRequest
		if err := validators.DecodeJSON(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		confirmation, err := scope.flow.Success(r.Context(), req.PaymentID, req.Signature)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}

// CheckoutPaymentDismiss handles the shopper closing the widget.
func CheckoutPaymentDismiss(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		outcome, err := scope.flow.Dismiss(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, outcome)
	}
}

// CheckoutPaymentFailure handles a failure reported by the widget.
func CheckoutPaymentFailure(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentFailureRequest
		if err := validators.DecodeJSON(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		outcome, err := scope.flow.Failure(r.Context(), validators.SanitizeString(req.Description, maxFailureDescription))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, outcome)
	}
}
