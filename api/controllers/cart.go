package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/cricketstore/storefront/api/responses"
	"github.com/cricketstore/storefront/api/validators"
	"github.com/cricketstore/storefront/internal/cart"
	pkgerrors "github.com/cricketstore/storefront/pkg/errors"
	"github.com/cricketstore/storefront/pkg/logger"
)

type cartView struct {
	Items []cart.Line     `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
	Badge cart.Badge      `json:"badge"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func newCartView(store *cart.Store) cartView {
	return cartView{
		Items: store.Lines(),
		Count: store.Count(),
		Total: store.Total(),
		Badge: store.Badge(),
	}
}

// CartFetch returns the shopper's cart lines, count, total and badge.
func CartFetch(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(scope.cart))
	}
}

// CartAddItem adds one unit of the posted product.
func CartAddItem(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var product cart.Product
		if err := validators.DecodeJSONBody(r, &product); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product.Name = validators.SanitizeString(product.Name, 200)
		product.Brand = validators.SanitizeString(product.Brand, 120)

		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := scope.cart.Add(r.Context(), product); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(scope.cart))
	}
}

// CartSetQuantity sets the quantity of a line; zero or below removes it.
func CartSetQuantity(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req quantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := scope.cart.SetQuantity(r.Context(), id, *req.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(scope.cart))
	}
}

// CartRemoveItem drops a line from the cart.
func CartRemoveItem(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := scope.cart.Remove(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(scope.cart))
	}
}

// CartClear empties the cart.
func CartClear(sf *Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := sf.open(r, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := scope.cart.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(scope.cart))
	}
}

func productIDParam(r *http.Request) (cart.ProductID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "productId"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return cart.ProductID(raw), nil
}
