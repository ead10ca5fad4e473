package controllers

import (
	"net/http"

	"github.com/middas-stores/storefront-gateway/api/responses"
	"github.com/middas-stores/storefront-gateway/api/validators"
	checkoutsvc "github.com/middas-stores/storefront-gateway/internal/checkout"
	pkgerrors "github.com/middas-stores/storefront-gateway/pkg/errors"
	"github.com/middas-stores/storefront-gateway/pkg/logger"
)

// CheckoutSubmit confirms the session's cart as an order against the
// commerce backend.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		sid, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutsvc.SubmitInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload.Name = validators.SanitizeString(payload.Name, 120)
		payload.Address = validators.SanitizeString(payload.Address, 300)
		payload.Notes = validators.SanitizeString(payload.Notes, 1000)

		result, err := svc.Submit(r.Context(), sid, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithOrderNumber(r.Context(), result.OrderNumber)
			logg.Info(ctx, "checkout.order_placed")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
