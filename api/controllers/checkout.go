package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkohara/roastery/api/middleware"
	"github.com/mkohara/roastery/api/responses"
	checkoutsvc "github.com/mkohara/roastery/internal/checkout"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
	"github.com/mkohara/roastery/pkg/logger"
)

// CreatePaymentIntent prices the cart server-side and returns the client
// secret for confirming the payment in the browser.
func CreatePaymentIntent(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		result, err := svc.CreatePaymentIntent(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, result)
	}
}

// GetPaymentIntent reports the provider status of an earlier intent so an
// interrupted checkout can resume.
func GetPaymentIntent(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		result, err := svc.RetrieveIntent(r.Context(), userID, chi.URLParam(r, "intentId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, result)
	}
}
