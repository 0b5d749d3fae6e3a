package controllers

import (
	"net/http"

	"github.com/mkohara/roastery/api/middleware"
	"github.com/mkohara/roastery/api/responses"
	ordersvc "github.com/mkohara/roastery/internal/orders"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
	"github.com/mkohara/roastery/pkg/logger"
)

// ListOrders returns the calling user's order history, newest first.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		orders, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, orders)
	}
}
