package controllers

import (
	"net/http"

	"github.com/mkohara/roastery/api/middleware"
	"github.com/mkohara/roastery/api/responses"
	"github.com/mkohara/roastery/api/validators"
	profilesvc "github.com/mkohara/roastery/internal/profile"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
	"github.com/mkohara/roastery/pkg/logger"
)

// GetProfile returns the calling user's profile.
func GetProfile(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		prof, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, prof)
	}
}

// UpsertProfile creates or replaces the calling user's profile.
func UpsertProfile(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload profileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prof, err := svc.Upsert(r.Context(), userID, profilesvc.UpsertProfileInput{
			DisplayName: payload.DisplayName,
			IconURL:     payload.IconURL,
			PostCode:    payload.PostCode,
			Address:     payload.Address,
			AboutMe:     payload.AboutMe,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, prof)
	}
}

type profileRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=60"`
	IconURL     string `json:"icon_url" validate:"omitempty,url"`
	PostCode    string `json:"post_code" validate:"omitempty"`
	Address     string `json:"address" validate:"omitempty,max=200"`
	AboutMe     string `json:"about_me" validate:"omitempty,max=500"`
}
