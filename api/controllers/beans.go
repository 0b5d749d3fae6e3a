package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkohara/roastery/api/middleware"
	"github.com/mkohara/roastery/api/responses"
	"github.com/mkohara/roastery/api/validators"
	beansvc "github.com/mkohara/roastery/internal/beans"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
	"github.com/mkohara/roastery/pkg/logger"
)

// ListBeans returns the public catalog, newest first.
func ListBeans(svc beansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		beans, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, beans)
	}
}

// GetBean returns one listing by id.
func GetBean(svc beansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := beanIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bean, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, bean)
	}
}

// ListMyBeans returns the listings owned by the calling user.
func ListMyBeans(svc beansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		beans, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, beans)
	}
}

// CreateBean publishes a new listing owned by the calling user.
func CreateBean(svc beansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload beanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bean, err := svc.Create(r.Context(), userID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, bean)
	}
}

// UpdateBean replaces a listing the calling user owns.
func UpdateBean(svc beansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		id, err := beanIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload beanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bean, err := svc.Update(r.Context(), id, userID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, bean)
	}
}

// DeleteBean removes a listing the calling user owns.
func DeleteBean(svc beansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		id, err := beanIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

type beanRequest struct {
	Name         string   `json:"name" validate:"required,max=120"`
	Origin       string   `json:"origin" validate:"required,max=120"`
	Price        int      `json:"price" validate:"min=0"`
	Process      string   `json:"process" validate:"required"`
	RoastProfile string   `json:"roast_profile" validate:"required"`
	FlavorNotes  []string `json:"flavor_notes" validate:"omitempty,dive,required"`
	Description  *string  `json:"description,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

func (p beanRequest) toInput() beansvc.CreateBeanInput {
	return beansvc.CreateBeanInput{
		Name:         p.Name,
		Origin:       p.Origin,
		Price:        p.Price,
		Process:      p.Process,
		RoastProfile: p.RoastProfile,
		FlavorNotes:  p.FlavorNotes,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
	}
}

func beanIDFromRequest(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "beanId")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid bean id")
	}
	return id, nil
}
