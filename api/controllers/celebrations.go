package controllers

import (
	"net/http"

	"github.com/karunasetu/karuna-backend/api/responses"
	"github.com/karunasetu/karuna-backend/api/validators"
	"github.com/karunasetu/karuna-backend/internal/celebrations"
	"github.com/karunasetu/karuna-backend/pkg/config"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

const celebrationImageField = "image"

// ListCelebrations returns all celebrations with their products, events
// first.
func ListCelebrations(svc *celebrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"celebrations": svc.List(r.Context())})
	}
}

// GetCelebration returns one celebration with its products.
func GetCelebration(svc *celebrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		celebration, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"celebration": celebration})
	}
}

// ListCelebrationProducts returns the products of one celebration.
func ListCelebrationProducts(svc *celebrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": svc.ListProducts(r.Context(), &id)})
	}
}

// CreateCelebration accepts a multipart form with an optional "image" file.
// The isEvent checkbox arrives as "on" when ticked.
func CreateCelebration(svc *celebrations.Service, uploadsCfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := celebrationInputFromForm(w, r, uploadsCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		celebration, err := svc.Create(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"celebration": celebration})
	}
}

// UpdateCelebration edits a celebration; a new image replaces the stored
// banner.
func UpdateCelebration(svc *celebrations.Service, uploadsCfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := celebrationInputFromForm(w, r, uploadsCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		celebration, err := svc.Update(r.Context(), id, *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"celebration": celebration})
	}
}

// DeleteCelebration removes a celebration, its products, and all their
// assets.
func DeleteCelebration(svc *celebrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ReorderCelebrations applies a new display order.
func ReorderCelebrations(svc *celebrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reorderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := payload.parse()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reorder(r.Context(), ids); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "reordered"})
	}
}

func celebrationInputFromForm(w http.ResponseWriter, r *http.Request, uploadsCfg config.UploadsConfig) (*celebrations.CelebrationInput, error) {
	if err := validators.ParseMultipart(w, r, megabytes(uploadsCfg.ImageMaxMB)); err != nil {
		return nil, err
	}
	image, err := validators.FormFile(r, celebrationImageField)
	if err != nil {
		return nil, err
	}
	return &celebrations.CelebrationInput{
		Name:        validators.FormValue(r, "name"),
		Description: validators.FormValue(r, "description"),
		IsEvent:     validators.FormBool(r, "isEvent"),
		Image:       image,
	}, nil
}
