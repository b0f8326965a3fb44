package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karunasetu/karuna-backend/api/responses"
	"github.com/karunasetu/karuna-backend/api/validators"
	"github.com/karunasetu/karuna-backend/internal/celebrations"
	"github.com/karunasetu/karuna-backend/pkg/config"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

const productImageField = "image"

// ListProducts returns products, optionally filtered by ?celebrationId=.
func ListProducts(svc *celebrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var celebrationID *uuid.UUID
		if raw := r.URL.Query().Get("celebrationId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid celebrationId"))
				return
			}
			celebrationID = &id
		}

		responses.WriteSuccess(w, map[string]any{"products": svc.ListProducts(r.Context(), celebrationID)})
	}
}

// GetProduct returns one product.
func GetProduct(svc *celebrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

// CreateProduct accepts a multipart form with an optional "image" file.
func CreateProduct(svc *celebrations.Service, uploadsCfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := productInputFromForm(w, r, uploadsCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"product": product})
	}
}

// UpdateProduct edits a product; a new image replaces the stored one.
func UpdateProduct(svc *celebrations.Service, uploadsCfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := productInputFromForm(w, r, uploadsCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

// DeleteProduct removes a product and its image.
func DeleteProduct(svc *celebrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ReorderProducts applies a new display order.
func ReorderProducts(svc *celebrations.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.ReorderProducts(r.Context(), ids); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "reordered"})
	}
}

func productInputFromForm(w http.ResponseWriter, r *http.Request, uploadsCfg config.UploadsConfig) (*celebrations.ProductInput, error) {
	if err := validators.ParseMultipart(w, r, megabytes(uploadsCfg.ImageMaxMB)); err != nil {
		return nil, err
	}
	image, err := validators.FormFile(r, productImageField)
	if err != nil {
		return nil, err
	}

	input := celebrations.ProductInput{
		Name:        validators.FormValue(r, "name"),
		Description: validators.FormValue(r, "description"),
		Image:       image,
	}

	if raw := validators.FormValue(r, "celebrationId"); raw != nil {
		id, err := uuid.Parse(*raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid celebrationId")
		}
		input.CelebrationID = &id
	}
	if raw := validators.FormValue(r, "price"); raw != nil {
		price, err := decimal.NewFromString(*raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		input.Price = &price
	}

	return &input, nil
}
