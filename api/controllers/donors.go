package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/karunasetu/karuna-backend/api/responses"
	"github.com/karunasetu/karuna-backend/api/validators"
	"github.com/karunasetu/karuna-backend/internal/roster"
	"github.com/karunasetu/karuna-backend/pkg/config"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

const donorLogoField = "logo"

// ListDonors returns the donor roster in display order.
func ListDonors(svc *roster.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"donors": svc.ListDonors(r.Context())})
	}
}

// CreateDonor accepts a multipart form with an optional "logo" file.
func CreateDonor(svc *roster.Service, uploadsCfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := donorInputFromForm(w, r, uploadsCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		donor, err := svc.CreateDonor(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"donor": donor})
	}
}

// UpdateDonor edits a donor; a new logo replaces the stored one.
func UpdateDonor(svc *roster.Service, uploadsCfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := donorInputFromForm(w, r, uploadsCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		donor, err := svc.UpdateDonor(r.Context(), id, *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"donor": donor})
	}
}

// DeleteDonor removes a donor and its logo.
func DeleteDonor(svc *roster.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteDonor(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ReorderDonors applies a new display order.
func ReorderDonors(svc *roster.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.ReorderDonors(r.Context(), ids); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "reordered"})
	}
}

func donorInputFromForm(w http.ResponseWriter, r *http.Request, uploadsCfg config.UploadsConfig) (*roster.DonorInput, error) {
	// Logos share the small portrait cap, not the gallery image cap.
	if err := validators.ParseMultipart(w, r, megabytes(uploadsCfg.PortraitMaxMB)); err != nil {
		return nil, err
	}
	logo, err := validators.FormFile(r, donorLogoField)
	if err != nil {
		return nil, err
	}

	input := roster.DonorInput{
		Name:             validators.FormValue(r, "name"),
		Tier:             validators.FormValue(r, "tier"),
		Website:          validators.FormValue(r, "website"),
		DonatedCommodity: validators.FormValue(r, "donatedCommodity"),
		Logo:             logo,
	}
	if raw := validators.FormValue(r, "donatedAmount"); raw != nil && *raw != "" {
		amount, err := decimal.NewFromString(*raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid donatedAmount")
		}
		input.DonatedAmount = &amount
	}
	return &input, nil
}
