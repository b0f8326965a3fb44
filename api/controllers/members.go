package controllers

import (
	"net/http"

	"github.com/karunasetu/karuna-backend/api/responses"
	"github.com/karunasetu/karuna-backend/api/validators"
	"github.com/karunasetu/karuna-backend/internal/roster"
	"github.com/karunasetu/karuna-backend/pkg/config"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

const memberPhotoField = "photo"

// ListMembers returns the team roster in display order.
func ListMembers(svc *roster.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"members": svc.ListMembers(r.Context())})
	}
}

// CreateMember accepts a multipart form with an optional "photo" file.
func CreateMember(svc *roster.Service, uploadsCfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := memberInputFromForm(w, r, uploadsCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.CreateMember(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"member": member})
	}
}

// UpdateMember edits a member; a new photo replaces the stored one.
func UpdateMember(svc *roster.Service, uploadsCfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := memberInputFromForm(w, r, uploadsCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.UpdateMember(r.Context(), id, *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"member": member})
	}
}

// DeleteMember removes a member and its photo.
func DeleteMember(svc *roster.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteMember(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ReorderMembers applies a new display order.
func ReorderMembers(svc *roster.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.ReorderMembers(r.Context(), ids); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "reordered"})
	}
}

func memberInputFromForm(w http.ResponseWriter, r *http.Request, uploadsCfg config.UploadsConfig) (*roster.MemberInput, error) {
	if err := validators.ParseMultipart(w, r, megabytes(uploadsCfg.PortraitMaxMB)); err != nil {
		return nil, err
	}
	photo, err := validators.FormFile(r, memberPhotoField)
	if err != nil {
		return nil, err
	}
	return &roster.MemberInput{
		Name:    validators.FormValue(r, "name"),
		Role:    validators.FormValue(r, "role"),
		Bio:     validators.FormValue(r, "bio"),
		InstaID: validators.FormValue(r, "instaId"),
		Email:   validators.FormValue(r, "email"),
		Contact: validators.FormValue(r, "contact"),
		Photo:   photo,
	}, nil
}
