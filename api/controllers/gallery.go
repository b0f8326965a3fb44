package controllers

import (
	"net/http"

	"github.com/karunasetu/karuna-backend/api/responses"
	"github.com/karunasetu/karuna-backend/api/validators"
	"github.com/karunasetu/karuna-backend/internal/gallery"
	"github.com/karunasetu/karuna-backend/pkg/config"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

const galleryFilesField = "images"

// ListGallery returns every gallery image, newest first.
func ListGallery(svc *gallery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"images": svc.List(r.Context())})
	}
}

// FeaturedGallery returns the images flagged for the homepage.
func FeaturedGallery(svc *gallery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"images": svc.Featured(r.Context())})
	}
}

// UploadGalleryImages accepts a multipart batch under the "images" field and
// creates one record per stored file.
func UploadGalleryImages(svc *gallery.Service, uploadsCfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cap := megabytes(uploadsCfg.ImageMaxMB) * int64(uploadsCfg.MaxFilesPerUpload)
		if err := validators.ParseMultipart(w, r, cap); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		files, err := validators.FormFiles(r, galleryFilesField, uploadsCfg.MaxFilesPerUpload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		images, err := svc.Upload(r.Context(), files, validators.FormValue(r, "title"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"images": images})
	}
}

type updateGalleryImageRequest struct {
	Title      *string `json:"title,omitempty"`
	IsFeatured *bool   `json:"isFeatured,omitempty"`
}

// UpdateGalleryImage edits an image's metadata.
func UpdateGalleryImage(svc *gallery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateGalleryImageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		image, err := svc.Update(r.Context(), id, gallery.UpdateImageInput{
			Title:      payload.Title,
			IsFeatured: payload.IsFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"image": image})
	}
}

// DeleteGalleryImage removes an image and its stored file.
func DeleteGalleryImage(svc *gallery.Service, logg *logger.Logger) http.HandlerFunc {
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
