package validators

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/karunasetu/karuna-backend/internal/uploads"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
)

const multipartMemoryLimit = 8 << 20

// ParseMultipart caps the request body and parses the form. Oversized
// requests come back as validation errors, not connection resets.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

// FormFiles buffers every file uploaded under the field, up to maxFiles.
func FormFiles(r *http.Request, field string, maxFiles int) ([]uploads.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if maxFiles > 0 && len(headers) > maxFiles {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d files may be uploaded at once", maxFiles))
	}

	files := make([]uploads.File, 0, len(headers))
	for _, header := range headers {
		file, err := readUpload(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// FormFile buffers the single file uploaded under the field, or nil when the
// field is absent.
func FormFile(r *http.Request, field string) (*uploads.File, error) {
	files, err := FormFiles(r, field, 1)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	return &files[0], nil
}

// FormValue returns the trimmed field value, or nil when the field was not
// submitted at all. An empty submitted value comes back as a pointer to "".
func FormValue(r *http.Request, field string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	trimmed := strings.TrimSpace(values[0])
	return &trimmed
}

// FormBool interprets checkbox-style fields: "on", "true", and "1" are true,
// anything else submitted is false, absent is nil.
func FormBool(r *http.Request, field string) *bool {
	raw := FormValue(r, field)
	if raw == nil {
		return nil
	}
	value := *raw == "on" || *raw == "true" || *raw == "1"
	return &value
}

func readUpload(header *multipart.FileHeader) (uploads.File, error) {
	f, err := header.Open()
	if err != nil {
		return uploads.File{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return uploads.File{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable upload")
	}
	return uploads.File{Name: header.Filename, Data: data}, nil
}
