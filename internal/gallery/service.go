package gallery

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karunasetu/karuna-backend/internal/resources"
	"github.com/karunasetu/karuna-backend/internal/uploads"
	"github.com/karunasetu/karuna-backend/pkg/db/models"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

// UpdateImageInput carries the mutable gallery image fields. Nil means leave
// unchanged.
type UpdateImageInput struct {
	Title      *string
	IsFeatured *bool
}

// Service manages the public photo gallery. Uploads accept multiple files in
// one request; each stored file becomes its own image record.
type Service struct {
	images   *resources.Collection[models.GalleryImage]
	pipeline *uploads.Pipeline
}

func NewService(conn *gorm.DB, assets resources.AssetRemover, pipeline *uploads.Pipeline, logg *logger.Logger) *Service {
	return &Service{
		images:   resources.New[models.GalleryImage](conn, assets, logg),
		pipeline: pipeline,
	}
}

// List returns every gallery image, newest first.
func (s *Service) List(ctx context.Context) []models.GalleryImage {
	return s.images.List(ctx)
}

// Featured returns only the images flagged for the homepage strip.
func (s *Service) Featured(ctx context.Context) []models.GalleryImage {
	return s.images.ListWhere(ctx, "is_featured = ?", true)
}

// Upload stores the batch and creates one record per stored file. A storage
// failure aborts the batch; files stored before the failure keep their
// records. When the database is unreachable the files are still stored and
// their descriptor-only records are returned without being persisted.
func (s *Service) Upload(ctx context.Context, files []uploads.File, title *string) ([]models.GalleryImage, error) {
	descriptors, err := s.pipeline.Ingest(ctx, files)
	if err != nil {
		return nil, err
	}

	created := make([]models.GalleryImage, 0, len(descriptors))
	for index, descriptor := range descriptors {
		imageTitle := title
		if imageTitle == nil {
			name := files[index].Name
			imageTitle = &name
		}

		image := models.GalleryImage{Title: imageTitle}
		image.SetAssetDescriptor(descriptor)
		if err := s.images.Create(ctx, &image); err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeDependency {
				created = append(created, image)
				continue
			}
			return created, err
		}
		created = append(created, image)
	}
	return created, nil
}

// Update edits an image's metadata.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateImageInput) (*models.GalleryImage, error) {
	return s.images.Update(ctx, id, func(image *models.GalleryImage) error {
		if input.Title != nil {
			image.Title = input.Title
		}
		if input.IsFeatured != nil {
			image.IsFeatured = *input.IsFeatured
		}
		return nil
	})
}

// Delete removes the record and its stored file.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.images.Delete(ctx, id)
}
