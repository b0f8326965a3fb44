package celebrations

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karunasetu/karuna-backend/internal/resources"
	"github.com/karunasetu/karuna-backend/internal/uploads"
	"github.com/karunasetu/karuna-backend/pkg/db/models"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

// Events sort ahead of plain campaigns, then admin-chosen order applies.
const celebrationOrder = "is_event DESC, position ASC, created_at ASC"

const productOrder = "position ASC, created_at ASC"

// Service manages celebrations and the products hanging off them.
type Service struct {
	celebrations *resources.Collection[models.Celebration]
	products     *resources.Collection[models.Product]
	assets       resources.AssetRemover
	pipeline     *uploads.Pipeline
}

func NewService(conn *gorm.DB, assets resources.AssetRemover, pipeline *uploads.Pipeline, logg *logger.Logger) *Service {
	return &Service{
		celebrations: resources.New[models.Celebration](conn, assets, logg,
			resources.WithOrder[models.Celebration](celebrationOrder),
			resources.WithPreload[models.Celebration]("Products"),
		),
		products: resources.New[models.Product](conn, assets, logg,
			resources.WithOrder[models.Product](productOrder),
		),
		assets:   assets,
		pipeline: pipeline,
	}
}

// List returns all celebrations with their products, events first.
func (s *Service) List(ctx context.Context) []models.Celebration {
	return s.celebrations.List(ctx)
}

// Get loads one celebration with its products.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Celebration, error) {
	return s.celebrations.Get(ctx, id)
}

// Create validates the form and inserts a celebration.
func (s *Service) Create(ctx context.Context, input CelebrationInput) (*models.Celebration, error) {
	name := derefTrimmed(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "celebration name is required")
	}

	celebration := models.Celebration{
		Name:        name,
		Description: input.Description,
	}
	if input.IsEvent != nil {
		celebration.IsEvent = *input.IsEvent
	}
	if input.Image != nil {
		descriptor, err := s.pipeline.IngestOne(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		celebration.SetAssetDescriptor(descriptor)
	}

	if err := s.celebrations.Create(ctx, &celebration); err != nil {
		return nil, err
	}
	return &celebration, nil
}

// Update applies the provided fields; a new image replaces and removes the
// previous one.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input CelebrationInput) (*models.Celebration, error) {
	return s.celebrations.Update(ctx, id, func(celebration *models.Celebration) error {
		if name := derefTrimmed(input.Name); name != "" {
			celebration.Name = name
		}
		if input.Description != nil {
			celebration.Description = input.Description
		}
		if input.IsEvent != nil {
			celebration.IsEvent = *input.IsEvent
		}
		if input.Image != nil {
			stored, err := s.pipeline.IngestOne(ctx, *input.Image)
			if err != nil {
				return err
			}
			celebration.SetAssetDescriptor(stored)
		}
		return nil
	})
}

// Delete removes the celebration, its products, and every asset involved.
// The product rows go with the row via the cascade; their assets are cleaned
// up here.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	celebration, err := s.celebrations.Get(ctx, id)
	if err != nil {
		return err
	}

	orphaned := make([]models.Product, len(celebration.Products))
	copy(orphaned, celebration.Products)

	if err := s.celebrations.Delete(ctx, id); err != nil {
		return err
	}
	for _, product := range orphaned {
		if asset := product.AssetDescriptor(); !asset.Empty() {
			s.assets.Remove(ctx, asset)
		}
	}
	return nil
}

// Reorder applies the given id order to celebration positions.
func (s *Service) Reorder(ctx context.Context, orderedIDs []uuid.UUID) error {
	return s.celebrations.Reorder(ctx, orderedIDs)
}

// ListProducts returns products, optionally scoped to one celebration.
func (s *Service) ListProducts(ctx context.Context, celebrationID *uuid.UUID) []models.Product {
	if celebrationID == nil {
		return s.products.List(ctx)
	}
	return s.products.ListWhere(ctx, "celebration_id = ?", *celebrationID)
}

// GetProduct loads one product.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products.Get(ctx, id)
}

// CreateProduct validates the form, checks the parent celebration exists,
// and inserts the product.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	name := derefTrimmed(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.CelebrationID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "celebrationId is required")
	}
	if input.Price == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}

	if _, err := s.celebrations.Get(ctx, *input.CelebrationID); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "celebrationId does not reference a celebration")
		}
		return nil, err
	}

	product := models.Product{
		CelebrationID: *input.CelebrationID,
		Name:          name,
		Description:   input.Description,
		Price:         *input.Price,
	}
	if input.Image != nil {
		descriptor, err := s.pipeline.IngestOne(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		product.SetAssetDescriptor(descriptor)
	}

	if err := s.products.Create(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct applies the provided fields; a new image replaces and
// removes the previous one.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}

	return s.products.Update(ctx, id, func(product *models.Product) error {
		if name := derefTrimmed(input.Name); name != "" {
			product.Name = name
		}
		if input.Description != nil {
			product.Description = input.Description
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.Image != nil {
			stored, err := s.pipeline.IngestOne(ctx, *input.Image)
			if err != nil {
				return err
			}
			product.SetAssetDescriptor(stored)
		}
		return nil
	})
}

// DeleteProduct removes the product and its image.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

// ReorderProducts applies the given id order to product positions.
func (s *Service) ReorderProducts(ctx context.Context, orderedIDs []uuid.UUID) error {
	return s.products.Reorder(ctx, orderedIDs)
}

func derefTrimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
