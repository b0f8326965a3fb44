package celebrations

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karunasetu/karuna-backend/internal/uploads"
)

// CelebrationInput carries celebration fields from a create or update form.
// Pointer fields are optional on update; Image, when present, replaces the
// stored banner.
type CelebrationInput struct {
	Name        *string
	Description *string
	IsEvent     *bool
	Image       *uploads.File
}

// ProductInput carries product fields. CelebrationID is required on create
// and immutable afterwards.
type ProductInput struct {
	CelebrationID *uuid.UUID
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	Image         *uploads.File
}
