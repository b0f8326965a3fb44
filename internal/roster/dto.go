package roster

import (
	"github.com/shopspring/decimal"

	"github.com/karunasetu/karuna-backend/internal/uploads"
)

// DonorInput carries donor fields from a create or update form. Pointer
// fields are optional on update; Logo, when present, replaces the stored
// logo.
type DonorInput struct {
	Name             *string
	Tier             *string
	Website          *string
	DonatedAmount    *decimal.Decimal
	DonatedCommodity *string
	Logo             *uploads.File
}

// MemberInput carries team member fields. Photo, when present, replaces the
// stored portrait.
type MemberInput struct {
	Name    *string
	Role    *string
	Bio     *string
	InstaID *string
	Email   *string
	Contact *string
	Photo   *uploads.File
}
