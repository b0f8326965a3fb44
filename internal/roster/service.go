package roster

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karunasetu/karuna-backend/internal/resources"
	"github.com/karunasetu/karuna-backend/internal/uploads"
	"github.com/karunasetu/karuna-backend/pkg/db/models"
	"github.com/karunasetu/karuna-backend/pkg/enums"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

const rosterOrder = "position ASC, created_at ASC"

// Service manages the two public rosters: donor recognition and the team
// page. Both share position-based ordering and optional image assets.
type Service struct {
	donors   *resources.Collection[models.Donor]
	members  *resources.Collection[models.Member]
	pipeline *uploads.Pipeline
}

func NewService(conn *gorm.DB, assets resources.AssetRemover, pipeline *uploads.Pipeline, logg *logger.Logger) *Service {
	return &Service{
		donors:   resources.New[models.Donor](conn, assets, logg, resources.WithOrder[models.Donor](rosterOrder)),
		members:  resources.New[models.Member](conn, assets, logg, resources.WithOrder[models.Member](rosterOrder)),
		pipeline: pipeline,
	}
}

// ListDonors returns donors in display order.
func (s *Service) ListDonors(ctx context.Context) []models.Donor {
	return s.donors.List(ctx)
}

// CreateDonor validates the form and inserts a donor, storing the logo first
// when one was uploaded.
func (s *Service) CreateDonor(ctx context.Context, input DonorInput) (*models.Donor, error) {
	name := derefTrimmed(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor name is required")
	}
	if input.Tier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor tier is required")
	}
	tier, err := enums.ParseDonorTier(strings.TrimSpace(*input.Tier))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "donor tier is invalid")
	}

	donor := models.Donor{
		Name:             name,
		Tier:             tier,
		Website:          input.Website,
		DonatedAmount:    input.DonatedAmount,
		DonatedCommodity: input.DonatedCommodity,
	}
	if input.Logo != nil {
		descriptor, err := s.pipeline.IngestOne(ctx, *input.Logo)
		if err != nil {
			return nil, err
		}
		donor.SetAssetDescriptor(descriptor)
	}

	if err := s.donors.Create(ctx, &donor); err != nil {
		return nil, err
	}
	return &donor, nil
}

// UpdateDonor applies the provided fields; a new logo replaces and removes
// the previous one.
func (s *Service) UpdateDonor(ctx context.Context, id uuid.UUID, input DonorInput) (*models.Donor, error) {
	var tier *enums.DonorTier
	if input.Tier != nil {
		parsed, err := enums.ParseDonorTier(strings.TrimSpace(*input.Tier))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "donor tier is invalid")
		}
		tier = &parsed
	}

	return s.donors.Update(ctx, id, func(donor *models.Donor) error {
		if name := derefTrimmed(input.Name); name != "" {
			donor.Name = name
		}
		if tier != nil {
			donor.Tier = *tier
		}
		if input.Website != nil {
			donor.Website = input.Website
		}
		if input.DonatedAmount != nil {
			donor.DonatedAmount = input.DonatedAmount
		}
		if input.DonatedCommodity != nil {
			donor.DonatedCommodity = input.DonatedCommodity
		}
		if input.Logo != nil {
			stored, err := s.pipeline.IngestOne(ctx, *input.Logo)
			if err != nil {
				return err
			}
			donor.SetAssetDescriptor(stored)
		}
		return nil
	})
}

// DeleteDonor removes the donor and its logo.
func (s *Service) DeleteDonor(ctx context.Context, id uuid.UUID) error {
	return s.donors.Delete(ctx, id)
}

// ReorderDonors applies the given id order to donor positions.
func (s *Service) ReorderDonors(ctx context.Context, orderedIDs []uuid.UUID) error {
	return s.donors.Reorder(ctx, orderedIDs)
}

// ListMembers returns team members in display order.
func (s *Service) ListMembers(ctx context.Context) []models.Member {
	return s.members.List(ctx)
}

// CreateMember validates the form and inserts a member. Role falls back to
// the default when omitted.
func (s *Service) CreateMember(ctx context.Context, input MemberInput) (*models.Member, error) {
	name := derefTrimmed(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member name is required")
	}

	member := models.Member{
		Name:    name,
		Role:    derefTrimmed(input.Role),
		Bio:     input.Bio,
		InstaID: input.InstaID,
		Email:   input.Email,
		Contact: input.Contact,
	}
	if member.Role == "" {
		member.Role = models.DefaultMemberRole
	}
	if input.Photo != nil {
		descriptor, err := s.pipeline.IngestOne(ctx, *input.Photo)
		if err != nil {
			return nil, err
		}
		member.SetAssetDescriptor(descriptor)
	}

	if err := s.members.Create(ctx, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMember applies the provided fields; a new photo replaces and removes
// the previous one.
func (s *Service) UpdateMember(ctx context.Context, id uuid.UUID, input MemberInput) (*models.Member, error) {
	return s.members.Update(ctx, id, func(member *models.Member) error {
		if name := derefTrimmed(input.Name); name != "" {
			member.Name = name
		}
		if role := derefTrimmed(input.Role); role != "" {
			member.Role = role
		}
		if input.Bio != nil {
			member.Bio = input.Bio
		}
		if input.InstaID != nil {
			member.InstaID = input.InstaID
		}
		if input.Email != nil {
			member.Email = input.Email
		}
		if input.Contact != nil {
			member.Contact = input.Contact
		}
		if input.Photo != nil {
			stored, err := s.pipeline.IngestOne(ctx, *input.Photo)
			if err != nil {
				return err
			}
			member.SetAssetDescriptor(stored)
		}
		return nil
	})
}

// DeleteMember removes the member and its photo.
func (s *Service) DeleteMember(ctx context.Context, id uuid.UUID) error {
	return s.members.Delete(ctx, id)
}

// ReorderMembers applies the given id order to member positions.
func (s *Service) ReorderMembers(ctx context.Context, orderedIDs []uuid.UUID) error {
	return s.members.Reorder(ctx, orderedIDs)
}

func derefTrimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
