package roster

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/karunasetu/karuna-backend/internal/uploads"
	"github.com/karunasetu/karuna-backend/pkg/config"
	"github.com/karunasetu/karuna-backend/pkg/db/models"
	"github.com/karunasetu/karuna-backend/pkg/enums"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
	"github.com/karunasetu/karuna-backend/pkg/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	t.Setenv(config.EnvCloudinaryCloudName, "")
	t.Setenv(config.EnvCloudinaryAPIKey, "")
	t.Setenv(config.EnvCloudinaryAPISecret, "")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(&models.Donor{}, &models.Member{}))

	logg := logger.New(logger.Options{ServiceName: "test"})
	local := storage.NewLocalStore(config.UploadsConfig{Dir: t.TempDir(), URLPrefix: "/uploads"})
	resolver := storage.NewResolver(config.CloudinaryConfig{}, local, logg)
	pipeline := uploads.NewPipeline(resolver, logg)

	return NewService(conn, resolver, pipeline, logg)
}

func strPtr(s string) *string { return &s }

func TestCreateDonorRequiresName(t *testing.T) {
	service := newTestService(t)

	_, err := service.CreateDonor(context.Background(), DonorInput{Tier: strPtr("Gold")})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateDonorRequiresTier(t *testing.T) {
	service := newTestService(t)

	_, err := service.CreateDonor(context.Background(), DonorInput{Name: strPtr("Sunrise Trust")})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Message(), "tier")
}

func TestCreateDonorRejectsUnknownTier(t *testing.T) {
	service := newTestService(t)

	_, err := service.CreateDonor(context.Background(), DonorInput{
		Name: strPtr("Sunrise Trust"),
		Tier: strPtr("titanium"),
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateDonorWithLogo(t *testing.T) {
	service := newTestService(t)

	donor, err := service.CreateDonor(context.Background(), DonorInput{
		Name:    strPtr("  Sunrise Trust  "),
		Tier:    strPtr("Gold"),
		Website: strPtr("https://sunrise.example.org"),
		Logo:    &uploads.File{Name: "logo.png", Data: []byte("png")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sunrise Trust", donor.Name)
	assert.Equal(t, enums.DonorTierGold, donor.Tier)
	require.NotNil(t, donor.URL)
	assert.Contains(t, *donor.URL, "/uploads/")
}

func TestCreateDonorRecordsDonation(t *testing.T) {
	service := newTestService(t)

	amount := decimal.NewFromFloat(25000.50)
	donor, err := service.CreateDonor(context.Background(), DonorInput{
		Name:             strPtr("Sunrise Trust"),
		Tier:             strPtr("Gold"),
		DonatedAmount:    &amount,
		DonatedCommodity: strPtr("blankets"),
	})
	require.NoError(t, err)

	require.NotNil(t, donor.DonatedAmount)
	assert.True(t, donor.DonatedAmount.Equal(amount))
	require.NotNil(t, donor.DonatedCommodity)
	assert.Equal(t, "blankets", *donor.DonatedCommodity)
}

func TestUpdateDonorReplacesDonation(t *testing.T) {
	service := newTestService(t)

	initial := decimal.NewFromInt(1000)
	donor, err := service.CreateDonor(context.Background(), DonorInput{
		Name:          strPtr("Sunrise Trust"),
		Tier:          strPtr("Gold"),
		DonatedAmount: &initial,
	})
	require.NoError(t, err)

	raised := decimal.NewFromInt(5000)
	updated, err := service.UpdateDonor(context.Background(), donor.ID, DonorInput{
		DonatedAmount:    &raised,
		DonatedCommodity: strPtr("rice sacks"),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.DonatedAmount)
	assert.True(t, updated.DonatedAmount.Equal(raised))
	require.NotNil(t, updated.DonatedCommodity)
	assert.Equal(t, "rice sacks", *updated.DonatedCommodity)
}

func TestUpdateDonorReplacesFields(t *testing.T) {
	service := newTestService(t)

	donor, err := service.CreateDonor(context.Background(), DonorInput{
		Name: strPtr("Sunrise Trust"),
		Tier: strPtr("Silver"),
	})
	require.NoError(t, err)

	updated, err := service.UpdateDonor(context.Background(), donor.ID, DonorInput{
		Tier: strPtr("Platinum"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Trust", updated.Name)
	assert.Equal(t, enums.DonorTierPlatinum, updated.Tier)
}

func TestReorderDonors(t *testing.T) {
	service := newTestService(t)

	var ids []uuid.UUID
	for _, name := range []string{"alpha", "beta", "gamma"} {
		donor, err := service.CreateDonor(context.Background(), DonorInput{
			Name: strPtr(name),
			Tier: strPtr("Gold"),
		})
		require.NoError(t, err)
		ids = append(ids, donor.ID)
	}

	require.NoError(t, service.ReorderDonors(context.Background(),
		[]uuid.UUID{ids[2], ids[0], ids[1]}))

	listed := service.ListDonors(context.Background())
	require.Len(t, listed, 3)
	assert.Equal(t, "gamma", listed[0].Name)
	assert.Equal(t, "alpha", listed[1].Name)
	assert.Equal(t, "beta", listed[2].Name)
}

func TestCreateMemberDefaultsRole(t *testing.T) {
	service := newTestService(t)

	member, err := service.CreateMember(context.Background(), MemberInput{
		Name: strPtr("Asha Rao"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMemberRole, member.Role)

	member, err = service.CreateMember(context.Background(), MemberInput{
		Name: strPtr("Ravi Kumar"),
		Role: strPtr("Treasurer"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Treasurer", member.Role)
}

func TestCreateMemberRecordsContactDetails(t *testing.T) {
	service := newTestService(t)

	member, err := service.CreateMember(context.Background(), MemberInput{
		Name:    strPtr("Asha Rao"),
		InstaID: strPtr("@asha.rao"),
		Email:   strPtr("asha@example.org"),
		Contact: strPtr("+91 98765 43210"),
	})
	require.NoError(t, err)

	require.NotNil(t, member.InstaID)
	assert.Equal(t, "@asha.rao", *member.InstaID)
	require.NotNil(t, member.Email)
	assert.Equal(t, "asha@example.org", *member.Email)
	require.NotNil(t, member.Contact)
	assert.Equal(t, "+91 98765 43210", *member.Contact)
}

func TestUpdateMemberReplacesContactDetails(t *testing.T) {
	service := newTestService(t)

	member, err := service.CreateMember(context.Background(), MemberInput{
		Name:  strPtr("Ravi Kumar"),
		Email: strPtr("old@example.org"),
	})
	require.NoError(t, err)

	updated, err := service.UpdateMember(context.Background(), member.ID, MemberInput{
		Email:   strPtr("ravi@example.org"),
		InstaID: strPtr("@ravi.k"),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Email)
	assert.Equal(t, "ravi@example.org", *updated.Email)
	require.NotNil(t, updated.InstaID)
	assert.Equal(t, "@ravi.k", *updated.InstaID)
}

func TestCreateMemberRequiresName(t *testing.T) {
	service := newTestService(t)

	_, err := service.CreateMember(context.Background(), MemberInput{Role: strPtr("Core")})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateMemberUnknownIsNotFound(t *testing.T) {
	service := newTestService(t)

	_, err := service.UpdateMember(context.Background(), uuid.New(), MemberInput{
		Name: strPtr("Nobody"),
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteMember(t *testing.T) {
	service := newTestService(t)

	member, err := service.CreateMember(context.Background(), MemberInput{
		Name:  strPtr("Asha Rao"),
		Photo: &uploads.File{Name: "asha.jpg", Data: []byte("jpg")},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteMember(context.Background(), member.ID))
	assert.Empty(t, service.ListMembers(context.Background()))
}
