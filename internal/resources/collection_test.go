package resources

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/karunasetu/karuna-backend/pkg/db/models"
	"github.com/karunasetu/karuna-backend/pkg/enums"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
	"github.com/karunasetu/karuna-backend/pkg/storage"
)

type recordingRemover struct {
	removed []storage.Descriptor
}

func (r *recordingRemover) Remove(ctx context.Context, d storage.Descriptor) storage.RemovalResult {
	r.removed = append(r.removed, d)
	return storage.RemovalResult{Backend: storage.BackendLocal, Removed: true}
}

func openCollectionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(&models.Donor{}))
	return conn
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func newDonorCollection(t *testing.T) (*Collection[models.Donor], *recordingRemover) {
	t.Helper()
	remover := &recordingRemover{}
	collection := New[models.Donor](openCollectionTestDB(t), remover, testLogger(),
		WithOrder[models.Donor]("position ASC, created_at ASC"))
	return collection, remover
}

func mustCreateDonor(t *testing.T, c *Collection[models.Donor], name string, asset storage.Descriptor) models.Donor {
	t.Helper()
	donor := models.Donor{Name: name, Tier: enums.DonorTierGold}
	donor.SetAssetDescriptor(asset)
	require.NoError(t, c.Create(context.Background(), &donor))
	return donor
}

func TestCollectionCreateAndGet(t *testing.T) {
	collection, _ := newDonorCollection(t)

	created := mustCreateDonor(t, collection, "Sunrise Trust", storage.Descriptor{})
	require.NotEqual(t, uuid.Nil, created.ID)

	loaded, err := collection.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Trust", loaded.Name)
}

func TestCollectionGetUnknownIsNotFound(t *testing.T) {
	collection, _ := newDonorCollection(t)

	_, err := collection.Get(context.Background(), uuid.New())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCollectionListDegradesToEmptyOnFailure(t *testing.T) {
	// No schema at all: every query fails, reads still come back empty.
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	collection := New[models.Donor](conn, &recordingRemover{}, testLogger())
	records := collection.List(context.Background())
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestCollectionUpdateReplacedAssetIsRemoved(t *testing.T) {
	collection, remover := newDonorCollection(t)

	donor := mustCreateDonor(t, collection, "Old Logo", storage.Descriptor{URL: "/uploads/1-old.png"})

	updated, err := collection.Update(context.Background(), donor.ID, func(d *models.Donor) error {
		d.SetAssetDescriptor(storage.Descriptor{URL: "/uploads/2-new.png"})
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, updated.URL)
	assert.Equal(t, "/uploads/2-new.png", *updated.URL)

	require.Len(t, remover.removed, 1)
	assert.Equal(t, "/uploads/1-old.png", remover.removed[0].URL)
}

func TestCollectionUpdateReplacedCloudAssetDestroysOldProviderID(t *testing.T) {
	collection, remover := newDonorCollection(t)

	donor := mustCreateDonor(t, collection, "Cloud Logo", storage.Descriptor{
		URL:        "https://res.example.com/image/old.png",
		ProviderID: "cloud-old",
	})

	updated, err := collection.Update(context.Background(), donor.ID, func(d *models.Donor) error {
		d.SetAssetDescriptor(storage.Descriptor{
			URL:        "https://res.example.com/image/new.png",
			ProviderID: "cloud-new",
		})
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ProviderID)
	assert.Equal(t, "cloud-new", *updated.ProviderID)

	// The previous provider id is what a cloud destroy needs; it must be
	// handed to the remover exactly once.
	require.Len(t, remover.removed, 1)
	assert.Equal(t, "cloud-old", remover.removed[0].ProviderID)
	assert.Equal(t, "https://res.example.com/image/old.png", remover.removed[0].URL)
}

func TestCollectionUpdateWithoutAssetChangeKeepsAsset(t *testing.T) {
	collection, remover := newDonorCollection(t)

	donor := mustCreateDonor(t, collection, "Stable", storage.Descriptor{URL: "/uploads/1-keep.png"})

	_, err := collection.Update(context.Background(), donor.ID, func(d *models.Donor) error {
		d.Name = "Renamed"
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, remover.removed)
}

func TestCollectionDeleteRemovesAsset(t *testing.T) {
	collection, remover := newDonorCollection(t)

	donor := mustCreateDonor(t, collection, "Gone", storage.Descriptor{URL: "/uploads/1-gone.png", ProviderID: "pid-1"})

	require.NoError(t, collection.Delete(context.Background(), donor.ID))

	_, err := collection.Get(context.Background(), donor.ID)
	require.Error(t, err)

	require.Len(t, remover.removed, 1)
	assert.Equal(t, "pid-1", remover.removed[0].ProviderID)
}

func TestCollectionReorderAssignsPositionsByIndex(t *testing.T) {
	collection, _ := newDonorCollection(t)

	first := mustCreateDonor(t, collection, "first", storage.Descriptor{})
	second := mustCreateDonor(t, collection, "second", storage.Descriptor{})
	third := mustCreateDonor(t, collection, "third", storage.Descriptor{})

	require.NoError(t, collection.Reorder(context.Background(),
		[]uuid.UUID{third.ID, first.ID, second.ID}))

	listed := collection.List(context.Background())
	require.Len(t, listed, 3)
	assert.Equal(t, "third", listed[0].Name)
	assert.Equal(t, "first", listed[1].Name)
	assert.Equal(t, "second", listed[2].Name)
}

func TestCollectionReorderSkipsUnknownIDs(t *testing.T) {
	collection, _ := newDonorCollection(t)

	first := mustCreateDonor(t, collection, "first", storage.Descriptor{})
	second := mustCreateDonor(t, collection, "second", storage.Descriptor{})

	require.NoError(t, collection.Reorder(context.Background(),
		[]uuid.UUID{uuid.New(), second.ID, first.ID}))

	listed := collection.List(context.Background())
	require.Len(t, listed, 2)
	assert.Equal(t, "second", listed[0].Name)
	assert.Equal(t, "first", listed[1].Name)
}
