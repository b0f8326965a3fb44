package resources

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/karunasetu/karuna-backend/pkg/db"
	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
	"github.com/karunasetu/karuna-backend/pkg/storage"
)

// Entity is satisfied by every model managed through a Collection.
type Entity interface {
	PrimaryKey() uuid.UUID
	AssetDescriptor() storage.Descriptor
}

// AssetRemover is the slice of the storage resolver a collection needs for
// cleanup after deletes and asset replacements.
type AssetRemover interface {
	Remove(ctx context.Context, d storage.Descriptor) storage.RemovalResult
}

// Collection gives every asset-backed catalog (gallery images, donors,
// members, celebrations, products) the same persistence behavior: reads
// degrade to an empty result when the database is down, writes surface
// typed errors, and row mutations trigger best-effort cleanup of assets
// they orphan.
type Collection[T Entity] struct {
	conn     *gorm.DB
	assets   AssetRemover
	logg     *logger.Logger
	order    string
	preloads []string
}

// Option tweaks collection behavior at construction.
type Option[T Entity] func(*Collection[T])

// WithOrder sets the default ORDER BY clause applied by List.
func WithOrder[T Entity](clause string) Option[T] {
	return func(c *Collection[T]) {
		c.order = clause
	}
}

// WithPreload eager-loads the named associations on every read.
func WithPreload[T Entity](associations ...string) Option[T] {
	return func(c *Collection[T]) {
		c.preloads = append(c.preloads, associations...)
	}
}

func New[T Entity](conn *gorm.DB, assets AssetRemover, logg *logger.Logger, opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		conn:   conn,
		assets: assets,
		logg:   logg,
		order:  "created_at DESC",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collection[T]) db(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return c.conn
	}
	return c.conn.WithContext(ctx)
}

func (c *Collection[T]) read(ctx context.Context) *gorm.DB {
	tx := c.db(ctx)
	for _, association := range c.preloads {
		tx = tx.Preload(association)
	}
	return tx
}

// List returns all records in the collection's default order. Persistence
// failures are logged and reported as an empty slice so public pages render
// with whatever is available.
func (c *Collection[T]) List(ctx context.Context) []T {
	return c.ListWhere(ctx, nil)
}

// ListWhere is List with an optional filter.
func (c *Collection[T]) ListWhere(ctx context.Context, query any, args ...any) []T {
	records := make([]T, 0)
	tx := c.read(ctx).Order(c.order)
	if query != nil {
		tx = tx.Where(query, args...)
	}
	if err := tx.Find(&records).Error; err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "collection.list.degraded")
		return make([]T, 0)
	}
	return records
}

// Get loads one record by id.
func (c *Collection[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var record T
	if err := c.read(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, c.translate(err)
	}
	return &record, nil
}

// Create inserts the record.
func (c *Collection[T]) Create(ctx context.Context, record *T) error {
	if err := c.db(ctx).Create(record).Error; err != nil {
		return c.translate(err)
	}
	return nil
}

// Update loads the record, applies the mutation, and saves it. When the
// mutation swapped the record's asset, the previous asset is removed
// best-effort after the row commits.
func (c *Collection[T]) Update(ctx context.Context, id uuid.UUID, mutate func(*T) error) (*T, error) {
	record, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := (*record).AssetDescriptor()
	if err := mutate(record); err != nil {
		return nil, err
	}
	// Associations are read-only here; only the record's own row is saved.
	if err := c.db(ctx).Omit(clause.Associations).Save(record).Error; err != nil {
		return nil, c.translate(err)
	}

	if current := (*record).AssetDescriptor(); previous != current && !previous.Empty() {
		c.assets.Remove(ctx, previous)
	}
	return record, nil
}

// Delete removes the asset best-effort, then the row. A row delete failing
// after the asset went leaves an asset-less record behind.
func (c *Collection[T]) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	if asset := (*record).AssetDescriptor(); !asset.Empty() {
		c.assets.Remove(ctx, asset)
	}
	if err := c.db(ctx).Delete(record).Error; err != nil {
		return c.translate(err)
	}
	return nil
}

// Reorder assigns each id the position of its index in the list. Updates run
// concurrently and unknown ids are skipped; the aggregate error carries every
// failed update.
func (c *Collection[T]) Reorder(ctx context.Context, orderedIDs []uuid.UUID) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		combined error
	)

	for index, id := range orderedIDs {
		wg.Add(1)
		go func(index int, id uuid.UUID) {
			defer wg.Done()
			err := c.db(ctx).
				Model(new(T)).
				Where("id = ?", id).
				Update("position", index).Error
			if err != nil {
				mu.Lock()
				combined = multierr.Append(combined, err)
				mu.Unlock()
			}
		}(index, id)
	}
	wg.Wait()

	if combined != nil {
		return c.translate(combined)
	}
	return nil
}

func (c *Collection[T]) translate(err error) error {
	switch {
	case db.IsNotFound(err):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "record not found")
	case db.IsUnavailable(err):
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage is unavailable")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persistence failure")
	}
}
