package uploads

import (
	"context"
	"fmt"

	pkgerrors "github.com/karunasetu/karuna-backend/pkg/errors"
	"github.com/karunasetu/karuna-backend/pkg/logger"
	"github.com/karunasetu/karuna-backend/pkg/storage"
)

// File is one buffered multipart upload.
type File struct {
	Name string
	Data []byte
}

// Store is the slice of the storage resolver the pipeline writes through.
type Store interface {
	Store(ctx context.Context, data []byte, filename string) (storage.Descriptor, error)
	Backend() storage.Backend
}

// Pipeline turns buffered uploads into stored asset descriptors. Files are
// stored in order and the batch aborts on the first failure; descriptors
// already written stay written, there is no rollback.
type Pipeline struct {
	store Store
	logg  *logger.Logger
}

func NewPipeline(store Store, logg *logger.Logger) *Pipeline {
	return &Pipeline{store: store, logg: logg}
}

// Ingest stores every file and returns descriptors in input order.
func (p *Pipeline) Ingest(ctx context.Context, files []File) ([]storage.Descriptor, error) {
	if len(files) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files uploaded")
	}

	descriptors := make([]storage.Descriptor, 0, len(files))
	for index, file := range files {
		descriptor, err := p.store.Store(ctx, file.Data, file.Name)
		if err != nil {
			ctx := p.logg.WithFields(ctx, map[string]any{
				"file":    file.Name,
				"stored":  len(descriptors),
				"backend": string(p.store.Backend()),
			})
			p.logg.Error(ctx, "upload batch aborted", err)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err,
				fmt.Sprintf("storing file %d of %d failed", index+1, len(files)))
		}
		descriptors = append(descriptors, descriptor)
	}
	return descriptors, nil
}

// IngestOne stores a single file.
func (p *Pipeline) IngestOne(ctx context.Context, file File) (storage.Descriptor, error) {
	descriptors, err := p.Ingest(ctx, []File{file})
	if err != nil {
		return storage.Descriptor{}, err
	}
	return descriptors[0], nil
}
