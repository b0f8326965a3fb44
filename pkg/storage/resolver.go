package storage

import (
	"context"
	"errors"

	"github.com/karunasetu/karuna-backend/pkg/config"
	"github.com/karunasetu/karuna-backend/pkg/logger"
	"github.com/karunasetu/karuna-backend/pkg/storage/cloudinary"
)

var errCloudUnconfigured = errors.New("cloud storage credentials are not configured")

type cloudStore interface {
	Upload(ctx context.Context, data []byte, filename, folder string) (secureURL, publicID string, err error)
	Destroy(ctx context.Context, publicID string) error
}

// Resolver picks the storage backend per call: cloud when the credential
// triple is fully configured, local disk otherwise. The check is repeated on
// every call so a deployment can grow or lose cloud credentials without a
// restart.
type Resolver struct {
	local  *LocalStore
	folder string
	creds  func() config.CloudinaryCredentials
	dial   func(config.CloudinaryCredentials) cloudStore
	logg   *logger.Logger
}

func NewResolver(cfg config.CloudinaryConfig, local *LocalStore, logg *logger.Logger) *Resolver {
	return &Resolver{
		local:  local,
		folder: cfg.Folder,
		creds:  config.CloudinaryCredentialsFromEnv,
		dial: func(creds config.CloudinaryCredentials) cloudStore {
			return cloudinary.NewClient(creds)
		},
		logg: logg,
	}
}

// Backend reports which backend the next Store call would use.
func (r *Resolver) Backend() Backend {
	if r.creds().Configured() {
		return BackendCloud
	}
	return BackendLocal
}

// Local exposes the disk store, for static serving wiring.
func (r *Resolver) Local() *LocalStore {
	return r.local
}

// Store persists the buffer through whichever backend is currently
// configured and returns its descriptor.
func (r *Resolver) Store(ctx context.Context, data []byte, filename string) (Descriptor, error) {
	creds := r.creds()
	if !creds.Configured() {
		return r.local.Store(data, filename)
	}

	url, publicID, err := r.dial(creds).Upload(ctx, data, filename, r.folder)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{URL: url, ProviderID: publicID}, nil
}

// Remove deletes the asset behind the descriptor, best-effort. A provider id
// routes to the cloud store; otherwise a local-uploads URL is resolved back
// to disk. Failures are logged and reported in the result, never propagated.
func (r *Resolver) Remove(ctx context.Context, d Descriptor) RemovalResult {
	var result RemovalResult

	switch {
	case d.Empty():
		return result
	case d.ProviderID != "":
		result.Backend = BackendCloud
		creds := r.creds()
		if !creds.Configured() {
			result.Err = errCloudUnconfigured
		} else if err := r.dial(creds).Destroy(ctx, d.ProviderID); err != nil {
			result.Err = err
		} else {
			result.Removed = true
		}
	default:
		result = r.local.Remove(d.URL)
	}

	if r.logg != nil {
		fields := map[string]any{
			"backend":     string(result.Backend),
			"removed":     result.Removed,
			"asset_url":   d.URL,
			"provider_id": d.ProviderID,
		}
		ctx := r.logg.WithFields(ctx, fields)
		if result.Err != nil {
			r.logg.Warn(r.logg.WithField(ctx, "error", result.Err.Error()), "asset.cleanup.failed")
		} else {
			r.logg.Info(ctx, "asset.cleanup.done")
		}
	}

	return result
}
