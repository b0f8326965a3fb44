package models

import "github.com/karunasetu/karuna-backend/pkg/storage"

// Asset is embedded in every model that carries an uploaded image. URL is
// what clients render; ProviderID is only set when the asset lives on the
// cloud backend and is required to delete it there.
type Asset struct {
	URL        *string `gorm:"column:url" json:"url,omitempty"`
	ProviderID *string `gorm:"column:provider_id" json:"publicId,omitempty"`
}

func (a Asset) AssetDescriptor() storage.Descriptor {
	var d storage.Descriptor
	if a.URL != nil {
		d.URL = *a.URL
	}
	if a.ProviderID != nil {
		d.ProviderID = *a.ProviderID
	}
	return d
}

func (a *Asset) SetAssetDescriptor(d storage.Descriptor) {
	if d.Empty() {
		a.URL = nil
		a.ProviderID = nil
		return
	}
	a.URL = &d.URL
	if d.ProviderID != "" {
		a.ProviderID = &d.ProviderID
	} else {
		a.ProviderID = nil
	}
}
