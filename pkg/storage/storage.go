package storage

// Backend identifies where an asset lives.
type Backend string

const (
	BackendCloud Backend = "cloud"
	BackendLocal Backend = "local"
)

// Descriptor is the handle persisted alongside a record for its asset. URL is
// always set for a stored asset; ProviderID only when the cloud backend held
// it, and it is what a later delete needs.
type Descriptor struct {
	URL        string `json:"url"`
	ProviderID string `json:"providerId,omitempty"`
}

func (d Descriptor) Empty() bool {
	return d.URL == "" && d.ProviderID == ""
}

// RemovalResult reports the outcome of a best-effort asset removal. Failures
// are carried here and logged, never returned as errors: cleanup must not
// block the record mutation that triggered it.
type RemovalResult struct {
	Backend Backend
	Removed bool
	Err     error
}
