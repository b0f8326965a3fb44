package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/karunasetu/karuna-backend/pkg/config"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// LocalStore persists assets on disk under a public uploads directory and
// serves them by root-relative URL. It is the fallback backend used whenever
// cloud credentials are absent.
type LocalStore struct {
	root      string
	urlPrefix string
}

func NewLocalStore(cfg config.UploadsConfig) *LocalStore {
	return &LocalStore{
		root:      cfg.Dir,
		urlPrefix: strings.TrimSuffix(cfg.URLPrefix, "/"),
	}
}

// Root returns the uploads directory, for static file serving.
func (s *LocalStore) Root() string {
	return s.root
}

// URLPrefix returns the public mount point of the uploads directory.
func (s *LocalStore) URLPrefix() string {
	return s.urlPrefix
}

// Store writes the buffer under a collision-resistant filename: timestamp
// prefix, whitespace collapsed to single dashes. The uploads directory is
// created lazily.
func (s *LocalStore) Store(data []byte, originalName string) (Descriptor, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return Descriptor{}, fmt.Errorf("creating uploads dir: %w", err)
	}

	base := sanitizeName(originalName)
	stamp := time.Now().UnixMilli()

	// O_EXCL loop guards against two uploads landing on the same
	// millisecond with the same name.
	for attempt := 0; ; attempt++ {
		name := fmt.Sprintf("%d-%s", stamp, base)
		if attempt > 0 {
			name = fmt.Sprintf("%d-%d-%s", stamp, attempt, base)
		}
		fullPath := filepath.Join(s.root, name)
		f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return Descriptor{}, fmt.Errorf("creating upload file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return Descriptor{}, fmt.Errorf("writing upload file: %w", err)
		}
		if err := f.Close(); err != nil {
			return Descriptor{}, fmt.Errorf("closing upload file: %w", err)
		}
		return Descriptor{URL: s.urlPrefix + "/" + name}, nil
	}
}

// Remove deletes the file a local-uploads URL points at. URLs outside the
// uploads prefix, or resolving outside the uploads root, are refused.
func (s *LocalStore) Remove(url string) RemovalResult {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return RemovalResult{Backend: BackendLocal, Err: fmt.Errorf("url %q is not under %s", url, s.urlPrefix)}
	}

	rel := strings.TrimPrefix(url, s.urlPrefix+"/")
	fullPath := filepath.Join(s.root, filepath.FromSlash(rel))

	// Path traversal guard: the resolved path must stay inside the root.
	relCheck, err := filepath.Rel(s.root, fullPath)
	if err != nil || relCheck == ".." || strings.HasPrefix(relCheck, ".."+string(filepath.Separator)) {
		return RemovalResult{Backend: BackendLocal, Err: fmt.Errorf("url %q escapes uploads root", url)}
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return RemovalResult{Backend: BackendLocal}
		}
		return RemovalResult{Backend: BackendLocal, Err: err}
	}
	return RemovalResult{Backend: BackendLocal, Removed: true}
}

func sanitizeName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == "/" {
		clean = "upload"
	}
	return whitespaceRe.ReplaceAllString(clean, "-")
}
