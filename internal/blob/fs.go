package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/technoflash/technoflash/internal/model"
)

// FSStore writes blobs under a local directory. It backs development runs and
// tests; the served URL is the configured base joined with the object key.
type FSStore struct { // implements Store
	dir           string
	publicBaseURL string
	limits        limits
}

// NewFSStore builds a filesystem store. A non-positive maxPayload or empty
// defaultFolder falls back to the package defaults.
func NewFSStore(dir, publicBaseURL string, maxPayload int64, defaultFolder string) *FSStore {
	return &FSStore{
		dir:           dir,
		publicBaseURL: publicBaseURL,
		limits:        newLimits(maxPayload, defaultFolder),
	}
}

// Dir returns the root directory objects are written under.
func (s *FSStore) Dir() string {
	return s.dir
}

func (s *FSStore) Put(ctx context.Context, req PutRequest) (PutResult, error) {
	key, mimeType, err := prepare(req, s.limits)
	if err != nil {
		return PutResult{}, err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return PutResult{}, fmt.Errorf("%w: %v", model.ErrStorage, err)
	}
	if err := os.WriteFile(target, req.Payload, 0o644); err != nil {
		return PutResult{}, fmt.Errorf("%w: %v", model.ErrStorage, err)
	}

	blobLogger.Info().
		Str("path", target).
		Int("size", len(req.Payload)).
		Msg("Stored object")

	return PutResult{
		URL:      publicURL(s.publicBaseURL, key),
		Path:     key,
		MimeType: mimeType,
		Size:     int64(len(req.Payload)),
	}, nil
}
