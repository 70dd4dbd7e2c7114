// Package artifact persists fitted model artifacts as versioned blobs.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/google/uuid"

	"github.com/fareflow/fareflow/internal/common"
	"github.com/fareflow/fareflow/internal/model"
)

// FileStore writes artifacts to a named file slot. Save publishes with a
// write-to-temp-then-rename discipline, so concurrent readers observe either
// the prior artifact or the new one, never a partial write.
type FileStore struct {
	path string
}

// NewFileStore creates a store publishing to the given file path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: artifact path", common.ErrMissingConfig)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Save serializes the artifact (snappy-compressed JSON) and atomically
// publishes it to the store's slot. The returned token locates the artifact
// for a later Load.
func (s *FileStore) Save(ctx context.Context, artifact *model.ModelArtifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if artifact == nil {
		return "", fmt.Errorf("%w: artifact is nil", common.ErrInvalidInput)
	}

	payload, err := json.Marshal(artifact)
	if err != nil {
		return "", fmt.Errorf("failed to encode artifact: %w", err)
	}
	compressed := snappy.Encode(nil, payload)

	// Temp file in the same directory so the rename stays on one filesystem.
	dir := filepath.Dir(s.path)
	tmp := filepath.Join(dir, fmt.Sprintf(".artifact-%s.tmp", uuid.NewString()))
	if err := os.WriteFile(tmp, compressed, 0600); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to publish artifact: %w", err)
	}

	return s.path, nil
}

// Load reads an artifact back from the given token and verifies its feature
// schema against the schema this build expects.
func (s *FileStore) Load(ctx context.Context, token string) (*model.ModelArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if token == "" {
		token = s.path
	}

	compressed, err := os.ReadFile(token)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("artifact %s: %w", token, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress artifact: %w", err)
	}

	var artifact model.ModelArtifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}

	if !artifact.Schema.Equal(model.CurrentSchema()) {
		return nil, fmt.Errorf("%w: artifact schema version %d, expected %d",
			common.ErrSchemaMismatch, artifact.Schema.Version, model.SchemaVersion)
	}

	return &artifact, nil
}

// Path returns the store's published slot location.
func (s *FileStore) Path() string {
	return s.path
}
