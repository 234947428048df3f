package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/avenford/workflow-backend/internal/application/port"
)

// LocalStore implements port.ObjectStore on the local filesystem. It is
// used in development and tests; production deployments run the S3 store.
type LocalStore struct {
	baseDir string
	baseURL string
	logger  *zap.Logger
}

// NewLocalStore creates a new LocalStore rooted at baseDir. Objects under
// baseDir are publicly addressed under baseURL.
func NewLocalStore(baseDir, baseURL string, logger *zap.Logger) port.ObjectStore {
	return &LocalStore{
		baseDir: baseDir,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Save writes content under the given key
func (s *LocalStore) Save(ctx context.Context, key string, content []byte) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create parent directories",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write object",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to write object: %w", err)
	}

	s.logger.Debug("Object saved",
		zap.String("key", key),
		zap.Int("size", len(content)))

	return nil
}

// Exists reports whether an object is present under the key
func (s *LocalStore) Exists(ctx context.Context, key string) bool {
	fullPath, err := s.resolve(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// Remove deletes the object under the key. Removing an absent object is
// not an error.
func (s *LocalStore) Remove(ctx context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(fullPath); err != nil {
		s.logger.Error("Failed to remove object",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to remove object: %w", err)
	}

	s.logger.Debug("Object removed", zap.String("key", key))
	return nil
}

// KeyFromURL derives the storage key referenced by a public file URL
func (s *LocalStore) KeyFromURL(fileURL string) (string, error) {
	return keyFromURL(s.baseURL, fileURL)
}

// resolve maps a key to an absolute path and rejects keys escaping baseDir
func (s *LocalStore) resolve(key string) (string, error) {
	fullPath := filepath.Join(s.baseDir, key)

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return "", fmt.Errorf("key escapes base directory: %s", key)
	}

	return absPath, nil
}
