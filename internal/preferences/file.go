package preferences

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// FileBackend stores preferences as one JSON object on disk. Writes go to a temporary
// file that is renamed over the document, so readers never see a partial write.
type FileBackend struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	logger *zap.Logger
}

// NewFileBackend loads path if it exists. A corrupt document is logged and replaced on the
// next write.
func NewFileBackend(path string, logger *zap.Logger) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	b := &FileBackend{
		path:   path,
		values: make(map[string]string),
		logger: logger,
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return b, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read preferences file: %w", err)
	}

	if len(data) > 0 {
		if err := sonic.Unmarshal(data, &b.values); err != nil {
			logger.Warn("Preferences file is corrupt, starting empty",
				zap.String("path", path),
				zap.Error(err))
			b.values = make(map[string]string)
		}
	}
	if b.values == nil {
		b.values = make(map[string]string)
	}
	return b, nil
}

func (b *FileBackend) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[key]
	return v, ok, nil
}

func (b *FileBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	previous, existed := b.values[key]
	b.values[key] = value
	if err := b.flushLocked(); err != nil {
		if existed {
			b.values[key] = previous
		} else {
			delete(b.values, key)
		}
		return err
	}
	return nil
}

func (b *FileBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	previous, existed := b.values[key]
	if !existed {
		return nil
	}
	delete(b.values, key)
	if err := b.flushLocked(); err != nil {
		b.values[key] = previous
		return err
	}
	return nil
}

func (b *FileBackend) flushLocked() error {
	data, err := sonic.Marshal(b.values)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".preferences-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close preferences: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("failed to replace preferences file: %w", err)
	}
	return nil
}
