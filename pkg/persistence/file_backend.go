package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ppods-be/pkg/appstate"
)

// FileBackend keeps one JSON file per key under Dir.
type FileBackend struct {
	Dir string
}

var _ appstate.Backend = (*FileBackend)(nil)

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{Dir: dir}
}

// maxReadablePrefix bounds the human-readable part of a file name.
const maxReadablePrefix = 64

// path maps key to <readable prefix>.<sha256 of key>.json. The prefix only helps
// operators; the digest keeps keys that sanitize alike in separate files and caps
// the name length.
func (f *FileBackend) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	if len(safe) > maxReadablePrefix {
		safe = safe[:maxReadablePrefix]
	}
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.Dir, safe+"."+hex.EncodeToString(sum[:])+".json")
}

func (f *FileBackend) Read(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appstate.ErrNotFound
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return data, nil
}

// Write replaces the file atomically so a crash never leaves a half-written blob.
func (f *FileBackend) Write(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.Dir, ".state-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		return fmt.Errorf("rename state file: %w", err)
	}
	return nil
}
