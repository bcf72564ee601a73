// Package file stores the saved cart as a JSON document on local disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/cart"
)

type CartHistory struct {
	path string
	mu   sync.Mutex
}

var _ cart.History = (*CartHistory)(nil)

func NewCartHistory(path string) *CartHistory {
	return &CartHistory{path: path}
}

// Save writes to a temp file in the same directory and renames it over the
// target, so readers never see a half written document.
func (h *CartHistory) Save(_ context.Context, s cart.Snapshot) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	dir := filepath.Dir(h.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(h.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), h.path)
}

func (h *CartHistory) Load(_ context.Context) (*cart.Snapshot, error) {
	h.mu.Lock()
	b, err := os.ReadFile(h.path)
	h.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return nil, cart.ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}

	var s cart.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", h.path, err)
	}
	return &s, nil
}

func (h *CartHistory) Clear(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	err := os.Remove(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
