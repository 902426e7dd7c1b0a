package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores blobs on disk under root, for development without a
// remote object store.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root %q: %w", root, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	return &Local{root: absRoot}, nil
}

func (l *Local) Root() string {
	return l.root
}

// abs maps key to a path under root and rejects keys that escape it.
func (l *Local) abs(key string) (string, error) {
	joined := filepath.Join(l.root, filepath.Clean(filepath.FromSlash(key)))
	rel, err := filepath.Rel(l.root, joined)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("key %q escapes storage root", key)
	}
	return joined, nil
}

// Put streams body to a temp file and renames it over the destination.
func (l *Local) Put(ctx context.Context, key string, body io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dest, err := l.abs(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("mkdir %q: %w", filepath.Dir(dest), err)
	}

	// Each writer gets its own temp file; concurrent writers to one key race
	// only on the rename, and the last rename wins.
	f, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("create tmp for %q: %w", key, err)
	}
	tmp := f.Name()
	if err := f.Chmod(0o640); err != nil {
		f.Close()
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("chmod tmp for %q: %w", key, err)
	}

	_, werr := io.Copy(f, body)
	cerr := f.Close()
	if werr != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("write %q: %w", key, werr)
	}
	if cerr != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("close %q: %w", key, cerr)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("rename %q: %w", key, err)
	}
	return nil
}
