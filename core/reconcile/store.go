package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrStoreMissing is returned when a store file does not exist.
var ErrStoreMissing = errors.New("store file missing")

// LoadSnapshot parses the adapter's file. A missing file yields an empty snapshot.
func LoadSnapshot(a Adapter) (Snapshot, error) {
	data, err := os.ReadFile(a.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("failed to read %s store: %w", a.Name(), err)
	}
	return a.Parse(data), nil
}

// ApplyDelta rewrites the adapter's file with delta and returns the number of
// records inserted. A missing file is never created; it yields ErrStoreMissing.
// The file is only replaced when its content actually changes.
func ApplyDelta(a Adapter, delta Delta) (int, error) {
	path := a.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrStoreMissing, path)
		}
		return 0, fmt.Errorf("failed to read %s store: %w", a.Name(), err)
	}

	out, applied := a.Rewrite(data, delta)
	if applied == 0 || string(out) == string(data) {
		return 0, nil
	}

	if err := writeFileAtomic(path, out); err != nil {
		return 0, fmt.Errorf("failed to write %s store: %w", a.Name(), err)
	}
	return applied, nil
}

// HashFile returns the hex SHA-256 of a file's bytes, or "" when it does not exist.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// writeFileAtomic replaces path via a temp file in the same directory, keeping the
// original permissions.
func writeFileAtomic(path string, data []byte) (err error) {
	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
