package kv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Dir stores each key in its own "<key>.json" file of a folder, so that
// the data stays human-readable and git-friendly.
type Dir struct {
	folder string
}

// OpenDir opens a folder as a store, creating it if needed.
func OpenDir(folder string) (*Dir, error) {
	if folder == "" {
		return nil, errors.New("store folder is missing")
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create store folder %q: %w", folder, err)
	}
	return &Dir{folder: folder}, nil
}

func (d *Dir) filename(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(d.folder, key+".json"), nil
}

func (d *Dir) Load(key string) ([]byte, bool, error) {
	filename, err := d.filename(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cannot read %q: %w", filename, err)
	}
	return data, true, nil
}

// Save writes to a temporary file renamed over the previous one, so a crash
// never leaves a half written snapshot.
func (d *Dir) Save(key string, data []byte) error {
	filename, err := d.filename(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.folder, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create temporary file for %q: %w", filename, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("cannot replace %q: %w", filename, err)
	}
	return nil
}

func (d *Dir) Remove(key string) error {
	filename, err := d.filename(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot delete %q: %w", filename, err)
	}
	return nil
}

func (d *Dir) Close() error { return nil }
