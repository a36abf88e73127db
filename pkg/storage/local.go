package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalDisk stores files under a root directory.
type LocalDisk struct {
	root    string
	baseURL string
}

// NewLocalDisk roots the disk at root, made absolute against the working
// directory.
func NewLocalDisk(root, baseURL string) *LocalDisk {
	if !filepath.IsAbs(root) {
		cwd, _ := os.Getwd()
		root = filepath.Join(cwd, root)
	}
	return &LocalDisk{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *LocalDisk) Name() string    { return "local" }
func (d *LocalDisk) BaseURL() string { return d.baseURL }
func (d *LocalDisk) Root() string    { return d.root }

// abs resolves key under root and refuses keys that escape it.
func (d *LocalDisk) abs(key string) (string, error) {
	full := filepath.Join(d.root, filepath.FromSlash(strings.TrimLeft(key, "/")))
	if full != d.root && !strings.HasPrefix(full, d.root+string(filepath.Separator)) {
		return "", fmt.Errorf("storage/local: key %q escapes root", key)
	}
	return full, nil
}

func (d *LocalDisk) Put(_ context.Context, key string, r io.Reader, _ string) error {
	full, err := d.abs(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("storage/local: write %s: %w", key, err)
	}
	return f.Close()
}

func (d *LocalDisk) Open(_ context.Context, key string) (io.ReadCloser, error) {
	full, err := d.abs(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("storage/local: open %s: %w", key, err)
	}
	return f, nil
}

func (d *LocalDisk) Exists(_ context.Context, key string) (bool, error) {
	full, err := d.abs(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("storage/local: stat %s: %w", key, err)
	}
}

func (d *LocalDisk) Delete(_ context.Context, key string) error {
	full, err := d.abs(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", key, err)
	}
	return nil
}
