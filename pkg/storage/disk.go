// Package storage is the asset store for uploaded images.
//
// Two drivers are available:
//   - "local": files under STORAGE_LOCAL_ROOT served from STORAGE_URL
//   - "s3":    any S3-compatible bucket (AWS S3, MinIO, R2, Spaces)
//
// Catalog rows never hold binaries, only the {base_url, name} pair a disk
// hands back. Split and PathOf convert between the two.
//
//	disk := storage.NewManager(ctx).Default()
//	err := disk.Put(ctx, "products/front.png", file, "image/png")
//	base, name := storage.Split(disk, "products/front.png")
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrForeignAsset is returned by PathOf for URLs not served by the disk.
var ErrForeignAsset = errors.New("storage: asset does not belong to this disk")

// Disk is the driver interface.
type Disk interface {
	Name() string

	// Put writes r to key, replacing any existing object.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// Open returns a reader for key. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes key. A missing key is not an error.
	Delete(ctx context.Context, key string) error

	// BaseURL is the public URL prefix of the disk, without a trailing slash.
	BaseURL() string
}

// URL returns the public address of key on d.
func URL(d Disk, key string) string {
	return d.BaseURL() + "/" + strings.TrimLeft(key, "/")
}

// Split returns the base_url and name an asset row stores for key.
func Split(d Disk, key string) (baseURL, name string) {
	dir, file := path.Split(strings.TrimLeft(key, "/"))
	base := d.BaseURL()
	if dir = strings.TrimRight(dir, "/"); dir != "" {
		base += "/" + dir
	}
	return base, file
}

// PathOf maps a stored {base_url, name} pair back to a key on d.
func PathOf(d Disk, baseURL, name string) (string, error) {
	prefix := d.BaseURL()
	baseURL = strings.TrimRight(baseURL, "/")
	if name == "" || (baseURL != prefix && !strings.HasPrefix(baseURL, prefix+"/")) {
		return "", ErrForeignAsset
	}
	dir := strings.TrimPrefix(strings.TrimPrefix(baseURL, prefix), "/")
	key := path.Clean(path.Join(dir, name))
	if strings.HasPrefix(key, "..") || strings.HasPrefix(key, "/") {
		return "", ErrForeignAsset
	}
	return key, nil
}
