package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
)

// Manager holds the configured disks by name.
type Manager struct {
	mu       sync.RWMutex
	disks    map[string]Disk
	fallback string
}

// NewManager boots the local disk, and the S3 disk when S3_BUCKET is set.
// A broken S3 configuration is logged and leaves the disk unregistered; if
// STORAGE_DISK names it, local becomes the default.
func NewManager(ctx context.Context) *Manager {
	m := &Manager{disks: map[string]Disk{}, fallback: config.StorageDefault()}
	m.Register(NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()))

	if config.StorageS3Bucket() != "" {
		d, err := NewS3Disk(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			m.Register(d)
		}
	}

	if _, ok := m.disks[m.fallback]; !ok {
		logger.Warn("storage: default disk not configured, using local", "disk", m.fallback)
		m.fallback = "local"
	}
	return m
}

// NewManagerWith builds a manager over the given disks; the first is the
// default.
func NewManagerWith(disks ...Disk) *Manager {
	m := &Manager{disks: map[string]Disk{}}
	for i, d := range disks {
		if i == 0 {
			m.fallback = d.Name()
		}
		m.Register(d)
	}
	return m
}

func (m *Manager) Register(d Disk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disks[d.Name()] = d
}

// Use returns the named disk.
func (m *Manager) Use(name string) (Disk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the STORAGE_DISK disk.
func (m *Manager) Default() Disk {
	d, _ := m.Use(m.fallback)
	return d
}

// Owner finds the disk serving baseURL and the key of name on it.
func (m *Manager) Owner(baseURL, name string) (Disk, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.disks {
		if key, err := PathOf(d, baseURL, name); err == nil {
			return d, key, nil
		}
	}
	return nil, "", ErrForeignAsset
}
