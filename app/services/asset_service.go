package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/storage"
)

// MaxAssetBytes caps a single upload.
const MaxAssetBytes = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// AssetService stores uploaded images on the configured disk and deletes
// them when their rows are purged.
type AssetService struct {
	disks *storage.Manager
}

func NewAssetService(disks *storage.Manager) *AssetService {
	return &AssetService{disks: disks}
}

// Upload is one file received from the admin UI.
type Upload struct {
	Folder       string
	OriginalName string
	Body         io.Reader
}

// Store sniffs the content type, writes the file under folder with a fresh
// name and returns the reference rows persist.
func (s *AssetService) Store(ctx context.Context, up Upload) (models.ImageRef, error) {
	data, err := io.ReadAll(io.LimitReader(up.Body, MaxAssetBytes+1))
	if err != nil {
		return models.ImageRef{}, apperr.Dependency("asset", "", "read", err)
	}
	switch {
	case len(data) == 0:
		return models.ImageRef{}, apperr.Field("asset", "file", "The file is empty.")
	case len(data) > MaxAssetBytes:
		return models.ImageRef{}, apperr.Field("asset", "file", "The file must not be larger than 5 MB.")
	}

	ctype := detectType(data[:min(len(data), 512)], up.OriginalName)
	ext, ok := allowedImageTypes[ctype]
	if !ok {
		return models.ImageRef{}, apperr.Field("asset", "file", "Only jpeg, png, webp, gif and svg images are accepted.")
	}

	key := path.Join(folderOf(up.Folder), uuid.NewString()+ext)
	disk := s.disks.Default()
	if err := disk.Put(ctx, key, bytes.NewReader(data), ctype); err != nil {
		return models.ImageRef{}, apperr.Dependency("asset", key, "upload", err)
	}

	base, name := storage.Split(disk, key)
	logger.InfoContext(ctx, "asset stored", "disk", disk.Name(), "key", key, "type", ctype)
	return models.ImageRef{BaseURL: base, Name: name, Type: ctype, OriginalName: path.Base(up.OriginalName)}, nil
}

// DeleteAll removes the binaries behind refs. Failures and references to
// foreign hosts are logged and skipped.
func (s *AssetService) DeleteAll(ctx context.Context, refs []models.ImageRef) {
	for _, ref := range refs {
		if ref.IsZero() {
			continue
		}
		disk, key, err := s.disks.Owner(ref.BaseURL, ref.Name)
		if err != nil {
			logger.DebugContext(ctx, "asset not managed here, skipped", "url", ref.URL())
			continue
		}
		if err := disk.Delete(ctx, key); err != nil {
			logger.WarnContext(ctx, "asset delete failed", "disk", disk.Name(), "key", key, "error", err)
		}
	}
}

func detectType(head []byte, name string) string {
	ctype := http.DetectContentType(head)
	if i := strings.Index(ctype, ";"); i >= 0 {
		ctype = ctype[:i]
	}
	// SVG sniffs as text/xml or text/plain.
	if strings.HasPrefix(ctype, "text/") && strings.EqualFold(path.Ext(name), ".svg") &&
		strings.Contains(strings.ToLower(string(head)), "<svg") {
		return "image/svg+xml"
	}
	return ctype
}

func folderOf(folder string) string {
	parts := strings.Split(strings.Trim(folder, "/"), "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := slug.Make(p); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return "uploads"
	}
	return path.Join(out...)
}
