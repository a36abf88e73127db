// Package services holds the catalog's business rules. Controllers call
// services; services call repositories and never touch HTTP.
package services

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/cache"
	"github.com/shashiranjanraj/catalogue/pkg/event"
	"github.com/shashiranjanraj/catalogue/pkg/validate"
)

// Deps are the collaborators shared by every service. Events, Assets and
// Cache may be nil.
type Deps struct {
	DB     *gorm.DB
	Events *event.Bus
	Assets *AssetService
	Cache  cache.Store
}

// resolveSlug returns the explicit slug, or one derived from fallback.
func resolveSlug(entity string, explicit *string, fallback string) (string, error) {
	s := ""
	if explicit != nil {
		s = strings.TrimSpace(*explicit)
	} else {
		s = slug.Make(fallback)
	}
	if !validate.IsSlug(s) {
		return "", apperr.Field(entity, "slug", "could not derive a valid slug; provide one explicitly")
	}
	return s, nil
}

func changed(ctx context.Context, bus *event.Bus, entity, id, action string) {
	bus.Fire(ctx, event.Event{Name: event.CatalogChanged, Entity: entity, ID: id, Action: action})
}

// purgeAssets deletes the binaries behind refs after the rows are gone.
func purgeAssets(ctx context.Context, assets *AssetService, refs []models.ImageRef) {
	if assets == nil || len(refs) == 0 {
		return
	}
	assets.DeleteAll(ctx, refs)
}
