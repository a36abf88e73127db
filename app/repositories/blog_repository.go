package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

type BlogRepository struct {
	*Store[models.Blog, *models.Blog]
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{NewStore[models.Blog, *models.Blog](db, StoreOptions{
		Entity:     "blog",
		UniqueSlug: true,
		List: orm.Spec{
			SearchColumns: []string{"title", "description"},
			Sorts: map[string]string{
				"name":       "title ASC",
				"title":      "title ASC",
				"created_at": "created_at DESC",
			},
			DefaultSort: "created_at",
		},
	})}
}

func (r *BlogRepository) WithTx(tx *gorm.DB) *BlogRepository {
	return &BlogRepository{r.Store.WithTx(tx)}
}

func (r *BlogRepository) FindBySlug(ctx context.Context, slug string, v Visibility) (*models.Blog, error) {
	return r.FindBy(ctx, "slug", slug, v)
}

// PublicList pages through public blogs with their public tags.
func (r *BlogRepository) PublicList(ctx context.Context, q orm.Query) (orm.Result[models.Blog], error) {
	return r.listWith(ctx, q, Public, []func(*gorm.DB) *gorm.DB{func(db *gorm.DB) *gorm.DB {
		return db.Preload("Tags", publicChildren)
	}})
}

// PublicDetail loads a public blog by slug with its public tags.
func (r *BlogRepository) PublicDetail(ctx context.Context, slug string) (*models.Blog, error) {
	var b models.Blog
	err := Public.Scope(r.DB(ctx)).
		Where("slug = ?", slug).
		Preload("Tags", publicChildren).
		Take(&b).Error
	if err != nil {
		return nil, apperr.FromDB("blog", slug, "find", err)
	}
	return &b, nil
}

// AdminDetail loads a non-deleted blog with every non-deleted tag.
func (r *BlogRepository) AdminDetail(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var b models.Blog
	err := Admin.Scope(r.DB(ctx)).
		Where("id = ?", id).
		Preload("Tags", liveChildren).
		Take(&b).Error
	if err != nil {
		return nil, apperr.FromDB("blog", id.String(), "find", err)
	}
	return &b, nil
}
