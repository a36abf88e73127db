package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

type CategoryRepository struct {
	*Store[models.Category, *models.Category]
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{NewStore[models.Category, *models.Category](db, StoreOptions{
		Entity:     "category",
		UniqueSlug: true,
		List: orm.Spec{
			SearchColumns: []string{"name", "title"},
			Sorts:         orm.DefaultSorts,
			DefaultSort:   "created_at",
		},
	})}
}

func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{r.Store.WithTx(tx)}
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string, v Visibility) (*models.Category, error) {
	return r.FindBy(ctx, "slug", slug, v)
}

// Halted returns every category that is inactive or deleted. These are the
// categories whose products must not be publicly visible.
func (r *CategoryRepository) Halted(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.DB(ctx).
		Where("is_active = ? OR is_deleted = ?", false, true).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, apperr.Dependency("category", "", "list-halted", err)
	}
	return out, nil
}
