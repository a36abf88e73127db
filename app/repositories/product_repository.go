package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

type ProductRepository struct {
	*Store[models.Product, *models.Product]
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{NewStore[models.Product, *models.Product](db, StoreOptions{
		Entity:     "product",
		UniqueSlug: true,
		List: orm.Spec{
			SearchColumns: []string{"name", "title", "description"},
			Sorts:         orm.DefaultSorts,
			DefaultSort:   "created_at",
			Preload:       []string{"Category"},
		},
	})}
}

func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{r.Store.WithTx(tx)}
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string, v Visibility) (*models.Product, error) {
	return r.FindBy(ctx, "slug", slug, v, "Category")
}

func (r *ProductRepository) byCategory(ctx context.Context, categoryID uuid.UUID) *gorm.DB {
	return r.DB(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID)
}

// DeactivateByCategory switches off every active, non-deleted product of the
// category and flags it cascade_hidden so a restore-policy reactivation can
// find it again. Inactive and deleted products are left untouched. Returns
// the number of products switched off.
func (r *ProductRepository) DeactivateByCategory(ctx context.Context, categoryID uuid.UUID, actor string) (int64, error) {
	res := r.byCategory(ctx, categoryID).
		Where("is_deleted = ? AND is_active = ?", false, true).
		Updates(map[string]interface{}{
			"is_active":      false,
			"cascade_hidden": true,
			"updated_by":     actor,
		})
	if res.Error != nil {
		return 0, apperr.Dependency("product", "", "deactivate-by-category", res.Error)
	}
	return res.RowsAffected, nil
}

// ActivateByCategory switches on inactive, non-deleted products of the
// category. With restoreOnly false every such product is reactivated;
// otherwise only the ones a deactivation cascade had hidden.
func (r *ProductRepository) ActivateByCategory(ctx context.Context, categoryID uuid.UUID, actor string, restoreOnly bool) (int64, error) {
	q := r.byCategory(ctx, categoryID).Where("is_deleted = ? AND is_active = ?", false, false)
	if restoreOnly {
		q = q.Where("cascade_hidden = ?", true)
	}
	res := q.Updates(map[string]interface{}{
		"is_active":      true,
		"cascade_hidden": false,
		"updated_by":     actor,
	})
	if res.Error != nil {
		return 0, apperr.Dependency("product", "", "activate-by-category", res.Error)
	}
	return res.RowsAffected, nil
}

// SoftDeleteByCategory deletes every product of the category regardless of
// its current state.
func (r *ProductRepository) SoftDeleteByCategory(ctx context.Context, categoryID uuid.UUID, actor string) (int64, error) {
	res := r.byCategory(ctx, categoryID).Updates(map[string]interface{}{
		"is_deleted":     true,
		"is_active":      false,
		"cascade_hidden": false,
		"updated_by":     actor,
	})
	if res.Error != nil {
		return 0, apperr.Dependency("product", "", "soft-delete-by-category", res.Error)
	}
	return res.RowsAffected, nil
}

// CountVisibleUnder counts products that would leak into public listings
// under a halted category: active ones for an inactive category, non-deleted
// ones for a deleted category.
func (r *ProductRepository) CountVisibleUnder(ctx context.Context, c models.Category) (int64, error) {
	q := r.byCategory(ctx, c.ID).Where("is_deleted = ?", false)
	if !c.IsDeleted {
		q = q.Where("is_active = ?", true)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, apperr.Dependency("product", "", "count-by-category", err)
	}
	return n, nil
}

// DeleteByCategory physically removes every product of the category.
// Children must already be gone.
func (r *ProductRepository) DeleteByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	res := r.DB(ctx).Where("category_id = ?", categoryID).Delete(&models.Product{})
	if res.Error != nil {
		return 0, apperr.Dependency("product", "", "hard-delete-by-category", res.Error)
	}
	return res.RowsAffected, nil
}

// PublicDetail loads a publicly visible product by slug together with its
// public children. A product whose category is not public is NotFound.
func (r *ProductRepository) PublicDetail(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := Public.Scope(r.DB(ctx)).
		Where("slug = ?", slug).
		Scopes(r.underPublicCategory(ctx)).
		Preload("Category").
		Preload("Images", publicChildren).
		Preload("KeyFeatures", publicChildren).
		Preload("Specifications", publicChildren).
		Take(&p).Error
	if err != nil {
		return nil, apperr.FromDB("product", slug, "find", err)
	}
	return &p, nil
}

// AdminDetail loads a non-deleted product with every non-deleted child.
func (r *ProductRepository) AdminDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := Admin.Scope(r.DB(ctx)).
		Where("id = ?", id).
		Preload("Category").
		Preload("Images", liveChildren).
		Preload("KeyFeatures", liveChildren).
		Preload("Specifications", liveChildren).
		Take(&p).Error
	if err != nil {
		return nil, apperr.FromDB("product", id.String(), "find", err)
	}
	return &p, nil
}

func publicChildren(db *gorm.DB) *gorm.DB {
	return Public.Scope(db).Order("created_at ASC").Order("id ASC")
}

func liveChildren(db *gorm.DB) *gorm.DB {
	return Admin.Scope(db).Order("created_at ASC").Order("id ASC")
}

// IDsByCategory lists every product id of the category, deleted or not.
func (r *ProductRepository) IDsByCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.byCategory(ctx, categoryID).Pluck("id", &ids).Error; err != nil {
		return nil, apperr.Dependency("product", "", "ids-by-category", err)
	}
	return ids, nil
}

// ClearCascadeHidden drops the cascade marker after a manual status change.
func (r *ProductRepository) ClearCascadeHidden(ctx context.Context, id uuid.UUID) error {
	err := r.DB(ctx).Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("cascade_hidden", false).Error
	return apperr.FromDB("product", id.String(), "update", err)
}

// PublicByCategory lists public products of a category, most recent first
// unless q says otherwise. A category that is not public yields an empty
// page even if its products drifted out of sync.
func (r *ProductRepository) PublicByCategory(ctx context.Context, categoryID uuid.UUID, q orm.Query) (orm.Result[models.Product], error) {
	return r.listWith(ctx, q, Public, []func(*gorm.DB) *gorm.DB{publicProductChildren},
		WhereEq("category_id", categoryID), r.underPublicCategory(ctx))
}

func publicProductChildren(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", publicChildren).
		Preload("KeyFeatures", publicChildren).
		Preload("Specifications", publicChildren)
}

// underPublicCategory restricts a product query to public categories.
func (r *ProductRepository) underPublicCategory(ctx context.Context) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("category_id IN (?)", r.DB(ctx).Model(&models.Category{}).Select("id").
			Where("is_active = ? AND is_deleted = ?", true, false))
	}
}
