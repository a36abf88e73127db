package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

// ProductService manages products. A product may only be active while its
// category is active; every write keeps that conjunction materialized on
// the product row.
type ProductService struct {
	repo    *repositories.ProductRepository
	cats    *repositories.CategoryRepository
	cascade *Coordinator
	deps    Deps
}

func NewProductService(d Deps, cascade *Coordinator) *ProductService {
	return &ProductService{
		repo:    repositories.NewProductRepository(d.DB),
		cats:    repositories.NewCategoryRepository(d.DB),
		cascade: cascade,
		deps:    d,
	}
}

// List pages through products. A non-nil categoryID restricts the listing
// to one category.
func (s *ProductService) List(ctx context.Context, q orm.Query, v repositories.Visibility, categoryID uuid.UUID) (orm.Result[models.Product], error) {
	if categoryID == uuid.Nil {
		return s.repo.List(ctx, q, v)
	}
	return s.repo.List(ctx, q, v, repositories.WhereEq("category_id", categoryID))
}

// Get returns the admin view of a product with its live children.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.AdminDetail(ctx, id)
}

// Create inserts a product. Under an inactive category the product is stored
// inactive and marked so that reactivating the category brings it back.
func (s *ProductService) Create(ctx context.Context, in *requests.CreateProduct, actor string) (*models.Product, error) {
	slug, err := resolveSlug("product", in.Slug, in.Name)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		CategoryID:     in.Category(),
		Name:           strings.TrimSpace(in.Name),
		Slug:           slug,
		Title:          in.Title,
		Description:    in.Description,
		IsWarranty:     in.IsWarranty,
		WarrantyPeriod: in.WarrantyPeriod,
	}

	err = s.tx(ctx, func(tx *gorm.DB) error {
		cat, err := s.parentCategory(ctx, s.cats.WithTx(tx), p.CategoryID)
		if err != nil {
			return err
		}
		want := in.Active()
		p.IsActive = want && cat.IsActive
		p.CascadeHidden = want && !cat.IsActive
		return s.repo.WithTx(tx).Create(ctx, p, actor)
	})
	if err != nil {
		return nil, err
	}
	changed(ctx, s.deps.Events, "product", p.ID.String(), "create")
	return p, nil
}

// Update applies a partial update. Moving a product to another category
// re-applies that category's status: an active product moved under an
// inactive category is switched off, and a product the cascade had hidden
// comes back when moved under an active one.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in *requests.UpdateProduct, actor string) (*models.Product, error) {
	fields := in.Fields()
	if len(fields) == 0 {
		return s.repo.AdminDetail(ctx, id)
	}

	err := s.tx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cur, err := repo.Find(ctx, id, repositories.Admin)
		if err != nil {
			return err
		}
		if err := checkWarranty(cur, fields); err != nil {
			return err
		}

		if target := in.Category(); target != uuid.Nil && target != cur.CategoryID {
			cat, err := s.parentCategory(ctx, s.cats.WithTx(tx), target)
			if err != nil {
				return err
			}
			switch {
			case !cat.IsActive && cur.IsActive:
				fields["is_active"] = false
				fields["cascade_hidden"] = true
			case cat.IsActive && cur.CascadeHidden:
				fields["is_active"] = true
				fields["cascade_hidden"] = false
			}
		}
		_, err = repo.Update(ctx, id, fields, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	changed(ctx, s.deps.Events, "product", id.String(), "update")
	return s.repo.AdminDetail(ctx, id)
}

// SetStatus toggles one product. Activation requires an active category.
// Any manual toggle clears the cascade marker, including switching off a
// product the cascade already hid, so the restore policy leaves it alone.
func (s *ProductService) SetStatus(ctx context.Context, id uuid.UUID, active bool, actor string) (*models.Product, error) {
	var (
		row   *models.Product
		moved bool
	)
	err := s.tx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if active {
			cur, err := repo.Find(ctx, id, repositories.Any)
			if err != nil {
				return err
			}
			if !cur.IsDeleted {
				cat, err := s.cats.WithTx(tx).Find(ctx, cur.CategoryID, repositories.Any)
				if err != nil {
					return err
				}
				if !cat.Public() {
					return apperr.InvalidState("product", id.String(), "toggle",
						"the product's category is "+string(cat.State())+"; activate the category first")
				}
			}
		}

		var err error
		row, moved, err = repo.ToggleStatus(ctx, id, active, actor)
		if err != nil || !row.CascadeHidden {
			return err
		}
		row.CascadeHidden = false
		return repo.ClearCascadeHidden(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if moved {
		changed(ctx, s.deps.Events, "product", id.String(), "status")
	}
	return row, nil
}

// Delete soft-deletes a product. Its children are left as they are.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	deleted, err := s.repo.SoftDelete(ctx, id, actor)
	if err != nil {
		return err
	}
	if deleted {
		changed(ctx, s.deps.Events, "product", id.String(), "delete")
	}
	return nil
}

func (s *ProductService) Purge(ctx context.Context, id uuid.UUID) error {
	return s.cascade.PurgeProduct(ctx, id)
}

// parentCategory loads the category a product is written under. A missing
// category is a validation error on category_id; a deleted one cannot take
// products.
func (s *ProductService) parentCategory(ctx context.Context, cats *repositories.CategoryRepository, id uuid.UUID) (*models.Category, error) {
	cat, err := cats.Find(ctx, id, repositories.Any)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.Field("product", "category_id", "The selected category does not exist.")
	}
	if err != nil {
		return nil, err
	}
	if cat.IsDeleted {
		return nil, apperr.InvalidState("category", id.String(), "attach", "a deleted category cannot take products")
	}
	return cat, nil
}

func (s *ProductService) tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := s.deps.DB.WithContext(ctx).Transaction(fn)
	return apperr.FromDB("product", "", "commit", err)
}

// checkWarranty rejects a warranty period on a product that has none.
func checkWarranty(cur *models.Product, fields map[string]interface{}) error {
	period, ok := fields["warranty_period"].(string)
	if !ok || period == "" {
		return nil
	}
	warranty := cur.IsWarranty
	if v, ok := fields["is_warranty"].(bool); ok {
		warranty = v
	}
	if !warranty {
		return apperr.Field("product", "warranty_period", "The warranty_period requires is_warranty to be true.")
	}
	return nil
}
