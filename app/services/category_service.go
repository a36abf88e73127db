package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

// CategoryService manages categories. Status changes and deletion are
// delegated to the Coordinator so products follow their category.
type CategoryService struct {
	repo    *repositories.CategoryRepository
	cascade *Coordinator
	deps    Deps
}

func NewCategoryService(d Deps, cascade *Coordinator) *CategoryService {
	return &CategoryService{
		repo:    repositories.NewCategoryRepository(d.DB),
		cascade: cascade,
		deps:    d,
	}
}

func (s *CategoryService) List(ctx context.Context, q orm.Query, v repositories.Visibility) (orm.Result[models.Category], error) {
	return s.repo.List(ctx, q, v)
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.repo.Find(ctx, id, repositories.Admin)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.repo.FindBySlug(ctx, slug, repositories.Public)
}

func (s *CategoryService) Create(ctx context.Context, in *requests.CreateCategory, actor string) (*models.Category, error) {
	slug, err := resolveSlug("category", in.Slug, in.Name)
	if err != nil {
		return nil, err
	}

	cat := &models.Category{
		Status: models.Status{IsActive: in.Active()},
		Name:   strings.TrimSpace(in.Name),
		Title:  in.Title,
		Slug:   slug,
		Image:  in.Image.Ref(),
	}
	if err := s.repo.Create(ctx, cat, actor); err != nil {
		return nil, err
	}
	changed(ctx, s.deps.Events, "category", cat.ID.String(), "create")
	return cat, nil
}

// Update applies a partial update. A stored image that is replaced is
// deleted from the asset store after the row is saved.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in *requests.UpdateCategory, actor string) (*models.Category, error) {
	before, err := s.repo.Find(ctx, id, repositories.Admin)
	if err != nil {
		return nil, err
	}
	fields := in.Fields()
	if len(fields) == 0 {
		return before, nil
	}

	cat, err := s.repo.Update(ctx, id, fields, actor)
	if err != nil {
		return nil, err
	}
	if in.Image != nil && before.Image != cat.Image {
		purgeAssets(ctx, s.deps.Assets, []models.ImageRef{before.Image})
	}
	changed(ctx, s.deps.Events, "category", id.String(), "update")
	return cat, nil
}

func (s *CategoryService) SetStatus(ctx context.Context, id uuid.UUID, active bool, actor string) (*models.Category, error) {
	return s.cascade.SetCategoryStatus(ctx, id, active, actor)
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	return s.cascade.DeleteCategory(ctx, id, actor)
}

func (s *CategoryService) Purge(ctx context.Context, id uuid.UUID) error {
	return s.cascade.PurgeCategory(ctx, id)
}
