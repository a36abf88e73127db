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

type BlogService struct {
	repo *repositories.BlogRepository
	tags *repositories.BlogTagRepository
	deps Deps
}

func NewBlogService(d Deps) *BlogService {
	return &BlogService{
		repo: repositories.NewBlogRepository(d.DB),
		tags: repositories.NewBlogTagRepository(d.DB),
		deps: d,
	}
}

func (s *BlogService) List(ctx context.Context, q orm.Query, v repositories.Visibility) (orm.Result[models.Blog], error) {
	return s.repo.List(ctx, q, v)
}

func (s *BlogService) Get(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	return s.repo.AdminDetail(ctx, id)
}

// Create stores the blog and its initial tags in one transaction.
func (s *BlogService) Create(ctx context.Context, in *requests.CreateBlog, actor string) (*models.Blog, error) {
	slug, err := resolveSlug("blog", in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	b := &models.Blog{
		Status:      models.Status{IsActive: in.Active()},
		Title:       strings.TrimSpace(in.Title),
		Slug:        slug,
		Description: in.Description,
		Image:       in.Image.Ref(),
	}

	err = s.tx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, b, actor); err != nil {
			return err
		}
		tags := s.tags.WithTx(tx)
		for _, name := range in.TagNames() {
			tag := &models.BlogTag{Status: models.Status{IsActive: true}, BlogID: b.ID, Name: name}
			if err := tags.Create(ctx, tag, actor); err != nil {
				return err
			}
			b.Tags = append(b.Tags, *tag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	changed(ctx, s.deps.Events, "blog", b.ID.String(), "create")
	return b, nil
}

func (s *BlogService) Update(ctx context.Context, id uuid.UUID, in *requests.UpdateBlog, actor string) (*models.Blog, error) {
	before, err := s.repo.Find(ctx, id, repositories.Admin)
	if err != nil {
		return nil, err
	}
	if fields := in.Fields(); len(fields) > 0 {
		after, err := s.repo.Update(ctx, id, fields, actor)
		if err != nil {
			return nil, err
		}
		if in.Image != nil && before.Image != after.Image {
			purgeAssets(ctx, s.deps.Assets, []models.ImageRef{before.Image})
		}
		changed(ctx, s.deps.Events, "blog", id.String(), "update")
	}
	return s.repo.AdminDetail(ctx, id)
}

func (s *BlogService) SetStatus(ctx context.Context, id uuid.UUID, active bool, actor string) (*models.Blog, error) {
	row, moved, err := s.repo.ToggleStatus(ctx, id, active, actor)
	if err != nil {
		return nil, err
	}
	if moved {
		changed(ctx, s.deps.Events, "blog", id.String(), "status")
	}
	return row, nil
}

func (s *BlogService) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	deleted, err := s.repo.SoftDelete(ctx, id, actor)
	if err != nil {
		return err
	}
	if deleted {
		changed(ctx, s.deps.Events, "blog", id.String(), "delete")
	}
	return nil
}

// Purge removes the blog with its tags, then its image.
func (s *BlogService) Purge(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.Find(ctx, id, repositories.Any)
	if err != nil {
		return err
	}
	err = s.tx(ctx, func(tx *gorm.DB) error {
		if _, err := s.tags.WithTx(tx).DeleteByParents(ctx, id); err != nil {
			return err
		}
		return s.repo.WithTx(tx).HardDelete(ctx, id)
	})
	if err != nil {
		return err
	}
	changed(ctx, s.deps.Events, "blog", id.String(), "purge")
	purgeAssets(ctx, s.deps.Assets, []models.ImageRef{b.Image})
	return nil
}

func (s *BlogService) tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := s.deps.DB.WithContext(ctx).Transaction(fn)
	return apperr.FromDB("blog", "", "commit", err)
}
