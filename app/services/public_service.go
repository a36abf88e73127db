package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/cache"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

// PublicService serves the anonymous site. Every read only sees active,
// non-deleted rows and is cached until the next catalog write.
type PublicService struct {
	cats     *repositories.CategoryRepository
	products *repositories.ProductRepository
	blogs    *repositories.BlogRepository
	cache    cache.Store
	ttl      time.Duration
}

func NewPublicService(d Deps) *PublicService {
	store := d.Cache
	if store == nil {
		store = cache.Noop{}
	}
	return &PublicService{
		cats:     repositories.NewCategoryRepository(d.DB),
		products: repositories.NewProductRepository(d.DB),
		blogs:    repositories.NewBlogRepository(d.DB),
		cache:    store,
		ttl:      time.Duration(config.CacheTTLSeconds()) * time.Second,
	}
}

func (s *PublicService) Categories(ctx context.Context, q orm.Query) (orm.Result[models.Category], error) {
	return cache.Remember(ctx, s.cache, cache.Key("categories", "list", cache.Hash(q)), s.ttl,
		func() (orm.Result[models.Category], error) {
			return s.cats.List(ctx, q, repositories.Public)
		})
}

func (s *PublicService) Category(ctx context.Context, slug string) (*models.Category, error) {
	return cache.Remember(ctx, s.cache, cache.Key("categories", "show", slug), s.ttl,
		func() (*models.Category, error) {
			return s.cats.FindBySlug(ctx, slug, repositories.Public)
		})
}

// ProductsByCategory lists the public products of the category with slug.
// An unknown or deleted category is NotFound; an inactive one yields an
// empty page.
func (s *PublicService) ProductsByCategory(ctx context.Context, slug string, q orm.Query) (orm.Result[models.Product], error) {
	return cache.Remember(ctx, s.cache, cache.Key("categories", "products", slug, cache.Hash(q)), s.ttl,
		func() (orm.Result[models.Product], error) {
			cat, err := s.cats.FindBySlug(ctx, slug, repositories.Admin)
			if err != nil {
				return orm.Result[models.Product]{}, err
			}
			return s.products.PublicByCategory(ctx, cat.ID, q)
		})
}

func (s *PublicService) Product(ctx context.Context, slug string) (*models.Product, error) {
	return cache.Remember(ctx, s.cache, cache.Key("products", "show", slug), s.ttl,
		func() (*models.Product, error) {
			return s.products.PublicDetail(ctx, slug)
		})
}

func (s *PublicService) Blogs(ctx context.Context, q orm.Query) (orm.Result[models.Blog], error) {
	return cache.Remember(ctx, s.cache, cache.Key("blogs", "list", cache.Hash(q)), s.ttl,
		func() (orm.Result[models.Blog], error) {
			return s.blogs.PublicList(ctx, q)
		})
}

func (s *PublicService) Blog(ctx context.Context, slug string) (*models.Blog, error) {
	return cache.Remember(ctx, s.cache, cache.Key("blogs", "show", slug), s.ttl,
		func() (*models.Blog, error) {
			return s.blogs.PublicDetail(ctx, slug)
		})
}
