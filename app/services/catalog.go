package services

import (
	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/auth"
)

type (
	ImageService         = ChildService[models.ProductImage, *models.ProductImage]
	KeyFeatureService    = ChildService[models.ProductKeyFeature, *models.ProductKeyFeature]
	SpecificationService = ChildService[models.ProductSpecification, *models.ProductSpecification]
	BlogTagService       = ChildService[models.BlogTag, *models.BlogTag]
)

// Catalog bundles every service over one set of dependencies.
type Catalog struct {
	Cascade        *Coordinator
	Categories     *CategoryService
	Products       *ProductService
	Images         *ImageService
	KeyFeatures    *KeyFeatureService
	Specifications *SpecificationService
	Blogs          *BlogService
	BlogTags       *BlogTagService
	Inbox          *InboxService
	Public         *PublicService
	Auth           *AuthService
	Assets         *AssetService
}

func NewCatalog(d Deps, tokens *auth.Manager, opts ...CoordinatorOption) *Catalog {
	cascade := NewCoordinator(d, opts...)

	images := DefaultChildPolicy[*models.ProductImage]()
	images.MaxActive = config.MaxProductImages()
	images.Assets = func(img *models.ProductImage) []models.ImageRef {
		return []models.ImageRef{img.Image}
	}

	return &Catalog{
		Cascade:    cascade,
		Categories: NewCategoryService(d, cascade),
		Products:   NewProductService(d, cascade),
		Images:     NewChildService(d, repositories.NewProductImageRepository(d.DB), images),
		KeyFeatures: NewChildService(d, repositories.NewProductKeyFeatureRepository(d.DB),
			DefaultChildPolicy[*models.ProductKeyFeature]()),
		Specifications: NewChildService(d, repositories.NewProductSpecificationRepository(d.DB),
			DefaultChildPolicy[*models.ProductSpecification]()),
		Blogs:    NewBlogService(d),
		BlogTags: NewChildService(d, repositories.NewBlogTagRepository(d.DB), DefaultChildPolicy[*models.BlogTag]()),
		Inbox:    NewInboxService(d),
		Public:   NewPublicService(d),
		Auth:     NewAuthService(d, tokens),
		Assets:   d.Assets,
	}
}
