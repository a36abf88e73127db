package repositories

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
)

type (
	ProductImageRepository         = ChildStore[models.ProductImage, *models.ProductImage]
	ProductKeyFeatureRepository    = ChildStore[models.ProductKeyFeature, *models.ProductKeyFeature]
	ProductSpecificationRepository = ChildStore[models.ProductSpecification, *models.ProductSpecification]
	BlogTagRepository              = ChildStore[models.BlogTag, *models.BlogTag]
)

func productChild(entity string) ChildOptions {
	return ChildOptions{
		StoreOptions: StoreOptions{Entity: entity},
		ParentEntity: "product",
		ParentTable:  "products",
		ParentColumn: "product_id",
	}
}

func NewProductImageRepository(db *gorm.DB) *ProductImageRepository {
	return NewChildStore[models.ProductImage, *models.ProductImage](db, productChild("product image"))
}

func NewProductKeyFeatureRepository(db *gorm.DB) *ProductKeyFeatureRepository {
	return NewChildStore[models.ProductKeyFeature, *models.ProductKeyFeature](db, productChild("product key feature"))
}

func NewProductSpecificationRepository(db *gorm.DB) *ProductSpecificationRepository {
	return NewChildStore[models.ProductSpecification, *models.ProductSpecification](db, productChild("product specification"))
}

func NewBlogTagRepository(db *gorm.DB) *BlogTagRepository {
	return NewChildStore[models.BlogTag, *models.BlogTag](db, ChildOptions{
		StoreOptions: StoreOptions{Entity: "blog tag"},
		ParentEntity: "blog",
		ParentTable:  "blogs",
		ParentColumn: "blog_id",
	})
}
