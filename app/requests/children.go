package requests

import (
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/catalogue/app/models"
)

type CreateProductImage struct {
	Image    `validate:"nested"`
	IsActive *bool `json:"is_active"`
}

func (r *CreateProductImage) Model(productID uuid.UUID) *models.ProductImage {
	return &models.ProductImage{
		Status:    models.Status{IsActive: activeOrDefault(r.IsActive)},
		ProductID: productID,
		Image:     r.Image.Ref(),
	}
}

// UpdateProductImage replaces the stored reference.
type UpdateProductImage struct {
	Image `validate:"nested"`
}

func (r *UpdateProductImage) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	r.Image.columns(out)
	return out
}

type CreateKeyFeature struct {
	Name     string `json:"name"      validate:"required,max=255"`
	IsActive *bool  `json:"is_active"`
}

func (r *CreateKeyFeature) Model(productID uuid.UUID) *models.ProductKeyFeature {
	return &models.ProductKeyFeature{
		Status:    models.Status{IsActive: activeOrDefault(r.IsActive)},
		ProductID: productID,
		Name:      strings.TrimSpace(r.Name),
	}
}

type UpdateKeyFeature struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (r *UpdateKeyFeature) Fields() map[string]interface{} {
	return map[string]interface{}{"name": strings.TrimSpace(r.Name)}
}

type CreateSpecification struct {
	Key      string `json:"specification_key"   validate:"required,max=255"`
	Value    string `json:"specification_value" validate:"required,max=1000"`
	IsActive *bool  `json:"is_active"`
}

func (r *CreateSpecification) Model(productID uuid.UUID) *models.ProductSpecification {
	return &models.ProductSpecification{
		Status:             models.Status{IsActive: activeOrDefault(r.IsActive)},
		ProductID:          productID,
		SpecificationKey:   strings.TrimSpace(r.Key),
		SpecificationValue: strings.TrimSpace(r.Value),
	}
}

type UpdateSpecification struct {
	Key   *string `json:"specification_key"   validate:"nullable,max=255"`
	Value *string `json:"specification_value" validate:"nullable,max=1000"`
}

func (r *UpdateSpecification) Check() map[string]string {
	return blankCheck(map[string]*string{"specification_key": r.Key, "specification_value": r.Value})
}

func (r *UpdateSpecification) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	if v := trimmed(r.Key); v != nil {
		out["specification_key"] = *v
	}
	if v := trimmed(r.Value); v != nil {
		out["specification_value"] = *v
	}
	return out
}

type CreateBlogTag struct {
	Name     string `json:"name"      validate:"required,max=100"`
	IsActive *bool  `json:"is_active"`
}

func (r *CreateBlogTag) Model(blogID uuid.UUID) *models.BlogTag {
	return &models.BlogTag{
		Status: models.Status{IsActive: activeOrDefault(r.IsActive)},
		BlogID: blogID,
		Name:   strings.TrimSpace(r.Name),
	}
}

type UpdateBlogTag struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (r *UpdateBlogTag) Fields() map[string]interface{} {
	return map[string]interface{}{"name": strings.TrimSpace(r.Name)}
}
