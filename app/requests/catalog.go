package requests

import (
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/catalogue/pkg/collection"
)

type CreateCategory struct {
	Name     string  `json:"name"      validate:"required,max=255"`
	Title    *string `json:"title"     validate:"nullable,max=255"`
	Slug     *string `json:"slug"      validate:"nullable,slug,max=255"`
	Image    *Image  `json:"image"     validate:"nested"`
	IsActive *bool   `json:"is_active"`
}

func (r *CreateCategory) Active() bool { return activeOrDefault(r.IsActive) }

// UpdateCategory is a partial update; absent fields are left alone.
// Status changes go through the status endpoint so the cascade runs.
type UpdateCategory struct {
	Name  *string `json:"name"  validate:"nullable,max=255"`
	Title *string `json:"title" validate:"nullable,max=255"`
	Slug  *string `json:"slug"  validate:"nullable,slug,max=255"`
	Image *Image  `json:"image" validate:"nested"`
}

func (r *UpdateCategory) Check() map[string]string {
	return blankCheck(map[string]*string{"name": r.Name, "slug": r.Slug})
}

// Fields returns the column updates.
func (r *UpdateCategory) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	if v := trimmed(r.Name); v != nil {
		out["name"] = *v
	}
	if v := trimmed(r.Title); v != nil {
		out["title"] = *v
	}
	if r.Slug != nil {
		out["slug"] = *r.Slug
	}
	if r.Image != nil {
		r.Image.columns(out)
	}
	return out
}

type CreateProduct struct {
	CategoryID     string  `json:"category_id"     validate:"required,uuid"`
	Name           string  `json:"name"            validate:"required,max=255"`
	Slug           *string `json:"slug"            validate:"nullable,slug,max=255"`
	Title          *string `json:"title"           validate:"nullable,max=255"`
	Description    *string `json:"description"     validate:"nullable,max=20000"`
	IsWarranty     bool    `json:"is_warranty"`
	WarrantyPeriod *string `json:"warranty_period" validate:"nullable,max=100"`
	IsActive       *bool   `json:"is_active"`
}

func (r *CreateProduct) Category() uuid.UUID {
	id, _ := uuid.Parse(r.CategoryID)
	return id
}

func (r *CreateProduct) Active() bool { return activeOrDefault(r.IsActive) }

// Check rejects a warranty period on a product without warranty.
func (r *CreateProduct) Check() map[string]string {
	errs := map[string]string{}
	if !r.IsWarranty && r.WarrantyPeriod != nil && strings.TrimSpace(*r.WarrantyPeriod) != "" {
		errs["warranty_period"] = "The warranty_period requires is_warranty to be true."
	}
	return errs
}

type UpdateProduct struct {
	CategoryID     *string `json:"category_id"     validate:"nullable,uuid"`
	Name           *string `json:"name"            validate:"nullable,max=255"`
	Slug           *string `json:"slug"            validate:"nullable,slug,max=255"`
	Title          *string `json:"title"           validate:"nullable,max=255"`
	Description    *string `json:"description"     validate:"nullable,max=20000"`
	IsWarranty     *bool   `json:"is_warranty"`
	WarrantyPeriod *string `json:"warranty_period" validate:"nullable,max=100"`
}

func (r *UpdateProduct) Check() map[string]string {
	return blankCheck(map[string]*string{"name": r.Name, "slug": r.Slug, "category_id": r.CategoryID})
}

// Category returns the requested new category, or uuid.Nil.
func (r *UpdateProduct) Category() uuid.UUID {
	if r.CategoryID == nil {
		return uuid.Nil
	}
	id, _ := uuid.Parse(*r.CategoryID)
	return id
}

func (r *UpdateProduct) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	if id := r.Category(); id != uuid.Nil {
		out["category_id"] = id
	}
	if v := trimmed(r.Name); v != nil {
		out["name"] = *v
	}
	if r.Slug != nil {
		out["slug"] = *r.Slug
	}
	if v := trimmed(r.Title); v != nil {
		out["title"] = *v
	}
	if r.Description != nil {
		out["description"] = *r.Description
	}
	if r.IsWarranty != nil {
		out["is_warranty"] = *r.IsWarranty
		if !*r.IsWarranty {
			out["warranty_period"] = nil
		}
	}
	if v := trimmed(r.WarrantyPeriod); v != nil && (r.IsWarranty == nil || *r.IsWarranty) {
		out["warranty_period"] = *v
	}
	return out
}

type CreateBlog struct {
	Title       string   `json:"title"       validate:"required,max=255"`
	Slug        *string  `json:"slug"        validate:"nullable,slug,max=255"`
	Description string   `json:"description" validate:"required"`
	Image       *Image   `json:"image"       validate:"nested"`
	Tags        []string `json:"tags"`
	IsActive    *bool    `json:"is_active"`
}

func (r *CreateBlog) Active() bool { return activeOrDefault(r.IsActive) }

func (r *CreateBlog) Check() map[string]string {
	return tagCheck(r.Tags)
}

// TagNames returns the trimmed, de-duplicated tag names in input order.
// Duplicates are detected case-insensitively; the first spelling wins.
func (r *CreateBlog) TagNames() []string {
	names := collection.Filter(collection.Map(r.Tags, strings.TrimSpace),
		func(t string) bool { return t != "" })
	return collection.UniqueBy(names, strings.ToLower)
}

type UpdateBlog struct {
	Title       *string `json:"title"       validate:"nullable,max=255"`
	Slug        *string `json:"slug"        validate:"nullable,slug,max=255"`
	Description *string `json:"description"`
	Image       *Image  `json:"image"       validate:"nested"`
}

func (r *UpdateBlog) Check() map[string]string {
	return blankCheck(map[string]*string{"title": r.Title, "slug": r.Slug, "description": r.Description})
}

func (r *UpdateBlog) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	if v := trimmed(r.Title); v != nil {
		out["title"] = *v
	}
	if r.Slug != nil {
		out["slug"] = *r.Slug
	}
	if r.Description != nil {
		out["description"] = *r.Description
	}
	if r.Image != nil {
		r.Image.columns(out)
	}
	return out
}

func tagCheck(tags []string) map[string]string {
	errs := map[string]string{}
	for _, t := range tags {
		if len([]rune(strings.TrimSpace(t))) > 100 {
			errs["tags"] = "Each tag must not exceed 100 characters."
			break
		}
	}
	return errs
}
