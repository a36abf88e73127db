package controllers

import (
	"github.com/google/uuid"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/ctx"
)

// ChildCreate is a create body that builds the child row for a parent.
type ChildCreate[P any] interface {
	Model(parentID uuid.UUID) P
}

// ChildUpdate is an update body reduced to column changes.
type ChildUpdate interface {
	Fields() map[string]interface{}
}

// ChildController serves one child collection nested under
// /{parent}/{id}/<collection>. The parent id is the "id" path parameter and
// the child id is "childId".
type ChildController[T any, P interface {
	*T
	models.Entity
}] struct {
	svc       *services.ChildService[T, P]
	newCreate func() ChildCreate[P]
	newUpdate func() ChildUpdate
}

func NewChildController[T any, P interface {
	*T
	models.Entity
}](svc *services.ChildService[T, P], newCreate func() ChildCreate[P], newUpdate func() ChildUpdate) *ChildController[T, P] {
	return &ChildController[T, P]{svc: svc, newCreate: newCreate, newUpdate: newUpdate}
}

func NewImageController(svc *services.ImageService) *ChildController[models.ProductImage, *models.ProductImage] {
	return NewChildController(svc,
		func() ChildCreate[*models.ProductImage] { return &requests.CreateProductImage{} },
		func() ChildUpdate { return &requests.UpdateProductImage{} })
}

func NewKeyFeatureController(svc *services.KeyFeatureService) *ChildController[models.ProductKeyFeature, *models.ProductKeyFeature] {
	return NewChildController(svc,
		func() ChildCreate[*models.ProductKeyFeature] { return &requests.CreateKeyFeature{} },
		func() ChildUpdate { return &requests.UpdateKeyFeature{} })
}

func NewSpecificationController(svc *services.SpecificationService) *ChildController[models.ProductSpecification, *models.ProductSpecification] {
	return NewChildController(svc,
		func() ChildCreate[*models.ProductSpecification] { return &requests.CreateSpecification{} },
		func() ChildUpdate { return &requests.UpdateSpecification{} })
}

func NewBlogTagController(svc *services.BlogTagService) *ChildController[models.BlogTag, *models.BlogTag] {
	return NewChildController(svc,
		func() ChildCreate[*models.BlogTag] { return &requests.CreateBlogTag{} },
		func() ChildUpdate { return &requests.UpdateBlogTag{} })
}

func (h *ChildController[T, P]) ids(c *ctx.Context) (parentID, childID uuid.UUID, ok bool) {
	if parentID, ok = c.UUIDParam("id"); !ok {
		return
	}
	childID, ok = c.UUIDParam("childId")
	return
}

func (h *ChildController[T, P]) Index(c *ctx.Context) {
	parentID, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	rows, err := h.svc.List(c.Context(), parentID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(rows)
}

func (h *ChildController[T, P]) Store(c *ctx.Context) {
	parentID, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	in := h.newCreate()
	if !c.BindJSON(in) {
		return
	}
	row, err := h.svc.Create(c.Context(), parentID, in.Model, c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(row)
}

func (h *ChildController[T, P]) Update(c *ctx.Context) {
	parentID, childID, ok := h.ids(c)
	if !ok {
		return
	}
	in := h.newUpdate()
	if !c.BindJSON(in) {
		return
	}
	row, err := h.svc.Update(c.Context(), parentID, childID, in.Fields(), c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(row)
}

func (h *ChildController[T, P]) Status(c *ctx.Context) {
	parentID, childID, ok := h.ids(c)
	if !ok {
		return
	}
	var in requests.Status
	if !c.BindJSON(&in) {
		return
	}
	row, err := h.svc.SetStatus(c.Context(), parentID, childID, *in.IsActive, c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(row)
}

func (h *ChildController[T, P]) Destroy(c *ctx.Context) {
	parentID, childID, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Context(), parentID, childID, c.Actor()); err != nil {
		c.Fail(err)
		return
	}
	c.NoContent()
}

func (h *ChildController[T, P]) Purge(c *ctx.Context) {
	parentID, childID, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.svc.Purge(c.Context(), parentID, childID); err != nil {
		c.Fail(err)
		return
	}
	c.NoContent()
}
