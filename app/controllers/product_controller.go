package controllers

import (
	"github.com/google/uuid"

	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/ctx"
)

type ProductController struct {
	svc *services.ProductService
}

func NewProductController(svc *services.ProductService) *ProductController {
	return &ProductController{svc: svc}
}

// Index lists products, optionally narrowed by ?category_id=.
func (h *ProductController) Index(c *ctx.Context) {
	categoryID := uuid.Nil
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.ValidationError(map[string]string{"category_id": "must be a valid UUID"})
			return
		}
		categoryID = id
	}
	page, err := h.svc.List(c.Context(), c.PageQuery(), repositories.Admin, categoryID)
	if err != nil {
		c.Fail(err)
		return
	}
	ctx.Page(c, page)
}

func (h *ProductController) Show(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (h *ProductController) Store(c *ctx.Context) {
	var in requests.CreateProduct
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.svc.Create(c.Context(), &in, c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(p)
}

func (h *ProductController) Update(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	var in requests.UpdateProduct
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.svc.Update(c.Context(), id, &in, c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (h *ProductController) Status(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	var in requests.Status
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.svc.SetStatus(c.Context(), id, *in.IsActive, c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (h *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Context(), id, c.Actor()); err != nil {
		c.Fail(err)
		return
	}
	c.NoContent()
}

func (h *ProductController) Purge(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	if err := h.svc.Purge(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.NoContent()
}
