package controllers

import (
	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/ctx"
)

// CategoryController serves the admin category endpoints. Status changes and
// deletes run through the cascade.
type CategoryController struct {
	svc *services.CategoryService
}

func NewCategoryController(svc *services.CategoryService) *CategoryController {
	return &CategoryController{svc: svc}
}

func (h *CategoryController) Index(c *ctx.Context) {
	page, err := h.svc.List(c.Context(), c.PageQuery(), repositories.Admin)
	if err != nil {
		c.Fail(err)
		return
	}
	ctx.Page(c, page)
}

func (h *CategoryController) Show(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	cat, err := h.svc.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cat)
}

func (h *CategoryController) Store(c *ctx.Context) {
	var in requests.CreateCategory
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.svc.Create(c.Context(), &in, c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(cat)
}

func (h *CategoryController) Update(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	var in requests.UpdateCategory
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.svc.Update(c.Context(), id, &in, c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cat)
}

func (h *CategoryController) Status(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	var in requests.Status
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.svc.SetStatus(c.Context(), id, *in.IsActive, c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cat)
}

func (h *CategoryController) Destroy(c *ctx.Context) {
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

func (h *CategoryController) Purge(c *ctx.Context) {
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
