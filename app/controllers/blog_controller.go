package controllers

import (
	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/ctx"
)

type BlogController struct {
	svc *services.BlogService
}

func NewBlogController(svc *services.BlogService) *BlogController {
	return &BlogController{svc: svc}
}

func (h *BlogController) Index(c *ctx.Context) {
	page, err := h.svc.List(c.Context(), c.PageQuery(), repositories.Admin)
	if err != nil {
		c.Fail(err)
		return
	}
	ctx.Page(c, page)
}

func (h *BlogController) Show(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	b, err := h.svc.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(b)
}

func (h *BlogController) Store(c *ctx.Context) {
	var in requests.CreateBlog
	if !c.BindJSON(&in) {
		return
	}
	b, err := h.svc.Create(c.Context(), &in, c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(b)
}

func (h *BlogController) Update(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	var in requests.UpdateBlog
	if !c.BindJSON(&in) {
		return
	}
	b, err := h.svc.Update(c.Context(), id, &in, c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(b)
}

func (h *BlogController) Status(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	var in requests.Status
	if !c.BindJSON(&in) {
		return
	}
	b, err := h.svc.SetStatus(c.Context(), id, *in.IsActive, c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(b)
}

func (h *BlogController) Destroy(c *ctx.Context) {
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

func (h *BlogController) Purge(c *ctx.Context) {
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
