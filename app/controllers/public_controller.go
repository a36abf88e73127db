package controllers

import (
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/ctx"
)

// PublicController serves the anonymous site: only active, non-deleted rows
// under active categories are visible.
type PublicController struct {
	public *services.PublicService
	inbox  *services.InboxService
}

func NewPublicController(public *services.PublicService, inbox *services.InboxService) *PublicController {
	return &PublicController{public: public, inbox: inbox}
}

func (h *PublicController) Categories(c *ctx.Context) {
	page, err := h.public.Categories(c.Context(), c.PageQuery())
	if err != nil {
		c.Fail(err)
		return
	}
	ctx.Page(c, page)
}

func (h *PublicController) Category(c *ctx.Context) {
	cat, err := h.public.Category(c.Context(), c.Param("slug"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cat)
}

func (h *PublicController) CategoryProducts(c *ctx.Context) {
	page, err := h.public.ProductsByCategory(c.Context(), c.Param("slug"), c.PageQuery())
	if err != nil {
		c.Fail(err)
		return
	}
	ctx.Page(c, page)
}

func (h *PublicController) Product(c *ctx.Context) {
	p, err := h.public.Product(c.Context(), c.Param("slug"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (h *PublicController) Blogs(c *ctx.Context) {
	page, err := h.public.Blogs(c.Context(), c.PageQuery())
	if err != nil {
		c.Fail(err)
		return
	}
	ctx.Page(c, page)
}

func (h *PublicController) Blog(c *ctx.Context) {
	b, err := h.public.Blog(c.Context(), c.Param("slug"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(b)
}

func (h *PublicController) SubmitEnquiry(c *ctx.Context) {
	var in requests.SubmitEnquiry
	if !c.BindJSON(&in) {
		return
	}
	e, err := h.inbox.SubmitEnquiry(c.Context(), &in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(e)
}

func (h *PublicController) SubmitContact(c *ctx.Context) {
	var in requests.SubmitContact
	if !c.BindJSON(&in) {
		return
	}
	msg, err := h.inbox.SubmitContact(c.Context(), &in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(msg)
}
