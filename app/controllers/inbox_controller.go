package controllers

import (
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/ctx"
)

// InboxController is the read-only admin view of enquiries and contacts.
type InboxController struct {
	svc *services.InboxService
}

func NewInboxController(svc *services.InboxService) *InboxController {
	return &InboxController{svc: svc}
}

func (h *InboxController) Enquiries(c *ctx.Context) {
	page, err := h.svc.Enquiries(c.Context(), c.PageQuery())
	if err != nil {
		c.Fail(err)
		return
	}
	ctx.Page(c, page)
}

func (h *InboxController) Enquiry(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	e, err := h.svc.Enquiry(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(e)
}

func (h *InboxController) Contacts(c *ctx.Context) {
	page, err := h.svc.Contacts(c.Context(), c.PageQuery())
	if err != nil {
		c.Fail(err)
		return
	}
	ctx.Page(c, page)
}

func (h *InboxController) Contact(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	msg, err := h.svc.Contact(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(msg)
}
