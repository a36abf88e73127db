package controllers

import (
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/ctx"
)

type CascadeController struct {
	cascade *services.Coordinator
}

func NewCascadeController(cascade *services.Coordinator) *CascadeController {
	return &CascadeController{cascade: cascade}
}

// Reconcile re-applies every halted category's status to its products and
// reports what it repaired.
func (h *CascadeController) Reconcile(c *ctx.Context) {
	report, err := h.cascade.Reconcile(c.Context(), c.Actor())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]interface{}{
		"checked":        report.Checked,
		"repaired":       report.Repaired,
		"products_fixed": report.ProductsFixed,
		"failed":         report.Failed,
		"took":           report.Took.String(),
	})
}
