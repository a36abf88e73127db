package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/event"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/metrics"
)

// Cascade actions, used in logs and metrics.
const (
	ActionDeactivate = "deactivate"
	ActionActivate   = "activate"
	ActionSoftDelete = "soft-delete"
	ActionPurge      = "purge"
	ActionReconcile  = "reconcile"
)

// Coordinator keeps product status consistent with category status. Every
// category transition and its product cascade commit in one transaction.
type Coordinator struct {
	db         *gorm.DB
	categories *repositories.CategoryRepository
	products   *repositories.ProductRepository
	images     *repositories.ProductImageRepository
	features   *repositories.ProductKeyFeatureRepository
	specs      *repositories.ProductSpecificationRepository
	events     *event.Bus
	assets     *AssetService
	reactivate string
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithReactivation sets the policy applied when a category is reactivated:
// config.ReactivateAll or config.ReactivateRestore.
func WithReactivation(policy string) CoordinatorOption {
	return func(c *Coordinator) { c.reactivate = policy }
}

func NewCoordinator(d Deps, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		db:         d.DB,
		categories: repositories.NewCategoryRepository(d.DB),
		products:   repositories.NewProductRepository(d.DB),
		images:     repositories.NewProductImageRepository(d.DB),
		features:   repositories.NewProductKeyFeatureRepository(d.DB),
		specs:      repositories.NewProductSpecificationRepository(d.DB),
		events:     d.Events,
		assets:     d.Assets,
		reactivate: config.CascadeReactivate(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetCategoryStatus moves a category between Active and Inactive and
// propagates the change to its products. Setting the current state is a
// no-op. A deleted category is an InvalidStateError.
func (c *Coordinator) SetCategoryStatus(ctx context.Context, id uuid.UUID, active bool, actor string) (*models.Category, error) {
	action := ActionDeactivate
	if active {
		action = ActionActivate
	}

	var (
		row      *models.Category
		moved    bool
		affected int64
	)
	err := c.tx(ctx, func(tx *gorm.DB) error {
		var err error
		row, moved, err = c.categories.WithTx(tx).ToggleStatus(ctx, id, active, actor)
		if err != nil || !moved {
			return err
		}
		products := c.products.WithTx(tx)
		if active {
			affected, err = products.ActivateByCategory(ctx, id, actor, c.reactivate == config.ReactivateRestore)
		} else {
			affected, err = products.DeactivateByCategory(ctx, id, actor)
		}
		return err
	})
	if err != nil {
		c.failed(ctx, action, id, err)
		return nil, err
	}
	if moved {
		c.applied(ctx, action, id, affected)
	}
	return row, nil
}

// DeleteCategory soft-deletes a category and every product under it.
// Deleting an already deleted category is a no-op.
func (c *Coordinator) DeleteCategory(ctx context.Context, id uuid.UUID, actor string) error {
	var (
		deleted  bool
		affected int64
	)
	err := c.tx(ctx, func(tx *gorm.DB) error {
		var err error
		deleted, err = c.categories.WithTx(tx).SoftDelete(ctx, id, actor)
		if err != nil || !deleted {
			return err
		}
		affected, err = c.products.WithTx(tx).SoftDeleteByCategory(ctx, id, actor)
		return err
	})
	if err != nil {
		c.failed(ctx, ActionSoftDelete, id, err)
		return err
	}
	if deleted {
		c.applied(ctx, ActionSoftDelete, id, affected)
	}
	return nil
}

// PurgeCategory physically removes a category, its products and their
// children, then deletes the stored images. Asset deletion runs after commit
// and is best effort.
func (c *Coordinator) PurgeCategory(ctx context.Context, id uuid.UUID) error {
	cat, err := c.categories.Find(ctx, id, repositories.Any)
	if err != nil {
		return err
	}

	var (
		refs     []models.ImageRef
		affected int64
	)
	err = c.tx(ctx, func(tx *gorm.DB) error {
		products := c.products.WithTx(tx)
		ids, err := products.IDsByCategory(ctx, id)
		if err != nil {
			return err
		}
		images, err := c.images.WithTx(tx).All(ctx, ids...)
		if err != nil {
			return err
		}
		if err := c.deleteProductChildren(ctx, tx, ids); err != nil {
			return err
		}
		if affected, err = products.DeleteByCategory(ctx, id); err != nil {
			return err
		}
		if err := c.categories.WithTx(tx).HardDelete(ctx, id); err != nil {
			return err
		}

		refs = append(refs, cat.Image)
		for _, img := range images {
			refs = append(refs, img.Image)
		}
		return nil
	})
	if err != nil {
		c.failed(ctx, ActionPurge, id, err)
		return err
	}

	c.applied(ctx, ActionPurge, id, affected)
	purgeAssets(ctx, c.assets, refs)
	return nil
}

// PurgeProduct physically removes one product with its children and images.
func (c *Coordinator) PurgeProduct(ctx context.Context, id uuid.UUID) error {
	p, err := c.products.Find(ctx, id, repositories.Any)
	if err != nil {
		return err
	}

	var images []models.ProductImage
	err = c.tx(ctx, func(tx *gorm.DB) error {
		var err error
		if images, err = c.images.WithTx(tx).All(ctx, id); err != nil {
			return err
		}
		if err := c.deleteProductChildren(ctx, tx, []uuid.UUID{id}); err != nil {
			return err
		}
		return c.products.WithTx(tx).HardDelete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "product purged", "product_id", id, "category_id", p.CategoryID, "images", len(images))
	changed(ctx, c.events, "product", id.String(), ActionPurge)

	refs := make([]models.ImageRef, 0, len(images))
	for _, img := range images {
		refs = append(refs, img.Image)
	}
	purgeAssets(ctx, c.assets, refs)
	return nil
}

func (c *Coordinator) deleteProductChildren(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) error {
	if _, err := c.images.WithTx(tx).DeleteByParents(ctx, productIDs...); err != nil {
		return err
	}
	if _, err := c.features.WithTx(tx).DeleteByParents(ctx, productIDs...); err != nil {
		return err
	}
	_, err := c.specs.WithTx(tx).DeleteByParents(ctx, productIDs...)
	return err
}

// ReconcileReport summarises one reconciliation pass.
type ReconcileReport struct {
	Checked       int           `json:"checked"`
	Repaired      int           `json:"repaired"`
	ProductsFixed int64         `json:"products_fixed"`
	Failed        int           `json:"failed"`
	Took          time.Duration `json:"took"`
}

// Reconcile re-applies the status of every inactive or deleted category to
// its products. It repairs drift left by writes that bypassed the
// coordinator. Each category is repaired in its own transaction; a failure
// is logged and the pass continues.
func (c *Coordinator) Reconcile(ctx context.Context, actor string) (ReconcileReport, error) {
	start := time.Now()
	var rep ReconcileReport

	halted, err := c.categories.Halted(ctx)
	if err != nil {
		return rep, err
	}

	for _, cat := range halted {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Checked++

		fixed, err := c.reconcileOne(ctx, cat, actor)
		if err != nil {
			rep.Failed++
			c.failed(ctx, ActionReconcile, cat.ID, err)
			continue
		}
		if fixed > 0 {
			rep.Repaired++
			rep.ProductsFixed += fixed
			logger.WarnContext(ctx, "cascade drift repaired",
				"category_id", cat.ID, "action", ActionReconcile,
				"state", cat.State(), "products_affected", fixed)
		}
	}

	rep.Took = time.Since(start)
	metrics.RecordCascade(ActionReconcile, rep.ProductsFixed, nil)
	if rep.ProductsFixed > 0 {
		changed(ctx, c.events, "category", "", ActionReconcile)
	}
	logger.InfoContext(ctx, "cascade reconcile finished",
		"checked", rep.Checked, "repaired", rep.Repaired,
		"products_affected", rep.ProductsFixed, "failed", rep.Failed, "took", rep.Took)
	return rep, nil
}

func (c *Coordinator) reconcileOne(ctx context.Context, cat models.Category, actor string) (int64, error) {
	leaked, err := c.products.CountVisibleUnder(ctx, cat)
	if err != nil || leaked == 0 {
		return 0, err
	}

	var fixed int64
	err = c.tx(ctx, func(tx *gorm.DB) error {
		products := c.products.WithTx(tx)
		var err error
		if cat.IsDeleted {
			fixed, err = products.SoftDeleteByCategory(ctx, cat.ID, actor)
		} else {
			fixed, err = products.DeactivateByCategory(ctx, cat.ID, actor)
		}
		return err
	})
	return fixed, err
}

func (c *Coordinator) tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := c.db.WithContext(ctx).Transaction(fn)
	return apperr.FromDB("category", "", "commit", err)
}

// failed records a rolled-back cascade. Storage failures are logged at
// ERROR with enough context for manual reconciliation; rejected transitions
// only count as failures in metrics.
func (c *Coordinator) failed(ctx context.Context, action string, categoryID uuid.UUID, err error) {
	metrics.RecordCascade(action, 0, err)
	if apperr.KindOf(err) != apperr.KindDependency {
		return
	}
	logger.ErrorContext(ctx, "cascade failed, transaction rolled back",
		"category_id", categoryID, "action", action, "error", err)
}

func (c *Coordinator) applied(ctx context.Context, action string, categoryID uuid.UUID, affected int64) {
	metrics.RecordCascade(action, affected, nil)
	logger.InfoContext(ctx, "cascade applied",
		"category_id", categoryID, "action", action, "products_affected", affected)

	id := categoryID.String()
	c.events.Fire(ctx, event.Event{
		Name: event.CascadeApplied, Entity: "category", ID: id, Action: action, Affected: affected,
	})
	changed(ctx, c.events, "category", id, action)
}
