package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/event"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

func TestDeactivateCategoryLeavesInactiveAndDeletedProductsAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Scanners", true)
	p1 := f.product(t, cat.ID, "Scanner One", true)
	p2 := f.product(t, cat.ID, "Scanner Two", false)
	p3 := f.product(t, cat.ID, "Scanner Three", true)
	require.NoError(t, f.svc.Products.Delete(ctx, p3.ID, actor))

	_, err := f.svc.Categories.SetStatus(ctx, cat.ID, false, actor)
	require.NoError(t, err)

	got1, got2, got3 := f.reloadProduct(t, p1.ID), f.reloadProduct(t, p2.ID), f.reloadProduct(t, p3.ID)
	assert.False(t, got1.IsActive)
	assert.True(t, got1.CascadeHidden)
	assert.False(t, got2.IsActive)
	assert.False(t, got2.CascadeHidden)
	assert.True(t, got3.IsDeleted)
	assert.False(t, got3.IsActive)
	assert.False(t, f.reloadCategory(t, cat.ID).IsActive)
}

func TestReactivateCategoryReactivatesEveryLiveProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Printers", true)
	p1 := f.product(t, cat.ID, "Printer One", true)
	p2 := f.product(t, cat.ID, "Printer Two", true)
	p3 := f.product(t, cat.ID, "Printer Three", true)
	_, err := f.svc.Products.SetStatus(ctx, p2.ID, false, actor)
	require.NoError(t, err)
	require.NoError(t, f.svc.Products.Delete(ctx, p3.ID, actor))

	_, err = f.svc.Categories.SetStatus(ctx, cat.ID, false, actor)
	require.NoError(t, err)
	_, err = f.svc.Categories.SetStatus(ctx, cat.ID, true, actor)
	require.NoError(t, err)

	assert.True(t, f.reloadProduct(t, p1.ID).IsActive)
	assert.True(t, f.reloadProduct(t, p2.ID).IsActive, "individually deactivated product is bulk reactivated")
	got3 := f.reloadProduct(t, p3.ID)
	assert.True(t, got3.IsDeleted)
	assert.False(t, got3.IsActive)
}

func TestReactivateCategoryRestorePolicy(t *testing.T) {
	f := newFixture(t, services.WithReactivation(config.ReactivateRestore))
	ctx := context.Background()

	cat := f.category(t, "Printers", true)
	p1 := f.product(t, cat.ID, "Printer One", true)
	p2 := f.product(t, cat.ID, "Printer Two", true)
	_, err := f.svc.Products.SetStatus(ctx, p2.ID, false, actor)
	require.NoError(t, err)

	_, err = f.svc.Categories.SetStatus(ctx, cat.ID, false, actor)
	require.NoError(t, err)
	_, err = f.svc.Categories.SetStatus(ctx, cat.ID, true, actor)
	require.NoError(t, err)

	got1, got2 := f.reloadProduct(t, p1.ID), f.reloadProduct(t, p2.ID)
	assert.True(t, got1.IsActive)
	assert.False(t, got1.CascadeHidden)
	assert.False(t, got2.IsActive, "manual deactivation survives a restore")
}

func TestDeleteCategoryDeletesEveryProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Cash Drawers", true)
	p1 := f.product(t, cat.ID, "Drawer One", true)
	p2 := f.product(t, cat.ID, "Drawer Two", false)

	require.NoError(t, f.svc.Categories.Delete(ctx, cat.ID, actor))

	for _, id := range []interface{}{p1.ID, p2.ID} {
		var p models.Product
		require.NoError(t, f.db.Where("id = ?", id).Take(&p).Error)
		assert.True(t, p.IsDeleted)
		assert.False(t, p.IsActive)
	}
	c := f.reloadCategory(t, cat.ID)
	assert.True(t, c.IsDeleted)
	assert.False(t, c.IsActive)
}

func TestDeleteCategoryTwiceIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Cash Drawers", true)
	p := f.product(t, cat.ID, "Drawer One", true)

	require.NoError(t, f.svc.Categories.Delete(ctx, cat.ID, actor))
	first := f.reloadProduct(t, p.ID)
	cascades := len(f.events)

	require.NoError(t, f.svc.Categories.Delete(ctx, cat.ID, actor))
	second := f.reloadProduct(t, p.ID)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, cascades, len(f.events), "second delete fires no events")
}

func TestToggleDeletedCategoryFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Legacy", true)
	require.NoError(t, f.svc.Categories.Delete(ctx, cat.ID, actor))
	before := f.reloadCategory(t, cat.ID)

	_, err := f.svc.Categories.SetStatus(ctx, cat.ID, true, actor)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))

	after := f.reloadCategory(t, cat.ID)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestSetCategoryStatusToCurrentStateDoesNotCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Scales", true)
	p := f.product(t, cat.ID, "Scale One", false)

	_, err := f.svc.Categories.SetStatus(ctx, cat.ID, true, actor)
	require.NoError(t, err)

	assert.False(t, f.reloadProduct(t, p.ID).IsActive)
	for _, e := range f.events {
		assert.NotEqual(t, event.CascadeApplied, e.Name)
	}
}

func TestCascadeEventReportsAffectedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Scales", true)
	f.product(t, cat.ID, "Scale One", true)
	f.product(t, cat.ID, "Scale Two", true)
	f.product(t, cat.ID, "Scale Three", false)

	_, err := f.svc.Categories.SetStatus(ctx, cat.ID, false, actor)
	require.NoError(t, err)

	var cascade *event.Event
	for i := range f.events {
		if f.events[i].Name == event.CascadeApplied {
			cascade = &f.events[i]
		}
	}
	require.NotNil(t, cascade)
	assert.Equal(t, services.ActionDeactivate, cascade.Action)
	assert.EqualValues(t, 2, cascade.Affected)
	assert.Equal(t, cat.ID.String(), cascade.ID)
}

func TestCascadeFailureRollsBackCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Terminals", true)
	p := f.product(t, cat.ID, "Terminal One", true)

	boom := errors.New("products table unavailable")
	require.NoError(t, f.db.Callback().Update().Before("gorm:update").
		Register("test:fail_products", func(tx *gorm.DB) {
			if tx.Statement.Table == "products" {
				tx.AddError(boom)
			}
		}))

	_, err := f.svc.Categories.SetStatus(ctx, cat.ID, false, actor)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrDependency))
	assert.ErrorIs(t, err, boom)

	assert.True(t, f.reloadCategory(t, cat.ID).IsActive, "category write rolled back")
	assert.True(t, f.reloadProduct(t, p.ID).IsActive)

	err = f.svc.Categories.Delete(ctx, cat.ID, actor)
	require.Error(t, err)
	assert.False(t, f.reloadCategory(t, cat.ID).IsDeleted, "soft delete rolled back")
}

// Every combination of category and product flags, written directly so the
// public read path is tested on its own.
func TestPublicVisibilityIsConjunction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	i := 0
	for _, catActive := range []bool{true, false} {
		for _, catDeleted := range []bool{true, false} {
			for _, pActive := range []bool{true, false} {
				for _, pDeleted := range []bool{true, false} {
					i++
					name := fmt.Sprintf("c%v-%v-p%v-%v", catActive, catDeleted, pActive, pDeleted)
					t.Run(name, func(t *testing.T) {
						cat := &models.Category{
							Status: models.Status{IsActive: catActive, IsDeleted: catDeleted},
							Name:   name, Slug: fmt.Sprintf("category-%d", i),
						}
						require.NoError(t, f.db.Create(cat).Error)
						p := &models.Product{
							Status:     models.Status{IsActive: pActive, IsDeleted: pDeleted},
							CategoryID: cat.ID, Name: name, Slug: fmt.Sprintf("product-%d", i),
						}
						require.NoError(t, f.db.Create(p).Error)

						want := catActive && !catDeleted && pActive && !pDeleted

						_, err := f.svc.Public.Product(ctx, p.Slug)
						if want {
							assert.NoError(t, err)
						} else {
							assert.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)
						}

						page, err := f.svc.Public.ProductsByCategory(ctx, cat.Slug, orm.Query{Page: 1, Limit: 10})
						if catDeleted {
							assert.True(t, errors.Is(err, apperr.ErrNotFound))
							return
						}
						require.NoError(t, err)
						if want {
							assert.EqualValues(t, 1, page.Meta.Total)
						} else {
							assert.Empty(t, page.Data)
							assert.EqualValues(t, 0, page.Meta.Total)
						}
					})
				}
			}
		}
	}
}

func TestPOSSystemsScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := orm.Query{Page: 1, Limit: 10}

	pos := f.category(t, "POS Systems", true)
	require.Equal(t, "pos-systems", pos.Slug)
	f.product(t, pos.ID, "Terminal A", true)
	f.product(t, pos.ID, "Terminal B", false)

	_, err := f.svc.Categories.SetStatus(ctx, pos.ID, false, actor)
	require.NoError(t, err)

	public, err := f.svc.Public.ProductsByCategory(ctx, "pos-systems", q)
	require.NoError(t, err)
	assert.Empty(t, public.Data)
	assert.EqualValues(t, 0, public.Meta.Total)
	assert.Equal(t, 0, public.Meta.TotalPages)

	admin, err := f.svc.Products.List(ctx, q, repositories.Admin, pos.ID)
	require.NoError(t, err)
	require.Len(t, admin.Data, 2)
	for _, p := range admin.Data {
		require.NotNil(t, p.Category)
		assert.False(t, p.Category.IsActive)
	}

	_, err = f.svc.Categories.SetStatus(ctx, pos.ID, true, actor)
	require.NoError(t, err)

	public, err = f.svc.Public.ProductsByCategory(ctx, "pos-systems", orm.Query{Page: 1, Limit: 10, SortBy: "name"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, public.Meta.Total)
	require.Len(t, public.Data, 2)
	assert.Equal(t, "Terminal A", public.Data[0].Name)
	assert.Equal(t, "Terminal B", public.Data[1].Name)
}

func TestReconcileRepairsDrift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inactive := f.category(t, "Inactive", true)
	leaked := f.product(t, inactive.ID, "Leaked", true)
	deleted := f.category(t, "Deleted", true)
	orphan := f.product(t, deleted.ID, "Orphan", false)
	healthy := f.category(t, "Healthy", true)
	fine := f.product(t, healthy.ID, "Fine", true)

	// Writes that bypass the coordinator.
	require.NoError(t, f.db.Model(&models.Category{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)
	require.NoError(t, f.db.Model(&models.Category{}).Where("id = ?", deleted.ID).
		Updates(map[string]interface{}{"is_active": false, "is_deleted": true}).Error)

	rep, err := f.svc.Cascade.Reconcile(ctx, "system")
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Checked)
	assert.Equal(t, 2, rep.Repaired)
	assert.EqualValues(t, 2, rep.ProductsFixed)
	assert.Zero(t, rep.Failed)

	got := f.reloadProduct(t, leaked.ID)
	assert.False(t, got.IsActive)
	assert.True(t, got.CascadeHidden)
	assert.True(t, f.reloadProduct(t, orphan.ID).IsDeleted)
	assert.True(t, f.reloadProduct(t, fine.ID).IsActive)

	rep, err = f.svc.Cascade.Reconcile(ctx, "system")
	require.NoError(t, err)
	assert.Zero(t, rep.Repaired, "second pass finds nothing")
}

func TestPurgeCategoryRemovesRowsAndAssets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	ref, err := f.svc.Assets.Store(ctx, services.Upload{Folder: "products", OriginalName: "a.png", Body: bytes.NewReader(png)})
	require.NoError(t, err)
	assert.Equal(t, "http://assets.test/storage/products", ref.BaseURL)
	key := "products/" + ref.Name
	_, statErr := os.Stat(filepath.Join(f.disk.Root(), key))
	require.NoError(t, statErr)

	cat := f.category(t, "Purged", true)
	p := f.product(t, cat.ID, "Gone", true)
	_, err = f.svc.Images.Create(ctx, p.ID, (&requests.CreateProductImage{Image: requests.Image{
		BaseURL: ref.BaseURL, Name: ref.Name, Type: ref.Type, OriginalName: ref.OriginalName,
	}}).Model, actor)
	require.NoError(t, err)
	_, err = f.svc.KeyFeatures.Create(ctx, p.ID, (&requests.CreateKeyFeature{Name: "Fast"}).Model, actor)
	require.NoError(t, err)
	_, err = f.svc.Specifications.Create(ctx, p.ID, (&requests.CreateSpecification{Key: "Weight", Value: "2kg"}).Model, actor)
	require.NoError(t, err)

	require.NoError(t, f.svc.Categories.Purge(ctx, cat.ID))

	assert.Zero(t, f.count(t, &models.Category{}))
	assert.Zero(t, f.count(t, &models.Product{}))
	assert.Zero(t, f.count(t, &models.ProductImage{}))
	assert.Zero(t, f.count(t, &models.ProductKeyFeature{}))
	assert.Zero(t, f.count(t, &models.ProductSpecification{}))

	_, statErr = os.Stat(filepath.Join(f.disk.Root(), key))
	assert.True(t, os.IsNotExist(statErr), "asset deleted")

	err = f.svc.Categories.Purge(ctx, cat.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
