package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
)

func TestCreateProductUnderInactiveCategoryStaysHidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Seasonal", false)
	p := f.product(t, cat.ID, "Winter Kit", true)

	assert.False(t, p.IsActive)
	assert.True(t, f.reloadProduct(t, p.ID).CascadeHidden)

	_, err := f.svc.Categories.SetStatus(ctx, cat.ID, true, actor)
	require.NoError(t, err)
	assert.True(t, f.reloadProduct(t, p.ID).IsActive)
}

func TestCreateProductRejectsUnknownOrDeletedCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Products.Create(ctx, &requests.CreateProduct{
		CategoryID: uuid.NewString(), Name: "Nowhere",
	}, actor)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Contains(t, apperr.FieldsOf(err), "category_id")

	cat := f.category(t, "Retired", true)
	require.NoError(t, f.svc.Categories.Delete(ctx, cat.ID, actor))
	_, err = f.svc.Products.Create(ctx, &requests.CreateProduct{
		CategoryID: cat.ID.String(), Name: "Late Arrival",
	}, actor)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
}

func TestProductSlugIsUniqueAmongLiveRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Terminals", true)
	first := f.product(t, cat.ID, "Terminal A", true)
	assert.Equal(t, "terminal-a", first.Slug)

	_, err := f.svc.Products.Create(ctx, &requests.CreateProduct{
		CategoryID: cat.ID.String(), Name: "Terminal A (copy)", Slug: ptr("terminal-a"),
	}, actor)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	require.NoError(t, f.svc.Products.Delete(ctx, first.ID, actor))
	again := f.product(t, cat.ID, "Terminal A", true)
	assert.Equal(t, "terminal-a", again.Slug, "slug of a deleted row can be reused")
}

func TestActivateProductRequiresActiveCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Paused", true)
	p := f.product(t, cat.ID, "Paused Item", true)
	_, err := f.svc.Categories.SetStatus(ctx, cat.ID, false, actor)
	require.NoError(t, err)

	_, err = f.svc.Products.SetStatus(ctx, p.ID, true, actor)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	assert.False(t, f.reloadProduct(t, p.ID).IsActive)

	_, err = f.svc.Products.SetStatus(ctx, p.ID, false, actor)
	require.NoError(t, err, "switching off an already hidden product is allowed")
}

func TestManualDeactivationSurvivesRestore(t *testing.T) {
	f := newFixture(t, services.WithReactivation(config.ReactivateRestore))
	ctx := context.Background()

	cat := f.category(t, "Kiosks", true)
	keep := f.product(t, cat.ID, "Kiosk One", true)
	drop := f.product(t, cat.ID, "Kiosk Two", true)

	_, err := f.svc.Categories.SetStatus(ctx, cat.ID, false, actor)
	require.NoError(t, err)
	require.True(t, f.reloadProduct(t, drop.ID).CascadeHidden)

	_, err = f.svc.Products.SetStatus(ctx, drop.ID, false, actor)
	require.NoError(t, err)
	assert.False(t, f.reloadProduct(t, drop.ID).CascadeHidden)

	_, err = f.svc.Categories.SetStatus(ctx, cat.ID, true, actor)
	require.NoError(t, err)
	assert.True(t, f.reloadProduct(t, keep.ID).IsActive)
	assert.False(t, f.reloadProduct(t, drop.ID).IsActive)
}

func TestToggleDeletedProductFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Terminals", true)
	p := f.product(t, cat.ID, "Gone", true)
	require.NoError(t, f.svc.Products.Delete(ctx, p.ID, actor))
	require.NoError(t, f.svc.Products.Delete(ctx, p.ID, actor), "second delete is a no-op")

	_, err := f.svc.Products.SetStatus(ctx, p.ID, true, actor)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	got := f.reloadProduct(t, p.ID)
	assert.True(t, got.IsDeleted)
	assert.False(t, got.IsActive)
}

func TestMoveProductReappliesCategoryStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	live := f.category(t, "Live", true)
	paused := f.category(t, "Paused", false)
	p := f.product(t, live.ID, "Mover", true)

	moved, err := f.svc.Products.Update(ctx, p.ID, &requests.UpdateProduct{CategoryID: ptr(paused.ID.String())}, actor)
	require.NoError(t, err)
	assert.Equal(t, paused.ID, moved.CategoryID)
	assert.False(t, moved.IsActive)

	back, err := f.svc.Products.Update(ctx, p.ID, &requests.UpdateProduct{CategoryID: ptr(live.ID.String())}, actor)
	require.NoError(t, err)
	assert.True(t, back.IsActive)
	assert.False(t, f.reloadProduct(t, p.ID).CascadeHidden)
}

func TestUpdateProductWarrantyRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Terminals", true)
	p := f.product(t, cat.ID, "Terminal", true)

	_, err := f.svc.Products.Update(ctx, p.ID, &requests.UpdateProduct{WarrantyPeriod: ptr("2 years")}, actor)
	require.Error(t, err)
	assert.Contains(t, apperr.FieldsOf(err), "warranty_period")

	got, err := f.svc.Products.Update(ctx, p.ID, &requests.UpdateProduct{
		IsWarranty: ptr(true), WarrantyPeriod: ptr("2 years"),
	}, actor)
	require.NoError(t, err)
	assert.True(t, got.IsWarranty)
	require.NotNil(t, got.WarrantyPeriod)
	assert.Equal(t, "2 years", *got.WarrantyPeriod)

	got, err = f.svc.Products.Update(ctx, p.ID, &requests.UpdateProduct{IsWarranty: ptr(false)}, actor)
	require.NoError(t, err)
	assert.Nil(t, got.WarrantyPeriod)
}

func TestUpdateMissingProductIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Products.Update(context.Background(), uuid.New(), &requests.UpdateProduct{Name: ptr("x")}, actor)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestPublicProductDetailHidesInactiveChildren(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Terminals", true)
	p := f.product(t, cat.ID, "Terminal", true)
	_, err := f.svc.KeyFeatures.Create(ctx, p.ID, (&requests.CreateKeyFeature{Name: "Visible"}).Model, actor)
	require.NoError(t, err)
	_, err = f.svc.KeyFeatures.Create(ctx, p.ID, (&requests.CreateKeyFeature{Name: "Hidden", IsActive: ptr(false)}).Model, actor)
	require.NoError(t, err)

	public, err := f.svc.Public.Product(ctx, p.Slug)
	require.NoError(t, err)
	require.Len(t, public.KeyFeatures, 1)
	assert.Equal(t, "Visible", public.KeyFeatures[0].Name)

	admin, err := f.svc.Products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, admin.KeyFeatures, 2)
}
