package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
)

func imageInput(n int, active bool) *requests.CreateProductImage {
	return &requests.CreateProductImage{
		Image: requests.Image{
			BaseURL: "https://cdn.example.com/products",
			Name:    fmt.Sprintf("image-%d.png", n),
			Type:    "image/png",
		},
		IsActive: ptr(active),
	}
}

func TestProductImageCap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Terminals", true)
	p := f.product(t, cat.ID, "Terminal", true)

	for i := 1; i <= 5; i++ {
		_, err := f.svc.Images.Create(ctx, p.ID, imageInput(i, true).Model, actor)
		require.NoError(t, err, "image %d", i)
	}

	_, err := f.svc.Images.Create(ctx, p.ID, imageInput(6, true).Model, actor)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	spare, err := f.svc.Images.Create(ctx, p.ID, imageInput(7, false).Model, actor)
	require.NoError(t, err, "inactive images do not count")

	_, err = f.svc.Images.SetStatus(ctx, p.ID, spare.ID, true, actor)
	assert.True(t, errors.Is(err, apperr.ErrValidation), "activation honours the cap")

	list, err := f.svc.Images.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 6)

	var victim uuid.UUID
	for _, img := range list {
		if img.IsActive {
			victim = img.ID
			break
		}
	}
	require.NoError(t, f.svc.Images.Delete(ctx, p.ID, victim, actor))
	_, err = f.svc.Images.SetStatus(ctx, p.ID, spare.ID, true, actor)
	assert.NoError(t, err, "a deleted image frees a slot")
}

func TestChildWritesUnderDeletedParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Terminals", true)
	p := f.product(t, cat.ID, "Terminal", true)
	feature, err := f.svc.KeyFeatures.Create(ctx, p.ID, (&requests.CreateKeyFeature{Name: "Fast"}).Model, actor)
	require.NoError(t, err)
	require.NoError(t, f.svc.Products.Delete(ctx, p.ID, actor))

	_, err = f.svc.KeyFeatures.Create(ctx, p.ID, (&requests.CreateKeyFeature{Name: "Late"}).Model, actor)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState), "rejected by default")

	_, err = f.svc.KeyFeatures.Update(ctx, p.ID, feature.ID, map[string]interface{}{"name": "Faster"}, actor)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))

	require.NoError(t, f.svc.KeyFeatures.Delete(ctx, p.ID, feature.ID, actor), "deletes are always allowed")

	allow := services.DefaultChildPolicy[*models.ProductKeyFeature]()
	allow.AllowDeletedParent = true
	permissive := services.NewChildService(services.Deps{DB: f.db},
		repositories.NewProductKeyFeatureRepository(f.db), allow)
	late, err := permissive.Create(ctx, p.ID, (&requests.CreateKeyFeature{Name: "Late"}).Model, actor)
	require.NoError(t, err)
	assert.Equal(t, p.ID, late.ProductID)
	assert.Equal(t, actor, late.CreatedBy)
}

func TestChildRequiresExistingParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Specifications.Create(ctx, uuid.New(),
		(&requests.CreateSpecification{Key: "Weight", Value: "1kg"}).Model, actor)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = f.svc.Specifications.List(ctx, uuid.New())
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestChildIsScopedToItsParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Terminals", true)
	a := f.product(t, cat.ID, "A", true)
	b := f.product(t, cat.ID, "B", true)
	spec, err := f.svc.Specifications.Create(ctx, a.ID,
		(&requests.CreateSpecification{Key: "Weight", Value: "1kg"}).Model, actor)
	require.NoError(t, err)

	_, err = f.svc.Specifications.Get(ctx, b.ID, spec.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	err = f.svc.Specifications.Purge(ctx, b.ID, spec.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	got, err := f.svc.Specifications.Get(ctx, a.ID, spec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weight", got.SpecificationKey)
}

func TestChildSoftDeleteAndToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Terminals", true)
	p := f.product(t, cat.ID, "Terminal", true)
	spec, err := f.svc.Specifications.Create(ctx, p.ID,
		(&requests.CreateSpecification{Key: "Colour", Value: "Black"}).Model, actor)
	require.NoError(t, err)

	updated, err := f.svc.Specifications.Update(ctx, p.ID, spec.ID,
		(&requests.UpdateSpecification{Value: ptr("White")}).Fields(), actor)
	require.NoError(t, err)
	assert.Equal(t, "Colour", updated.SpecificationKey)
	assert.Equal(t, "White", updated.SpecificationValue)

	off, err := f.svc.Specifications.SetStatus(ctx, p.ID, spec.ID, false, actor)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	require.NoError(t, f.svc.Specifications.Delete(ctx, p.ID, spec.ID, actor))
	require.NoError(t, f.svc.Specifications.Delete(ctx, p.ID, spec.ID, actor))

	_, err = f.svc.Specifications.SetStatus(ctx, p.ID, spec.ID, true, actor)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))

	list, err := f.svc.Specifications.List(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, f.svc.Specifications.Purge(ctx, p.ID, spec.ID))
	assert.Zero(t, f.count(t, &models.ProductSpecification{}))
}

func TestChildStatusChangesAreNotCascadedFromCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.category(t, "Terminals", true)
	p := f.product(t, cat.ID, "Terminal", true)
	img, err := f.svc.Images.Create(ctx, p.ID, imageInput(1, true).Model, actor)
	require.NoError(t, err)

	require.NoError(t, f.svc.Categories.Delete(ctx, cat.ID, actor))

	var got models.ProductImage
	require.NoError(t, f.db.Where("id = ?", img.ID).Take(&got).Error)
	assert.True(t, got.IsActive)
	assert.False(t, got.IsDeleted)
}
