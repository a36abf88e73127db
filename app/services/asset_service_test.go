package services_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
)

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestStoreAssetReturnsReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ref, err := f.svc.Assets.Store(ctx, services.Upload{
		Folder:       "Products/Front Shots",
		OriginalName: "front.png",
		Body:         bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://assets.test/storage/products/front-shots", ref.BaseURL)
	assert.True(t, strings.HasSuffix(ref.Name, ".png"))
	assert.Equal(t, "image/png", ref.Type)
	assert.Equal(t, "front.png", ref.OriginalName)

	ok, err := f.disk.Exists(ctx, "products/front-shots/"+ref.Name)
	require.NoError(t, err)
	assert.True(t, ok)

	f.svc.Assets.DeleteAll(ctx, []models.ImageRef{ref, {BaseURL: "https://elsewhere.example.com", Name: "x.png"}})
	ok, err = f.disk.Exists(ctx, "products/front-shots/"+ref.Name)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreAssetRejectsNonImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Assets.Store(ctx, services.Upload{OriginalName: "notes.txt", Body: strings.NewReader("plain text")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Contains(t, apperr.FieldsOf(err), "file")

	_, err = f.svc.Assets.Store(ctx, services.Upload{OriginalName: "empty.png", Body: bytes.NewReader(nil)})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestStoreAssetAcceptsSVG(t *testing.T) {
	f := newFixture(t)
	ref, err := f.svc.Assets.Store(context.Background(), services.Upload{
		OriginalName: "logo.svg",
		Body:         strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`),
	})
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", ref.Type)
	assert.Equal(t, "http://assets.test/storage/uploads", ref.BaseURL)
}
