package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/auth"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.Auth.CreateUser(ctx, &requests.CreateAdminUser{
		Name: "Editor", Email: "Editor@Example.com", Password: "s3cret-pass", Role: models.RoleEditor,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, "editor@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.Password)

	tok, err := f.svc.Auth.Login(ctx, &requests.Login{Email: "editor@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)

	claims, err := auth.NewManager("test-secret", 0).Parse(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, models.RoleEditor, claims.Role)

	_, err = f.svc.Auth.Login(ctx, &requests.Login{Email: "editor@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = f.svc.Auth.Login(ctx, &requests.Login{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := &requests.CreateAdminUser{Name: "Admin", Email: "admin@example.com", Password: "s3cret-pass", Role: models.RoleAdmin}
	_, err := f.svc.Auth.CreateUser(ctx, in, actor)
	require.NoError(t, err)

	in.Email = "ADMIN@example.com"
	_, err = f.svc.Auth.CreateUser(ctx, in, actor)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}
