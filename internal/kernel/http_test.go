package kernel_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/internal/kernel"
	"github.com/shashiranjanraj/catalogue/pkg/cache"
	"github.com/shashiranjanraj/catalogue/pkg/storage"
	"github.com/shashiranjanraj/catalogue/pkg/testkit"
)

type app struct {
	k       *kernel.Kernel
	handler http.Handler
}

func newApp(t *testing.T) *app {
	t.Helper()
	disk := storage.NewLocalDisk(t.TempDir(), "http://assets.test/storage")
	k, err := kernel.Boot(context.Background(),
		kernel.WithDB(testkit.DB(t)),
		kernel.WithCache(cache.Noop{}),
		kernel.WithDisks(storage.NewManagerWith(disk)),
	)
	require.NoError(t, err)
	t.Cleanup(k.Close)

	r, err := k.Router()
	require.NoError(t, err)
	return &app{k: k, handler: r.Handler()}
}

// login creates an account with role and returns its bearer token.
func (a *app) login(t *testing.T, email, role string) string {
	t.Helper()
	_, err := a.k.Catalog.Auth.CreateUser(context.Background(), &requests.CreateAdminUser{
		Name: "Test " + role, Email: email, Password: "correct-horse", Role: role,
	}, "test")
	require.NoError(t, err)

	rec := testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPost,
		Path:   "/api/admin/login",
		Body:   map[string]string{"email": email, "password": "correct-horse"},
	})
	require.True(t, testkit.AssertStatus(t, http.StatusOK, rec))
	return testkit.Data[services.Token](t, rec).AccessToken
}

func (a *app) call(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	rec := testkit.Request(t, a.handler, testkit.Call{Method: method, Path: path, Token: token, Body: body})
	return rec.Code, rec.Body.Bytes()
}

func TestAdminRoutesRequireAToken(t *testing.T) {
	a := newApp(t)

	rec := testkit.Get(t, a.handler, "/api/admin/categories", "")
	testkit.AssertStatus(t, http.StatusUnauthorized, rec)

	rec = testkit.Get(t, a.handler, "/api/admin/categories", "not-a-jwt")
	testkit.AssertStatus(t, http.StatusUnauthorized, rec)

	editor := a.login(t, "editor@example.com", models.RoleEditor)
	rec = testkit.Get(t, a.handler, "/api/admin/categories", editor)
	testkit.AssertStatus(t, http.StatusOK, rec)

	rec = testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPost,
		Path:   "/api/admin/users",
		Token:  editor,
		Body:   map[string]string{"name": "X", "email": "x@example.com", "password": "12345678", "role": "editor"},
	})
	testkit.AssertStatus(t, http.StatusForbidden, rec)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	a := newApp(t)
	a.login(t, "admin@example.com", models.RoleAdmin)

	rec := testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPost,
		Path:   "/api/admin/login",
		Body:   map[string]string{"email": "admin@example.com", "password": "wrong-password"},
	})
	testkit.AssertStatus(t, http.StatusUnauthorized, rec)
	assert.Equal(t, "Invalid email or password", testkit.Envelope(t, rec).Message)
}

func TestMeReturnsTheCaller(t *testing.T) {
	a := newApp(t)
	token := a.login(t, "Admin@Example.com", models.RoleAdmin)

	rec := testkit.Get(t, a.handler, "/api/admin/me", token)
	require.True(t, testkit.AssertStatus(t, http.StatusOK, rec))
	me := testkit.Data[models.AdminUser](t, rec)
	assert.Equal(t, "admin@example.com", me.Email)
	assert.Equal(t, models.RoleAdmin, me.Role)
}

func TestCategoryCascadeOverHTTP(t *testing.T) {
	a := newApp(t)
	token := a.login(t, "admin@example.com", models.RoleAdmin)

	rec := testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPost, Path: "/api/admin/categories", Token: token,
		Body: map[string]interface{}{"name": "POS Systems"},
	})
	require.True(t, testkit.AssertStatus(t, http.StatusCreated, rec))
	cat := testkit.Data[models.Category](t, rec)
	assert.Equal(t, "pos-systems", cat.Slug)
	assert.True(t, cat.IsActive)

	rec = testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPost, Path: "/api/admin/products", Token: token,
		Body: map[string]interface{}{"category_id": cat.ID.String(), "name": "Counter Terminal"},
	})
	require.True(t, testkit.AssertStatus(t, http.StatusCreated, rec))
	product := testkit.Data[models.Product](t, rec)

	rec = testkit.Get(t, a.handler, "/api/categories/pos-systems/products", "")
	require.True(t, testkit.AssertStatus(t, http.StatusOK, rec))
	assert.EqualValues(t, 1, testkit.Envelope(t, rec).Meta.Total)

	rec = testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPatch, Path: "/api/admin/categories/" + cat.ID.String() + "/status", Token: token,
		Body: map[string]bool{"is_active": false},
	})
	require.True(t, testkit.AssertStatus(t, http.StatusOK, rec))

	rec = testkit.Get(t, a.handler, "/api/categories/pos-systems/products", "")
	require.True(t, testkit.AssertStatus(t, http.StatusOK, rec), "an inactive category lists nothing")
	assert.EqualValues(t, 0, testkit.Envelope(t, rec).Meta.Total)
	assert.JSONEq(t, `[]`, string(testkit.Envelope(t, rec).Data))

	rec = testkit.Get(t, a.handler, "/api/categories/pos-systems", "")
	testkit.AssertStatus(t, http.StatusNotFound, rec)

	rec = testkit.Get(t, a.handler, "/api/products/counter-terminal", "")
	testkit.AssertStatus(t, http.StatusNotFound, rec)

	rec = testkit.Get(t, a.handler, "/api/admin/products/"+product.ID.String(), token)
	require.True(t, testkit.AssertStatus(t, http.StatusOK, rec))
	assert.False(t, testkit.Data[models.Product](t, rec).IsActive)

	rec = testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPatch, Path: "/api/admin/products/" + product.ID.String() + "/status", Token: token,
		Body: map[string]bool{"is_active": true},
	})
	testkit.AssertStatus(t, http.StatusConflict, rec)

	rec = testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPatch, Path: "/api/admin/categories/" + cat.ID.String() + "/status", Token: token,
		Body: map[string]bool{"is_active": true},
	})
	require.True(t, testkit.AssertStatus(t, http.StatusOK, rec))

	rec = testkit.Get(t, a.handler, "/api/products/counter-terminal", "")
	testkit.AssertStatus(t, http.StatusOK, rec)
}

func TestStatusRequiresIsActive(t *testing.T) {
	a := newApp(t)
	token := a.login(t, "admin@example.com", models.RoleAdmin)
	cat, err := a.k.Catalog.Categories.Create(context.Background(), &requests.CreateCategory{Name: "Kiosks"}, "test")
	require.NoError(t, err)

	rec := testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPatch, Path: "/api/admin/categories/" + cat.ID.String() + "/status", Token: token,
		Body: map[string]string{},
	})
	testkit.AssertStatus(t, http.StatusUnprocessableEntity, rec)

	rec = testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPatch, Path: "/api/admin/categories/not-a-uuid/status", Token: token,
		Body: map[string]bool{"is_active": true},
	})
	testkit.AssertStatus(t, http.StatusUnprocessableEntity, rec)
}

func TestChildRoutes(t *testing.T) {
	a := newApp(t)
	token := a.login(t, "admin@example.com", models.RoleAdmin)
	ctx := context.Background()

	cat, err := a.k.Catalog.Categories.Create(ctx, &requests.CreateCategory{Name: "Terminals"}, "test")
	require.NoError(t, err)
	p, err := a.k.Catalog.Products.Create(ctx, &requests.CreateProduct{CategoryID: cat.ID.String(), Name: "T1"}, "test")
	require.NoError(t, err)
	base := "/api/admin/products/" + p.ID.String() + "/specifications"

	rec := testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPost, Path: base, Token: token,
		Body: map[string]string{"specification_key": "Weight", "specification_value": "2 kg"},
	})
	require.True(t, testkit.AssertStatus(t, http.StatusCreated, rec))
	spec := testkit.Data[models.ProductSpecification](t, rec)
	assert.Equal(t, p.ID, spec.ProductID)

	rec = testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPut, Path: base + "/" + spec.ID.String(), Token: token,
		Body: map[string]string{"specification_value": "2.5 kg"},
	})
	require.True(t, testkit.AssertStatus(t, http.StatusOK, rec))
	assert.Equal(t, "2.5 kg", testkit.Data[models.ProductSpecification](t, rec).SpecificationValue)

	rec = testkit.Get(t, a.handler, base, token)
	require.True(t, testkit.AssertStatus(t, http.StatusOK, rec))
	assert.Len(t, testkit.Data[[]models.ProductSpecification](t, rec), 1)

	rec = testkit.Request(t, a.handler, testkit.Call{Method: http.MethodDelete, Path: base + "/" + spec.ID.String(), Token: token})
	testkit.AssertStatus(t, http.StatusNoContent, rec)

	rec = testkit.Request(t, a.handler, testkit.Call{Method: http.MethodDelete, Path: base + "/" + spec.ID.String() + "/purge", Token: token})
	testkit.AssertStatus(t, http.StatusNoContent, rec)
}

func TestPublicSubmissions(t *testing.T) {
	a := newApp(t)

	rec := testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPost, Path: "/api/contacts",
		Body: map[string]string{"name": "Ravi", "email": "ravi@example.com", "message": "Call me back"},
	})
	testkit.AssertStatus(t, http.StatusCreated, rec)

	rec = testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPost, Path: "/api/enquiries",
		Body: map[string]string{"name": "Asha", "email": "not-an-email", "message": "Price?"},
	})
	testkit.AssertStatus(t, http.StatusUnprocessableEntity, rec)

	token := a.login(t, "admin@example.com", models.RoleAdmin)
	rec = testkit.Get(t, a.handler, "/api/admin/contacts", token)
	require.True(t, testkit.AssertStatus(t, http.StatusOK, rec))
	assert.EqualValues(t, 1, testkit.Envelope(t, rec).Meta.Total)
}

func TestGraphQLEndpoint(t *testing.T) {
	a := newApp(t)
	_, err := a.k.Catalog.Categories.Create(context.Background(), &requests.CreateCategory{Name: "POS Systems"}, "test")
	require.NoError(t, err)

	rec := testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPost, Path: "/api/graphql",
		Body: map[string]string{"query": `{ categories { data { slug } meta { total } } }`},
	})
	require.True(t, testkit.AssertStatus(t, http.StatusOK, rec))
	assert.Contains(t, rec.Body.String(), `"slug":"pos-systems"`)

	rec = testkit.Request(t, a.handler, testkit.Call{
		Method: http.MethodPost, Path: "/api/graphql", Body: map[string]string{},
	})
	testkit.AssertStatus(t, http.StatusUnprocessableEntity, rec)
}

func TestHealthAndFallbacks(t *testing.T) {
	a := newApp(t)

	rec := testkit.Get(t, a.handler, "/api/health", "")
	testkit.AssertStatus(t, http.StatusOK, rec)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = testkit.Get(t, a.handler, "/api/nope", "")
	testkit.AssertStatus(t, http.StatusNotFound, rec)
	assert.Equal(t, http.StatusNotFound, testkit.Envelope(t, rec).Status)

	rec = testkit.Request(t, a.handler, testkit.Call{Method: http.MethodDelete, Path: "/api/categories"})
	testkit.AssertStatus(t, http.StatusMethodNotAllowed, rec)

	rec = testkit.Get(t, a.handler, "/metrics", "")
	testkit.AssertStatus(t, http.StatusOK, rec)
	assert.Contains(t, rec.Body.String(), "catalogue_http_")
}

func TestRoutesAreNamed(t *testing.T) {
	a := newApp(t)
	r, err := a.k.Router()
	require.NoError(t, err)

	path, ok := r.Path("admin.products.images.status")
	require.True(t, ok)
	assert.Equal(t, "/api/admin/products/{id}/images/{childId}/status", path)

	for _, ri := range r.Routes() {
		assert.NotEmpty(t, ri.Name, "%s %s", ri.Method, ri.Path)
	}
}
