package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/auth"
	"github.com/shashiranjanraj/catalogue/pkg/event"
	"github.com/shashiranjanraj/catalogue/pkg/storage"
	"github.com/shashiranjanraj/catalogue/pkg/testkit"
)

const actor = "11111111-1111-1111-1111-111111111111"

type fixture struct {
	db     *gorm.DB
	bus    *event.Bus
	disk   *storage.LocalDisk
	svc    *services.Catalog
	events []event.Event
}

func newFixture(t *testing.T, opts ...services.CoordinatorOption) *fixture {
	t.Helper()
	f := &fixture{
		db:   testkit.DB(t),
		bus:  event.NewBus(),
		disk: storage.NewLocalDisk(t.TempDir(), "http://assets.test/storage"),
	}
	f.bus.Listen(event.CatalogChanged, func(_ context.Context, e event.Event) { f.events = append(f.events, e) })
	f.bus.Listen(event.CascadeApplied, func(_ context.Context, e event.Event) { f.events = append(f.events, e) })

	deps := services.Deps{
		DB:     f.db,
		Events: f.bus,
		Assets: services.NewAssetService(storage.NewManagerWith(f.disk)),
	}
	f.svc = services.NewCatalog(deps, auth.NewManager("test-secret", time.Hour), opts...)
	return f
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) category(t *testing.T, name string, active bool) *models.Category {
	t.Helper()
	cat, err := f.svc.Categories.Create(context.Background(), &requests.CreateCategory{
		Name: name, IsActive: ptr(active),
	}, actor)
	require.NoError(t, err)
	return cat
}

func (f *fixture) product(t *testing.T, categoryID uuid.UUID, name string, active bool) *models.Product {
	t.Helper()
	p, err := f.svc.Products.Create(context.Background(), &requests.CreateProduct{
		CategoryID: categoryID.String(), Name: name, IsActive: ptr(active),
	}, actor)
	require.NoError(t, err)
	return p
}

// reloadProduct reads the row straight from the table, bypassing visibility.
func (f *fixture) reloadProduct(t *testing.T, id uuid.UUID) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, f.db.Where("id = ?", id).Take(&p).Error)
	return p
}

func (f *fixture) reloadCategory(t *testing.T, id uuid.UUID) models.Category {
	t.Helper()
	var c models.Category
	require.NoError(t, f.db.Where("id = ?", id).Take(&c).Error)
	return c
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
