package seeders

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
)

const seedActor = "seeder"

func init() {
	Register("admin", seedAdmin)
	Register("catalog", seedCatalog)
	Register("blogs", seedBlogs)
}

func seedAdmin(ctx context.Context, svc *services.Catalog) error {
	_, err := svc.Auth.CreateUser(ctx, &requests.CreateAdminUser{
		Name:     "Administrator",
		Email:    config.Get("SEED_ADMIN_EMAIL", "admin@example.com"),
		Password: config.Get("SEED_ADMIN_PASSWORD", "change-me-now"),
		Role:     models.RoleAdmin,
	}, seedActor)
	return skipExisting(err)
}

type seedProduct struct {
	name     string
	title    string
	warranty string
	features []string
	specs    [][2]string
}

var posProducts = []seedProduct{
	{
		name:     "Counter Terminal X1",
		title:    "All-in-one touch POS terminal",
		warranty: "1 year",
		features: []string{"15.6\" touch display", "Built-in thermal printer", "Customer-facing display"},
		specs:    [][2]string{{"Processor", "Quad-core 2.0 GHz"}, {"Memory", "4 GB"}, {"Storage", "64 GB"}},
	},
	{
		name:     "Handheld Biller H2",
		title:    "Android handheld billing device",
		warranty: "6 months",
		features: []string{"58 mm printer", "4G and Wi-Fi", "All-day battery"},
		specs:    [][2]string{{"Display", "5.5\" HD"}, {"Battery", "5000 mAh"}},
	},
	{
		name:  "Cash Drawer CD-410",
		title: "Five-note, eight-coin cash drawer",
		specs: [][2]string{{"Interface", "RJ11"}, {"Weight", "6.5 kg"}},
	},
}

// seedCatalog creates the "POS Systems" category with a few products. It is
// a no-op once the category exists.
func seedCatalog(ctx context.Context, svc *services.Catalog) error {
	cat, err := svc.Categories.Create(ctx, &requests.CreateCategory{
		Name:  "POS Systems",
		Title: ptr("Point of sale hardware"),
	}, seedActor)
	if err != nil {
		return skipExisting(err)
	}

	for _, sp := range posProducts {
		in := &requests.CreateProduct{
			CategoryID: cat.ID.String(),
			Name:       sp.name,
			Title:      ptr(sp.title),
		}
		if sp.warranty != "" {
			in.IsWarranty = true
			in.WarrantyPeriod = ptr(sp.warranty)
		}
		p, err := svc.Products.Create(ctx, in, seedActor)
		if err != nil {
			return err
		}
		for _, f := range sp.features {
			in := &requests.CreateKeyFeature{Name: f}
			if _, err := svc.KeyFeatures.Create(ctx, p.ID, in.Model, seedActor); err != nil {
				return err
			}
		}
		for _, kv := range sp.specs {
			in := &requests.CreateSpecification{Key: kv[0], Value: kv[1]}
			if _, err := svc.Specifications.Create(ctx, p.ID, in.Model, seedActor); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedBlogs(ctx context.Context, svc *services.Catalog) error {
	_, err := svc.Blogs.Create(ctx, &requests.CreateBlog{
		Title:       "Choosing a POS system for a small store",
		Description: "What to compare before buying billing hardware: printers, connectivity and support.",
		Tags:        []string{"pos", "retail", "buying guide"},
	}, seedActor)
	return skipExisting(err)
}

// skipExisting makes re-running a seeder harmless.
func skipExisting(err error) error {
	if errors.Is(err, apperr.ErrConflict) {
		return nil
	}
	return err
}

func ptr[T any](v T) *T { return &v }
