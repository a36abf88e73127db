// Package routes declares every HTTP endpoint of the catalogue.
package routes

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/catalogue/app/controllers"
	gqlschema "github.com/shashiranjanraj/catalogue/app/graphql"
	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/auth"
	"github.com/shashiranjanraj/catalogue/pkg/ctx"
	"github.com/shashiranjanraj/catalogue/pkg/graphql"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/middleware"
	"github.com/shashiranjanraj/catalogue/pkg/rbac"
	"github.com/shashiranjanraj/catalogue/pkg/response"
	"github.com/shashiranjanraj/catalogue/pkg/router"
)

// Deps carries what the route table needs. Health may be nil.
type Deps struct {
	Catalog *services.Catalog
	Tokens  *auth.Manager
	Health  func(context.Context) error
}

func RegisterAPI(r *router.Router, d Deps) error {
	schema, err := gqlschema.Schema(d.Catalog.Public)
	if err != nil {
		return err
	}

	public := controllers.NewPublicController(d.Catalog.Public, d.Catalog.Inbox)

	api := r.Group("/api")
	api.Get("/health", "health", health(d.Health))
	api.Post("/graphql", "graphql", graphql.Handler(schema))

	api.Get("/categories", "public.categories.index", ctx.Wrap(public.Categories))
	api.Get("/categories/{slug}", "public.categories.show", ctx.Wrap(public.Category))
	api.Get("/categories/{slug}/products", "public.categories.products", ctx.Wrap(public.CategoryProducts))
	api.Get("/products/{slug}", "public.products.show", ctx.Wrap(public.Product))
	api.Get("/blogs", "public.blogs.index", ctx.Wrap(public.Blogs))
	api.Get("/blogs/{slug}", "public.blogs.show", ctx.Wrap(public.Blog))
	api.Post("/enquiries", "public.enquiries.store", ctx.Wrap(public.SubmitEnquiry))
	api.Post("/contacts", "public.contacts.store", ctx.Wrap(public.SubmitContact))

	registerAdmin(api, d)
	return nil
}

func registerAdmin(api *router.Group, d Deps) {
	authController := controllers.NewAuthController(d.Catalog.Auth)
	api.Post("/admin/login", "admin.login", ctx.Wrap(authController.Login))

	admin := api.Group("/admin",
		middleware.Authenticate(d.Tokens),
		rbac.HasRole(models.RoleAdmin, models.RoleEditor),
	)
	admin.Get("/me", "admin.me", ctx.Wrap(authController.Me))
	admin.Post("/users", "admin.users.store", ctx.Wrap(authController.CreateUser), rbac.HasRole(models.RoleAdmin))

	categories := controllers.NewCategoryController(d.Catalog.Categories)
	resource(admin, "categories", resourceHandlers{
		index: categories.Index, show: categories.Show, store: categories.Store,
		update: categories.Update, status: categories.Status,
		destroy: categories.Destroy, purge: categories.Purge,
	})

	products := controllers.NewProductController(d.Catalog.Products)
	resource(admin, "products", resourceHandlers{
		index: products.Index, show: products.Show, store: products.Store,
		update: products.Update, status: products.Status,
		destroy: products.Destroy, purge: products.Purge,
	})
	children(admin, "products", "images", controllers.NewImageController(d.Catalog.Images))
	children(admin, "products", "key-features", controllers.NewKeyFeatureController(d.Catalog.KeyFeatures))
	children(admin, "products", "specifications", controllers.NewSpecificationController(d.Catalog.Specifications))

	blogs := controllers.NewBlogController(d.Catalog.Blogs)
	resource(admin, "blogs", resourceHandlers{
		index: blogs.Index, show: blogs.Show, store: blogs.Store,
		update: blogs.Update, status: blogs.Status,
		destroy: blogs.Destroy, purge: blogs.Purge,
	})
	children(admin, "blogs", "tags", controllers.NewBlogTagController(d.Catalog.BlogTags))

	inbox := controllers.NewInboxController(d.Catalog.Inbox)
	admin.Get("/enquiries", "admin.enquiries.index", ctx.Wrap(inbox.Enquiries))
	admin.Get("/enquiries/{id}", "admin.enquiries.show", ctx.Wrap(inbox.Enquiry))
	admin.Get("/contacts", "admin.contacts.index", ctx.Wrap(inbox.Contacts))
	admin.Get("/contacts/{id}", "admin.contacts.show", ctx.Wrap(inbox.Contact))

	assets := controllers.NewAssetController(d.Catalog.Assets)
	admin.Post("/assets", "admin.assets.store", ctx.Wrap(assets.Upload))

	cascade := controllers.NewCascadeController(d.Catalog.Cascade)
	admin.Post("/cascade/reconcile", "admin.cascade.reconcile", ctx.Wrap(cascade.Reconcile))
}

type resourceHandlers struct {
	index, show, store, update, status, destroy, purge ctx.HandlerFunc
}

func resource(g *router.Group, name string, h resourceHandlers) {
	base := "/" + name
	g.Get(base, "admin."+name+".index", ctx.Wrap(h.index))
	g.Post(base, "admin."+name+".store", ctx.Wrap(h.store))
	g.Get(base+"/{id}", "admin."+name+".show", ctx.Wrap(h.show))
	g.Put(base+"/{id}", "admin."+name+".update", ctx.Wrap(h.update))
	g.Patch(base+"/{id}/status", "admin."+name+".status", ctx.Wrap(h.status))
	g.Delete(base+"/{id}", "admin."+name+".destroy", ctx.Wrap(h.destroy))
	g.Delete(base+"/{id}/purge", "admin."+name+".purge", ctx.Wrap(h.purge))
}

// childRoutes is satisfied by every ChildController instantiation.
type childRoutes interface {
	Index(*ctx.Context)
	Store(*ctx.Context)
	Update(*ctx.Context)
	Status(*ctx.Context)
	Destroy(*ctx.Context)
	Purge(*ctx.Context)
}

func children(g *router.Group, parent, name string, h childRoutes) {
	base := "/" + parent + "/{id}/" + name
	prefix := "admin." + parent + "." + name
	g.Get(base, prefix+".index", ctx.Wrap(h.Index))
	g.Post(base, prefix+".store", ctx.Wrap(h.Store))
	g.Put(base+"/{childId}", prefix+".update", ctx.Wrap(h.Update))
	g.Patch(base+"/{childId}/status", prefix+".status", ctx.Wrap(h.Status))
	g.Delete(base+"/{childId}", prefix+".destroy", ctx.Wrap(h.Destroy))
	g.Delete(base+"/{childId}/purge", prefix+".purge", ctx.Wrap(h.Purge))
}

func health(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger.WithCtx(r.Context()).Error("health check failed", "error", err)
				response.Error(w, http.StatusServiceUnavailable, "database unreachable")
				return
			}
		}
		response.Success(w, map[string]string{"status": "ok"})
	}
}
