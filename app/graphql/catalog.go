// Package graphql exposes the public catalog reads as a GraphQL schema. It
// mirrors the public REST endpoints and shares their visibility rules and
// read cache.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/collection"
	gql "github.com/shashiranjanraj/catalogue/pkg/graphql"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

// from adapts a typed accessor to a field resolver.
func from[T any](fn func(T) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		src, ok := p.Source.(T)
		if !ok {
			return nil, nil
		}
		return fn(src), nil
	}
}

var imageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Image",
	Fields: graphql.Fields{
		"url":          {Type: graphql.String, Resolve: from(func(r models.ImageRef) interface{} { return r.URL() })},
		"baseUrl":      {Type: graphql.String, Resolve: from(func(r models.ImageRef) interface{} { return r.BaseURL })},
		"name":         {Type: graphql.String, Resolve: from(func(r models.ImageRef) interface{} { return r.Name })},
		"type":         {Type: graphql.String, Resolve: from(func(r models.ImageRef) interface{} { return r.Type })},
		"originalName": {Type: graphql.String, Resolve: from(func(r models.ImageRef) interface{} { return r.OriginalName })},
	},
})

// image returns nil for an empty reference so the field reads as null.
func image(r models.ImageRef) interface{} {
	if r.IsZero() {
		return nil
	}
	return r
}

var metaType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PageMeta",
	Fields: graphql.Fields{
		"page":       {Type: graphql.Int, Resolve: from(func(m orm.Meta) interface{} { return m.Page })},
		"limit":      {Type: graphql.Int, Resolve: from(func(m orm.Meta) interface{} { return m.Limit })},
		"total":      {Type: graphql.Int, Resolve: from(func(m orm.Meta) interface{} { return int(m.Total) })},
		"totalPages": {Type: graphql.Int, Resolve: from(func(m orm.Meta) interface{} { return m.TotalPages })},
	},
})

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":        {Type: graphql.NewNonNull(graphql.ID), Resolve: from(func(c *models.Category) interface{} { return c.ID.String() })},
		"name":      {Type: graphql.String, Resolve: from(func(c *models.Category) interface{} { return c.Name })},
		"title":     {Type: graphql.String, Resolve: from(func(c *models.Category) interface{} { return c.Title })},
		"slug":      {Type: graphql.String, Resolve: from(func(c *models.Category) interface{} { return c.Slug })},
		"image":     {Type: imageType, Resolve: from(func(c *models.Category) interface{} { return image(c.Image) })},
		"createdAt": {Type: graphql.DateTime, Resolve: from(func(c *models.Category) interface{} { return c.CreatedAt })},
	},
})

var productImageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductImage",
	Fields: graphql.Fields{
		"id":    {Type: graphql.ID, Resolve: from(func(i *models.ProductImage) interface{} { return i.ID.String() })},
		"image": {Type: imageType, Resolve: from(func(i *models.ProductImage) interface{} { return image(i.Image) })},
	},
})

var specificationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Specification",
	Fields: graphql.Fields{
		"key":   {Type: graphql.String, Resolve: from(func(s *models.ProductSpecification) interface{} { return s.SpecificationKey })},
		"value": {Type: graphql.String, Resolve: from(func(s *models.ProductSpecification) interface{} { return s.SpecificationValue })},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":             {Type: graphql.NewNonNull(graphql.ID), Resolve: from(func(p *models.Product) interface{} { return p.ID.String() })},
		"categoryId":     {Type: graphql.ID, Resolve: from(func(p *models.Product) interface{} { return p.CategoryID.String() })},
		"name":           {Type: graphql.String, Resolve: from(func(p *models.Product) interface{} { return p.Name })},
		"slug":           {Type: graphql.String, Resolve: from(func(p *models.Product) interface{} { return p.Slug })},
		"title":          {Type: graphql.String, Resolve: from(func(p *models.Product) interface{} { return p.Title })},
		"description":    {Type: graphql.String, Resolve: from(func(p *models.Product) interface{} { return p.Description })},
		"isWarranty":     {Type: graphql.Boolean, Resolve: from(func(p *models.Product) interface{} { return p.IsWarranty })},
		"warrantyPeriod": {Type: graphql.String, Resolve: from(func(p *models.Product) interface{} { return p.WarrantyPeriod })},
		"images": {Type: graphql.NewList(productImageType), Resolve: from(func(p *models.Product) interface{} {
			return collection.Pointers(p.Images)
		})},
		"keyFeatures": {Type: graphql.NewList(graphql.String), Resolve: from(func(p *models.Product) interface{} {
			return collection.Map(p.KeyFeatures, func(f models.ProductKeyFeature) string { return f.Name })
		})},
		"specifications": {Type: graphql.NewList(specificationType), Resolve: from(func(p *models.Product) interface{} {
			return collection.Pointers(p.Specifications)
		})},
	},
})

var blogType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Blog",
	Fields: graphql.Fields{
		"id":          {Type: graphql.NewNonNull(graphql.ID), Resolve: from(func(b *models.Blog) interface{} { return b.ID.String() })},
		"title":       {Type: graphql.String, Resolve: from(func(b *models.Blog) interface{} { return b.Title })},
		"slug":        {Type: graphql.String, Resolve: from(func(b *models.Blog) interface{} { return b.Slug })},
		"description": {Type: graphql.String, Resolve: from(func(b *models.Blog) interface{} { return b.Description })},
		"image":       {Type: imageType, Resolve: from(func(b *models.Blog) interface{} { return image(b.Image) })},
		"createdAt":   {Type: graphql.DateTime, Resolve: from(func(b *models.Blog) interface{} { return b.CreatedAt })},
		"tags": {Type: graphql.NewList(graphql.String), Resolve: from(func(b *models.Blog) interface{} {
			return collection.Map(b.Tags, func(t models.BlogTag) string { return t.Name })
		})},
	},
})

// page is the resolved value of a paginated list field.
type page struct {
	items interface{}
	meta  orm.Meta
}

func pageType(name string, item *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			"data": {Type: graphql.NewList(item), Resolve: from(func(p page) interface{} { return p.items })},
			"meta": {Type: metaType, Resolve: from(func(p page) interface{} { return p.meta })},
		},
	})
}

var pageArgs = graphql.FieldConfigArgument{
	"page":   {Type: graphql.Int, DefaultValue: 1},
	"limit":  {Type: graphql.Int},
	"search": {Type: graphql.String},
	"sortBy": {Type: graphql.String},
}

func pageQuery(p graphql.ResolveParams) orm.Query {
	return orm.Query{
		Page:   gql.IntArg(p, "page", 1),
		Limit:  min(gql.IntArg(p, "limit", config.PageDefaultLimit()), config.PageMaxLimit()),
		Search: gql.StringArg(p, "search"),
		SortBy: gql.StringArg(p, "sortBy"),
	}
}

var slugArg = graphql.FieldConfigArgument{
	"slug": {Type: graphql.NewNonNull(graphql.String)},
}

// Query builds the root query over svc.
func Query(svc *services.PublicService) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": {
				Type: pageType("CategoryPage", categoryType),
				Args: pageArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					res, err := svc.Categories(p.Context, pageQuery(p))
					if err != nil {
						return nil, err
					}
					return page{items: collection.Pointers(res.Data), meta: res.Meta}, nil
				},
			},
			"category": {
				Type: categoryType,
				Args: slugArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Category(p.Context, gql.StringArg(p, "slug"))
				},
			},
			"categoryProducts": {
				Type: pageType("ProductPage", productType),
				Args: graphql.FieldConfigArgument{
					"slug":   slugArg["slug"],
					"page":   pageArgs["page"],
					"limit":  pageArgs["limit"],
					"search": pageArgs["search"],
					"sortBy": pageArgs["sortBy"],
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					res, err := svc.ProductsByCategory(p.Context, gql.StringArg(p, "slug"), pageQuery(p))
					if err != nil {
						return nil, err
					}
					return page{items: collection.Pointers(res.Data), meta: res.Meta}, nil
				},
			},
			"product": {
				Type: productType,
				Args: slugArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Product(p.Context, gql.StringArg(p, "slug"))
				},
			},
			"blogs": {
				Type: pageType("BlogPage", blogType),
				Args: pageArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					res, err := svc.Blogs(p.Context, pageQuery(p))
					if err != nil {
						return nil, err
					}
					return page{items: collection.Pointers(res.Data), meta: res.Meta}, nil
				},
			},
			"blog": {
				Type: blogType,
				Args: slugArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Blog(p.Context, gql.StringArg(p, "slug"))
				},
			},
		},
	})
}

// Schema builds the public catalog schema.
func Schema(svc *services.PublicService) (graphql.Schema, error) {
	return gql.NewSchema(Query(svc))
}
