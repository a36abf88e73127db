package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

func TestPublicCategoryListingPagesAgreeWithTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pos := f.category(t, "POS Systems", true)
	other := f.category(t, "Scanners", true)

	for _, name := range []string{"Counter Terminal", "Kiosk Terminal", "Mobile Terminal", "Cash Drawer"} {
		f.product(t, pos.ID, name, true)
	}
	f.product(t, pos.ID, "Draft Terminal", false)
	gone := f.product(t, pos.ID, "Retired Terminal", true)
	require.NoError(t, f.svc.Products.Delete(ctx, gone.ID, actor))
	f.product(t, other.ID, "Handheld Terminal", true)

	seen := map[string]bool{}
	var total int64
	for page := 1; ; page++ {
		res, err := f.svc.Public.ProductsByCategory(ctx, pos.Slug, orm.Query{Page: page, Limit: 2, Search: "terminal"})
		require.NoError(t, err)
		total = res.Meta.Total
		if len(res.Data) == 0 {
			break
		}
		for _, p := range res.Data {
			assert.False(t, seen[p.Name], "%s returned twice", p.Name)
			seen[p.Name] = true
		}
	}

	assert.EqualValues(t, len(seen), total)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"Counter Terminal", "Kiosk Terminal", "Mobile Terminal"}, names)
}
