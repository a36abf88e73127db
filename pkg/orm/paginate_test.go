package orm_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
	"github.com/shashiranjanraj/catalogue/pkg/testkit"
)

var categorySpec = orm.Spec{
	Entity:        "category",
	SearchColumns: []string{"name", "slug"},
	Sorts:         orm.DefaultSorts,
	DefaultSort:   "name",
}

func seed(t *testing.T, names ...string) *gorm.DB {
	t.Helper()
	db := testkit.DB(t)
	for i, name := range names {
		c := &models.Category{Name: name, Slug: fmt.Sprintf("c-%02d", i), Status: models.Status{IsActive: true}}
		require.NoError(t, db.Create(c).Error)
	}
	return db
}

func TestBuildMeta(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		pages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 7, 4},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.limit), func(t *testing.T) {
			m := orm.BuildMeta(1, tt.limit, tt.total)
			assert.Equal(t, tt.pages, m.TotalPages)
			assert.Equal(t, tt.total, m.Total)
		})
	}
}

func TestPaginateCoversEveryRowOnce(t *testing.T) {
	names := make([]string, 23)
	for i := range names {
		names[i] = fmt.Sprintf("Category %02d", i)
	}
	db := seed(t, names...)
	ctx := context.Background()

	seen := map[string]bool{}
	var total int64
	for page := 1; ; page++ {
		res, err := orm.Paginate[models.Category](ctx, db, orm.Query{Page: page, Limit: 5}, categorySpec)
		require.NoError(t, err)
		total = res.Meta.Total
		assert.Equal(t, 5, res.Meta.TotalPages)
		if len(res.Data) == 0 {
			assert.Equal(t, 6, page, "first empty page follows the last one")
			break
		}
		for _, c := range res.Data {
			assert.False(t, seen[c.Name], "duplicate %s", c.Name)
			seen[c.Name] = true
		}
	}
	assert.EqualValues(t, 23, total)
	assert.Len(t, seen, 23)
}

func TestPaginateSortsAndSearches(t *testing.T) {
	db := seed(t, "Printers", "POS Systems", "Scanners", "100% Cotton", "cash_drawers")
	ctx := context.Background()

	res, err := orm.Paginate[models.Category](ctx, db, orm.Query{Page: 1, Limit: 10}, categorySpec)
	require.NoError(t, err)
	require.Len(t, res.Data, 5)
	assert.Equal(t, "100% Cotton", res.Data[0].Name, "default sort is by name")

	res, err = orm.Paginate[models.Category](ctx, db, orm.Query{Page: 1, Limit: 10, Search: "pos"}, categorySpec)
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "POS Systems", res.Data[0].Name)

	res, err = orm.Paginate[models.Category](ctx, db, orm.Query{Page: 1, Limit: 10, Search: "%"}, categorySpec)
	require.NoError(t, err)
	require.Len(t, res.Data, 1, "wildcards match literally")
	assert.Equal(t, "100% Cotton", res.Data[0].Name)

	res, err = orm.Paginate[models.Category](ctx, db, orm.Query{Page: 1, Limit: 10, Search: "_"}, categorySpec)
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "cash_drawers", res.Data[0].Name)
}

func TestPaginateRejectsBadQuery(t *testing.T) {
	db := seed(t)
	ctx := context.Background()

	_, err := orm.Paginate[models.Category](ctx, db, orm.Query{Page: 0, Limit: 0, SortBy: "price"}, categorySpec)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	fields := apperr.FieldsOf(err)
	assert.Contains(t, fields, "page")
	assert.Contains(t, fields, "limit")
	assert.Equal(t, "must be one of created_at, name", fields["sort_by"])
}

func TestPaginateEmptyTable(t *testing.T) {
	db := seed(t)
	res, err := orm.Paginate[models.Category](context.Background(), db, orm.Query{Page: 3, Limit: 10}, categorySpec)
	require.NoError(t, err)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, orm.Meta{Page: 3, Limit: 10, Total: 0, TotalPages: 0}, res.Meta)
}

func TestPaginatePastTheLastPageIsEmpty(t *testing.T) {
	db := seed(t, "Printers", "Scanners", "Terminals")
	ctx := context.Background()

	for _, page := range []int{2, math.MaxInt64/10 + 2, math.MaxInt} {
		res, err := orm.Paginate[models.Category](ctx, db, orm.Query{Page: page, Limit: 10}, categorySpec)
		require.NoError(t, err)
		assert.Empty(t, res.Data, "page %d", page)
		assert.EqualValues(t, 3, res.Meta.Total)
		assert.Equal(t, 1, res.Meta.TotalPages)
	}
}

func TestPaginateReportsMalformedNumbers(t *testing.T) {
	db := seed(t)
	_, err := orm.Paginate[models.Category](context.Background(), db,
		orm.Query{Page: 0, Limit: 10, Malformed: []string{"page"}}, categorySpec)
	require.Error(t, err)
	assert.Equal(t, "must be an integer", apperr.FieldsOf(err)["page"])
	assert.NotContains(t, apperr.FieldsOf(err), "limit")
}
