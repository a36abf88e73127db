// Package orm holds the paginated list builder shared by every repository.
//
// A list request is split into a count query and a data query. Both are
// derived from the same filtered chain so they can never disagree on which
// rows qualify; only ordering, offset and limit are added to the data query.
package orm

import (
	"context"
	"math"
	"slices"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/pkg/apperr"
)

// Query is a validated list request.
type Query struct {
	Page   int
	Limit  int
	Search string
	SortBy string
	// Malformed names the paging parameters that were sent but were not
	// integers.
	Malformed []string `json:",omitempty"`
}

// Offset is (page-1)*limit.
func (q Query) Offset() int { return (q.Page - 1) * q.Limit }

// Spec describes how one entity is listed.
type Spec struct {
	Entity string
	// SearchColumns are matched case-insensitively with OR.
	SearchColumns []string
	// Sorts maps a sort_by value to an ORDER BY clause.
	Sorts       map[string]string
	DefaultSort string
	// Preload applies to the data query only.
	Preload []string
}

// Meta is the pagination envelope returned next to the data.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Result is one page of T. Data is never nil so it encodes as [].
type Result[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// Standard sort options used by the catalog entities.
var DefaultSorts = map[string]string{
	"name":       "name ASC",
	"created_at": "created_at DESC",
}

// BuildMeta computes totalPages = ceil(total/limit), 0 when total is 0.
func BuildMeta(page, limit int, total int64) Meta {
	pages := 0
	if total > 0 && limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Meta{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// Validate checks page, limit and sort_by against spec.
func (q Query) Validate(spec Spec) error {
	fields := map[string]string{}
	for name, v := range map[string]int{"page": q.Page, "limit": q.Limit} {
		switch {
		case slices.Contains(q.Malformed, name):
			fields[name] = "must be an integer"
		case v < 1:
			fields[name] = "must be a positive integer"
		}
	}
	if q.SortBy != "" {
		if _, ok := spec.Sorts[q.SortBy]; !ok {
			fields["sort_by"] = "must be one of " + strings.Join(sortKeys(spec), ", ")
		}
	}
	if len(fields) > 0 {
		return apperr.Validation(spec.Entity, fields)
	}
	return nil
}

// Paginate runs the count and data queries for base, which must already carry
// the visibility and equality filters. Model is set from T. The with scopes
// apply to the data query only, for preloads that take conditions.
func Paginate[T any](ctx context.Context, base *gorm.DB, q Query, spec Spec, with ...func(*gorm.DB) *gorm.DB) (Result[T], error) {
	if err := q.Validate(spec); err != nil {
		return Result[T]{}, err
	}

	filtered := Search(base.WithContext(ctx).Model(new(T)), q.Search, spec.SearchColumns).
		Session(&gorm.Session{})

	var total int64
	if err := filtered.Count(&total).Error; err != nil {
		return Result[T]{}, apperr.Dependency(spec.Entity, "", "count", err)
	}

	out := Result[T]{Data: make([]T, 0), Meta: BuildMeta(q.Page, q.Limit, total)}
	// Compared on pages so a huge page number cannot overflow the offset.
	if total == 0 || q.Page > out.Meta.TotalPages {
		return out, nil
	}

	data := filtered.Order(orderClause(q.SortBy, spec)).Order("id ASC").
		Offset(q.Offset()).Limit(q.Limit)
	for _, rel := range spec.Preload {
		data = data.Preload(rel)
	}
	data = data.Scopes(with...)
	if err := data.Find(&out.Data).Error; err != nil {
		return Result[T]{}, apperr.Dependency(spec.Entity, "", "list", err)
	}
	return out, nil
}

// Search ANDs a case-insensitive substring match over columns (joined with OR).
// LIKE wildcards in term are escaped with '!' which every supported dialect
// accepts as an ESCAPE character.
func Search(db *gorm.DB, term string, columns []string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return db
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + ") LIKE ? ESCAPE '!'"
		args[i] = pattern
	}
	return db.Where("("+strings.Join(parts, " OR ")+")", args...)
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

func orderClause(sortBy string, spec Spec) string {
	if clause, ok := spec.Sorts[sortBy]; ok {
		return clause
	}
	if clause, ok := spec.Sorts[spec.DefaultSort]; ok {
		return clause
	}
	return "created_at DESC"
}

func sortKeys(spec Spec) []string {
	keys := make([]string, 0, len(spec.Sorts))
	for k := range spec.Sorts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
