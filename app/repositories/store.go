package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

// Visibility selects which status flags a read honours.
type Visibility int

const (
	// Public reads see active, non-deleted rows.
	Public Visibility = iota
	// Admin reads see every non-deleted row.
	Admin
	// Any ignores both flags. Used by lifecycle operations.
	Any
)

// Scope returns the WHERE clause for v.
func (v Visibility) Scope(db *gorm.DB) *gorm.DB {
	switch v {
	case Public:
		return db.Where("is_active = ? AND is_deleted = ?", true, false)
	case Admin:
		return db.Where("is_deleted = ?", false)
	default:
		return db
	}
}

// StoreOptions configure a Store for one entity.
type StoreOptions struct {
	Entity string
	// UniqueSlug enables the live-row slug uniqueness check.
	UniqueSlug bool
	List       orm.Spec
}

// Store is the generic CRUD layer over one status-flagged table. P is the
// pointer type of T so models can be created and stamped in place.
type Store[T any, P interface {
	*T
	models.Entity
}] struct {
	db   *gorm.DB
	opts StoreOptions
}

func NewStore[T any, P interface {
	*T
	models.Entity
}](db *gorm.DB, opts StoreOptions) *Store[T, P] {
	if opts.List.Entity == "" {
		opts.List.Entity = opts.Entity
	}
	return &Store[T, P]{db: db, opts: opts}
}

// WithTx returns a copy of the store bound to tx.
func (s *Store[T, P]) WithTx(tx *gorm.DB) *Store[T, P] {
	return &Store[T, P]{db: tx, opts: s.opts}
}

func (s *Store[T, P]) DB(ctx context.Context) *gorm.DB { return s.db.WithContext(ctx) }

func (s *Store[T, P]) Entity() string { return s.opts.Entity }

// Create inserts ent stamped by actor. A slug already held by a live row of
// the same entity is a ConflictError.
func (s *Store[T, P]) Create(ctx context.Context, ent P, actor string) error {
	if s.opts.UniqueSlug {
		if sl, ok := any(ent).(models.Slugged); ok {
			if err := s.ensureSlugFree(ctx, sl.SlugValue(), uuid.Nil); err != nil {
				return err
			}
		}
	}
	ent.Stamp(actor)
	if err := s.DB(ctx).Create(ent).Error; err != nil {
		return s.wrap(err, ent.Key(), "create", slugOf(ent))
	}
	return nil
}

// Update applies fields to the live row id and returns the fresh row.
// Missing and soft-deleted rows are NotFound.
func (s *Store[T, P]) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}, actor string) (P, error) {
	if _, err := s.Find(ctx, id, Admin); err != nil {
		return nil, err
	}
	if slug, ok := fields["slug"].(string); ok && s.opts.UniqueSlug {
		if err := s.ensureSlugFree(ctx, slug, id); err != nil {
			return nil, err
		}
	}

	values := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["updated_by"] = actor

	res := s.DB(ctx).Model(new(T)).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(values)
	if res.Error != nil {
		slug, _ := fields["slug"].(string)
		return nil, s.wrap(res.Error, id, "update", slug)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound(s.opts.Entity, id.String())
	}
	return s.Find(ctx, id, Admin)
}

// SoftDelete marks id deleted and inactive. Deleting an already deleted row
// is a no-op and reports changed=false.
func (s *Store[T, P]) SoftDelete(ctx context.Context, id uuid.UUID, actor string) (changed bool, err error) {
	row, err := s.Find(ctx, id, Any)
	if err != nil {
		return false, err
	}
	if row.Flags().IsDeleted {
		return false, nil
	}

	res := s.DB(ctx).Model(new(T)).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"is_active":  false,
			"updated_by": actor,
		})
	if res.Error != nil {
		return false, apperr.FromDB(s.opts.Entity, id.String(), "soft-delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ToggleStatus sets is_active on a non-deleted row. A deleted row is an
// InvalidStateError and is left untouched. Setting the current value is a
// no-op reported as changed=false.
func (s *Store[T, P]) ToggleStatus(ctx context.Context, id uuid.UUID, active bool, actor string) (row P, changed bool, err error) {
	row, err = s.Find(ctx, id, Any)
	if err != nil {
		return nil, false, err
	}
	flags := row.Flags()
	if flags.IsDeleted {
		return nil, false, apperr.InvalidState(s.opts.Entity, id.String(), "toggle",
			"a deleted "+s.opts.Entity+" cannot change status")
	}
	if flags.IsActive == active {
		return row, false, nil
	}

	res := s.DB(ctx).Model(new(T)).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"is_active": active, "updated_by": actor})
	if res.Error != nil {
		return nil, false, apperr.FromDB(s.opts.Entity, id.String(), "toggle", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, false, apperr.InvalidState(s.opts.Entity, id.String(), "toggle",
			"a deleted "+s.opts.Entity+" cannot change status")
	}
	row, err = s.Find(ctx, id, Any)
	return row, err == nil, err
}

// HardDelete removes the row. Dependent rows and assets are the caller's job.
func (s *Store[T, P]) HardDelete(ctx context.Context, id uuid.UUID) error {
	res := s.DB(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return apperr.FromDB(s.opts.Entity, id.String(), "hard-delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(s.opts.Entity, id.String())
	}
	return nil
}

// Find loads id under visibility v.
func (s *Store[T, P]) Find(ctx context.Context, id uuid.UUID, v Visibility, preload ...string) (P, error) {
	return s.FindBy(ctx, "id", id, v, preload...)
}

// FindBy loads the first row where column = value under visibility v.
func (s *Store[T, P]) FindBy(ctx context.Context, column string, value interface{}, v Visibility, preload ...string) (P, error) {
	q := v.Scope(s.DB(ctx)).Where(column+" = ?", value)
	for _, rel := range preload {
		q = q.Preload(rel)
	}
	var row T
	if err := q.Take(&row).Error; err != nil {
		key := ""
		if id, ok := value.(uuid.UUID); ok {
			key = id.String()
		} else if str, ok := value.(string); ok {
			key = str
		}
		return nil, apperr.FromDB(s.opts.Entity, key, "find", err)
	}
	return &row, nil
}

// List runs the paginated builder under visibility v. Scopes add equality
// filters such as category_id and are applied to both count and data.
func (s *Store[T, P]) List(ctx context.Context, q orm.Query, v Visibility, scopes ...func(*gorm.DB) *gorm.DB) (orm.Result[T], error) {
	return s.listWith(ctx, q, v, nil, scopes...)
}

// listWith is List with extra data-only scopes, used for filtered preloads.
func (s *Store[T, P]) listWith(ctx context.Context, q orm.Query, v Visibility, with []func(*gorm.DB) *gorm.DB, scopes ...func(*gorm.DB) *gorm.DB) (orm.Result[T], error) {
	base := v.Scope(s.DB(ctx)).Scopes(scopes...)
	return orm.Paginate[T](ctx, base, q, s.opts.List, with...)
}

// SlugTaken reports whether slug is held by a live row other than except.
func (s *Store[T, P]) SlugTaken(ctx context.Context, slug string, except uuid.UUID) (bool, error) {
	q := s.DB(ctx).Model(new(T)).Where("slug = ? AND is_deleted = ?", slug, false)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, apperr.Dependency(s.opts.Entity, except.String(), "slug-check", err)
	}
	return n > 0, nil
}

func (s *Store[T, P]) ensureSlugFree(ctx context.Context, slug string, except uuid.UUID) error {
	taken, err := s.SlugTaken(ctx, slug, except)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(s.opts.Entity, "slug", slug)
	}
	return nil
}

func (s *Store[T, P]) wrap(err error, id uuid.UUID, action, slug string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) && slug != "" {
		return apperr.Conflict(s.opts.Entity, "slug", slug)
	}
	key := ""
	if id != uuid.Nil {
		key = id.String()
	}
	return apperr.FromDB(s.opts.Entity, key, action, err)
}

func slugOf(v interface{}) string {
	if sl, ok := v.(models.Slugged); ok {
		return sl.SlugValue()
	}
	return ""
}

// WhereEq is a list scope for one equality filter.
func WhereEq(column string, value interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where(column+" = ?", value) }
}
