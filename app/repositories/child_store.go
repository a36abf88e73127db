package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
)

// ChildOptions describe a collection owned by a parent row.
type ChildOptions struct {
	StoreOptions
	ParentEntity string
	ParentTable  string
	ParentColumn string
}

// ChildStore is a Store scoped to one parent. Lifecycle operations behave
// exactly like the parent Store; listing and creation are parent-aware.
type ChildStore[T any, P interface {
	*T
	models.Entity
}] struct {
	*Store[T, P]
	child ChildOptions
}

func NewChildStore[T any, P interface {
	*T
	models.Entity
}](db *gorm.DB, opts ChildOptions) *ChildStore[T, P] {
	return &ChildStore[T, P]{Store: NewStore[T, P](db, opts.StoreOptions), child: opts}
}

func (s *ChildStore[T, P]) WithTx(tx *gorm.DB) *ChildStore[T, P] {
	return &ChildStore[T, P]{Store: s.Store.WithTx(tx), child: s.child}
}

func (s *ChildStore[T, P]) ParentEntity() string { return s.child.ParentEntity }

// ParentStatus reads the parent's flags. A missing parent is NotFound.
func (s *ChildStore[T, P]) ParentStatus(ctx context.Context, parentID uuid.UUID) (models.Status, error) {
	var st models.Status
	res := s.DB(ctx).Table(s.child.ParentTable).
		Select("is_active", "is_deleted").
		Where("id = ?", parentID).
		Limit(1).
		Scan(&st)
	if res.Error != nil {
		return st, apperr.Dependency(s.child.ParentEntity, parentID.String(), "find", res.Error)
	}
	if res.RowsAffected == 0 {
		return st, apperr.NotFound(s.child.ParentEntity, parentID.String())
	}
	return st, nil
}

// FindByParentID lists the children of parentID under visibility v, oldest first.
func (s *ChildStore[T, P]) FindByParentID(ctx context.Context, parentID uuid.UUID, v Visibility) ([]T, error) {
	out := make([]T, 0)
	err := v.Scope(s.DB(ctx)).
		Where(s.child.ParentColumn+" = ?", parentID).
		Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, apperr.Dependency(s.opts.Entity, "", "list", err)
	}
	return out, nil
}

// FindChild loads childID only if it belongs to parentID.
func (s *ChildStore[T, P]) FindChild(ctx context.Context, parentID, childID uuid.UUID, v Visibility) (P, error) {
	var row T
	err := v.Scope(s.DB(ctx)).
		Where("id = ? AND "+s.child.ParentColumn+" = ?", childID, parentID).
		Take(&row).Error
	if err != nil {
		return nil, apperr.FromDB(s.opts.Entity, childID.String(), "find", err)
	}
	return &row, nil
}

// CountPublic counts active, non-deleted children of parentID.
func (s *ChildStore[T, P]) CountPublic(ctx context.Context, parentID uuid.UUID) (int64, error) {
	var n int64
	err := Public.Scope(s.DB(ctx).Model(new(T))).
		Where(s.child.ParentColumn+" = ?", parentID).
		Count(&n).Error
	if err != nil {
		return 0, apperr.Dependency(s.opts.Entity, "", "count", err)
	}
	return n, nil
}

// All returns every child of the given parents, deleted or not.
func (s *ChildStore[T, P]) All(ctx context.Context, parentIDs ...uuid.UUID) ([]T, error) {
	out := make([]T, 0)
	if len(parentIDs) == 0 {
		return out, nil
	}
	if err := s.DB(ctx).Where(s.child.ParentColumn+" IN ?", parentIDs).Find(&out).Error; err != nil {
		return nil, apperr.Dependency(s.opts.Entity, "", "list", err)
	}
	return out, nil
}

// DeleteByParents physically removes every child of the given parents.
func (s *ChildStore[T, P]) DeleteByParents(ctx context.Context, parentIDs ...uuid.UUID) (int64, error) {
	if len(parentIDs) == 0 {
		return 0, nil
	}
	res := s.DB(ctx).Where(s.child.ParentColumn+" IN ?", parentIDs).Delete(new(T))
	if res.Error != nil {
		return 0, apperr.Dependency(s.opts.Entity, "", "hard-delete", res.Error)
	}
	return res.RowsAffected, nil
}
