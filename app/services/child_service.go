package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/app/repositories"
	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
)

// ChildPolicy configures one child collection.
type ChildPolicy[P any] struct {
	// AllowDeletedParent permits writes under a soft-deleted parent.
	AllowDeletedParent bool
	// MaxActive caps the active, non-deleted children of one parent.
	// Zero means no cap.
	MaxActive int
	// Assets returns the stored binaries a child owns, deleted on purge.
	Assets func(P) []models.ImageRef
}

// ChildService manages a collection scoped to one parent row. Lifecycle
// rules match the parent entities; reads and writes are refused for a
// child that belongs to a different parent.
type ChildService[T any, P interface {
	*T
	models.Entity
}] struct {
	repo   *repositories.ChildStore[T, P]
	policy ChildPolicy[P]
	deps   Deps
}

func NewChildService[T any, P interface {
	*T
	models.Entity
}](d Deps, repo *repositories.ChildStore[T, P], policy ChildPolicy[P]) *ChildService[T, P] {
	return &ChildService[T, P]{repo: repo, policy: policy, deps: d}
}

// DefaultChildPolicy reads the deleted-parent policy from config.
func DefaultChildPolicy[P any]() ChildPolicy[P] {
	return ChildPolicy[P]{AllowDeletedParent: config.ChildWritesOnDeletedParent() == config.ChildWritesAllow}
}

func (s *ChildService[T, P]) entity() string { return s.repo.Entity() }

// List returns every non-deleted child of a live parent, oldest first.
func (s *ChildService[T, P]) List(ctx context.Context, parentID uuid.UUID) ([]T, error) {
	st, err := s.repo.ParentStatus(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if st.IsDeleted {
		return nil, apperr.NotFound(s.repo.ParentEntity(), parentID.String())
	}
	return s.repo.FindByParentID(ctx, parentID, repositories.Admin)
}

func (s *ChildService[T, P]) Get(ctx context.Context, parentID, childID uuid.UUID) (P, error) {
	return s.repo.FindChild(ctx, parentID, childID, repositories.Admin)
}

// Create inserts the child built by build. The parent must exist; a
// soft-deleted parent is refused unless the policy allows it.
func (s *ChildService[T, P]) Create(ctx context.Context, parentID uuid.UUID, build func(parentID uuid.UUID) P, actor string) (P, error) {
	child := build(parentID)
	err := s.tx(ctx, func(repo *repositories.ChildStore[T, P]) error {
		if err := s.checkParent(ctx, repo, parentID, "create"); err != nil {
			return err
		}
		if child.Flags().IsActive {
			if err := s.checkCap(ctx, repo, parentID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, child, actor)
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx, child.Key(), "create")
	return child, nil
}

func (s *ChildService[T, P]) Update(ctx context.Context, parentID, childID uuid.UUID, fields map[string]interface{}, actor string) (P, error) {
	var row P
	err := s.tx(ctx, func(repo *repositories.ChildStore[T, P]) error {
		if err := s.checkParent(ctx, repo, parentID, "update"); err != nil {
			return err
		}
		if _, err := repo.FindChild(ctx, parentID, childID, repositories.Admin); err != nil {
			return err
		}
		if len(fields) == 0 {
			var err error
			row, err = repo.Find(ctx, childID, repositories.Admin)
			return err
		}
		var err error
		row, err = repo.Update(ctx, childID, fields, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx, childID, "update")
	return row, nil
}

// SetStatus toggles one child. Activation honours the active-children cap.
func (s *ChildService[T, P]) SetStatus(ctx context.Context, parentID, childID uuid.UUID, active bool, actor string) (P, error) {
	var (
		row   P
		moved bool
	)
	err := s.tx(ctx, func(repo *repositories.ChildStore[T, P]) error {
		if err := s.checkParent(ctx, repo, parentID, "toggle"); err != nil {
			return err
		}
		cur, err := repo.FindChild(ctx, parentID, childID, repositories.Any)
		if err != nil {
			return err
		}
		flags := cur.Flags()
		if active && !flags.IsActive && !flags.IsDeleted {
			if err := s.checkCap(ctx, repo, parentID); err != nil {
				return err
			}
		}
		row, moved, err = repo.ToggleStatus(ctx, childID, active, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	if moved {
		s.changed(ctx, childID, "status")
	}
	return row, nil
}

// Delete soft-deletes a child. Deleting twice is a no-op.
func (s *ChildService[T, P]) Delete(ctx context.Context, parentID, childID uuid.UUID, actor string) error {
	if _, err := s.repo.FindChild(ctx, parentID, childID, repositories.Any); err != nil {
		return err
	}
	deleted, err := s.repo.SoftDelete(ctx, childID, actor)
	if err != nil {
		return err
	}
	if deleted {
		s.changed(ctx, childID, "delete")
	}
	return nil
}

// Purge removes a child row and then any asset it owns.
func (s *ChildService[T, P]) Purge(ctx context.Context, parentID, childID uuid.UUID) error {
	row, err := s.repo.FindChild(ctx, parentID, childID, repositories.Any)
	if err != nil {
		return err
	}
	if err := s.repo.HardDelete(ctx, childID); err != nil {
		return err
	}
	s.changed(ctx, childID, "purge")
	if s.policy.Assets != nil {
		purgeAssets(ctx, s.deps.Assets, s.policy.Assets(row))
	}
	return nil
}

func (s *ChildService[T, P]) checkParent(ctx context.Context, repo *repositories.ChildStore[T, P], parentID uuid.UUID, action string) error {
	st, err := repo.ParentStatus(ctx, parentID)
	if err != nil {
		return err
	}
	if st.IsDeleted && !s.policy.AllowDeletedParent {
		return apperr.InvalidState(repo.ParentEntity(), parentID.String(), action+" "+s.entity(),
			"the "+repo.ParentEntity()+" is deleted")
	}
	return nil
}

func (s *ChildService[T, P]) checkCap(ctx context.Context, repo *repositories.ChildStore[T, P], parentID uuid.UUID) error {
	if s.policy.MaxActive <= 0 {
		return nil
	}
	n, err := repo.CountPublic(ctx, parentID)
	if err != nil {
		return err
	}
	if n >= int64(s.policy.MaxActive) {
		return apperr.Field(s.entity(), "is_active",
			fmt.Sprintf("A %s may have at most %d active %ss.", repo.ParentEntity(), s.policy.MaxActive, s.entity()))
	}
	return nil
}

func (s *ChildService[T, P]) tx(ctx context.Context, fn func(repo *repositories.ChildStore[T, P]) error) error {
	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.repo.WithTx(tx))
	})
	return apperr.FromDB(s.entity(), "", "commit", err)
}

func (s *ChildService[T, P]) changed(ctx context.Context, id uuid.UUID, action string) {
	changed(ctx, s.deps.Events, s.entity(), id.String(), action)
}
