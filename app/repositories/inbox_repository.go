package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

// InboxRepository stores append-only form submissions. There is no update
// or delete path.
type InboxRepository[T any] struct {
	db   *gorm.DB
	spec orm.Spec
}

func inboxSpec(entity string) orm.Spec {
	return orm.Spec{
		Entity:        entity,
		SearchColumns: []string{"name", "email", "message"},
		Sorts:         orm.DefaultSorts,
		DefaultSort:   "created_at",
	}
}

func NewEnquiryRepository(db *gorm.DB) *InboxRepository[models.Enquiry] {
	return &InboxRepository[models.Enquiry]{db: db, spec: inboxSpec("enquiry")}
}

func NewContactRepository(db *gorm.DB) *InboxRepository[models.Contact] {
	return &InboxRepository[models.Contact]{db: db, spec: inboxSpec("contact")}
}

func (r *InboxRepository[T]) Create(ctx context.Context, row *T) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return apperr.FromDB(r.spec.Entity, "", "create", err)
	}
	return nil
}

func (r *InboxRepository[T]) Find(ctx context.Context, id uuid.UUID) (*T, error) {
	var row T
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, apperr.FromDB(r.spec.Entity, id.String(), "find", err)
	}
	return &row, nil
}

func (r *InboxRepository[T]) List(ctx context.Context, q orm.Query) (orm.Result[T], error) {
	return orm.Paginate[T](ctx, r.db, q, r.spec)
}
