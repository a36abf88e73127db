package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/pkg/apperr"
)

type AdminUserRepository struct {
	db *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

func (r *AdminUserRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&user).Error
	if err != nil {
		return nil, apperr.FromDB("admin user", email, "find", err)
	}
	return &user, nil
}

func (r *AdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, apperr.FromDB("admin user", id.String(), "find", err)
	}
	return &user, nil
}

func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := apperr.FromDB("admin user", "", "create", r.db.WithContext(ctx).Create(user).Error)
	if err != nil && apperr.KindOf(err) == apperr.KindConflict {
		return apperr.Conflict("admin user", "email", user.Email)
	}
	return err
}
