package models

// Roles accepted by the admin API.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// AdminUser is a back-office account.
type AdminUser struct {
	Base
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"size:50;not null" json:"role"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}
