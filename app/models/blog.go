package models

import "github.com/google/uuid"

type Blog struct {
	Base
	Status
	Title       string    `gorm:"size:255;not null" json:"title"`
	Slug        string    `gorm:"size:255;not null;index" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Image       ImageRef  `gorm:"embedded;embeddedPrefix:image_" json:"image"`
	Tags        []BlogTag `gorm:"foreignKey:BlogID" json:"tags,omitempty"`
}

type BlogTag struct {
	Base
	Status
	BlogID uuid.UUID `gorm:"type:char(36);not null;index" json:"blog_id"`
	Name   string    `gorm:"size:100;not null" json:"name"`
}

func (m *Blog) SlugValue() string { return m.Slug }
