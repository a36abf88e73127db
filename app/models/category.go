package models

// Category groups products. Its status is materialized onto its products by
// the cascade coordinator.
type Category struct {
	Base
	Status
	Name  string   `gorm:"size:255;not null" json:"name"`
	Title *string  `gorm:"size:255" json:"title,omitempty"`
	Slug  string   `gorm:"size:255;not null;index" json:"slug"`
	Image ImageRef `gorm:"embedded;embeddedPrefix:image_" json:"image"`
}

func (m *Category) SlugValue() string { return m.Slug }
