package models

import "github.com/google/uuid"

// Product belongs to exactly one Category.
//
// CascadeHidden is set when a category deactivation switched this product off.
// The "restore" reactivation policy only turns such products back on.
type Product struct {
	Base
	Status
	CategoryID     uuid.UUID `gorm:"type:char(36);not null;index" json:"category_id"`
	Category       *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Slug           string    `gorm:"size:255;not null;index" json:"slug"`
	Title          *string   `gorm:"size:255" json:"title,omitempty"`
	Description    *string   `gorm:"type:text" json:"description,omitempty"`
	IsWarranty     bool      `gorm:"not null" json:"is_warranty"`
	WarrantyPeriod *string   `gorm:"size:100" json:"warranty_period,omitempty"`
	CascadeHidden  bool      `gorm:"not null" json:"-"`

	Images         []ProductImage         `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	KeyFeatures    []ProductKeyFeature    `gorm:"foreignKey:ProductID" json:"key_features,omitempty"`
	Specifications []ProductSpecification `gorm:"foreignKey:ProductID" json:"specifications,omitempty"`
}

type ProductImage struct {
	Base
	Status
	ProductID uuid.UUID `gorm:"type:char(36);not null;index" json:"product_id"`
	Image     ImageRef  `gorm:"embedded;embeddedPrefix:image_" json:"image"`
}

type ProductKeyFeature struct {
	Base
	Status
	ProductID uuid.UUID `gorm:"type:char(36);not null;index" json:"product_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
}

type ProductSpecification struct {
	Base
	Status
	ProductID          uuid.UUID `gorm:"type:char(36);not null;index" json:"product_id"`
	SpecificationKey   string    `gorm:"size:255;not null" json:"specification_key"`
	SpecificationValue string    `gorm:"size:1000;not null" json:"specification_value"`
}

func (m *Product) SlugValue() string { return m.Slug }
