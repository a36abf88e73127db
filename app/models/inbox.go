package models

import (
	"github.com/google/uuid"
)

// Enquiry is a product enquiry submitted from the public site. Append-only.
type Enquiry struct {
	Base
	Name      string     `gorm:"size:255;not null" json:"name"`
	Email     string     `gorm:"size:255;not null;index" json:"email"`
	Phone     *string    `gorm:"size:50" json:"phone,omitempty"`
	Company   *string    `gorm:"size:255" json:"company,omitempty"`
	ProductID *uuid.UUID `gorm:"type:char(36);index" json:"product_id,omitempty"`
	Message   string     `gorm:"type:text;not null" json:"message"`
}

func (Enquiry) TableName() string { return "enquiries" }

// Contact is a general contact-form submission. Append-only.
type Contact struct {
	Base
	Name    string  `gorm:"size:255;not null" json:"name"`
	Email   string  `gorm:"size:255;not null;index" json:"email"`
	Phone   *string `gorm:"size:50" json:"phone,omitempty"`
	Subject *string `gorm:"size:255" json:"subject,omitempty"`
	Message string  `gorm:"type:text;not null" json:"message"`
}
