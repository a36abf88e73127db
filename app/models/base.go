package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and audit columns shared by every table.
type Base struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `gorm:"size:64" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"size:64" json:"updated_by,omitempty"`
}

// Entity is implemented by every status-flagged model through Base and Status.
type Entity interface {
	Key() uuid.UUID
	Stamp(actor string)
	Flags() Status
}

// Slugged is implemented by entities addressed by slug on the public site.
type Slugged interface {
	SlugValue() string
}

func (b *Base) Key() uuid.UUID { return b.ID }

// Stamp records actor as the author of the pending write.
func (b *Base) Stamp(actor string) {
	if b.CreatedBy == "" {
		b.CreatedBy = actor
	}
	b.UpdatedBy = actor
}

func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Status holds the two lifecycle flags. A soft-deleted row always has
// IsActive false.
//
// No column defaults are declared: gorm skips zero values for fields with a
// default tag, which would turn an explicit false into true on insert.
type Status struct {
	IsActive  bool `gorm:"not null;index" json:"is_active"`
	IsDeleted bool `gorm:"not null;index" json:"is_deleted"`
}

func (s *Status) Flags() Status { return *s }

// State names a row's position in the Active/Inactive/Deleted machine.
type State string

const (
	StateActive   State = "active"
	StateInactive State = "inactive"
	StateDeleted  State = "deleted"
)

func (s Status) State() State {
	switch {
	case s.IsDeleted:
		return StateDeleted
	case s.IsActive:
		return StateActive
	default:
		return StateInactive
	}
}

// Public reports whether the row may be served to anonymous readers.
func (s Status) Public() bool { return s.IsActive && !s.IsDeleted }

// ImageRef points at a binary held by the asset store.
type ImageRef struct {
	BaseURL      string `gorm:"size:512" json:"base_url"`
	Name         string `gorm:"size:255" json:"name"`
	Type         string `gorm:"size:100" json:"type"`
	OriginalName string `gorm:"size:255" json:"original_name"`
}

func (r ImageRef) IsZero() bool { return r.Name == "" && r.BaseURL == "" }

// URL is the public address of the asset.
func (r ImageRef) URL() string {
	if r.BaseURL == "" {
		return r.Name
	}
	if r.BaseURL[len(r.BaseURL)-1] == '/' {
		return r.BaseURL + r.Name
	}
	return r.BaseURL + "/" + r.Name
}
