// Package apperr defines the error taxonomy shared by the store, the services
// and the HTTP layer.
//
// Every error produced by the catalog carries a Kind and, where known, the
// entity type, id and action that failed. Callers branch with errors.Is on
// the sentinel values:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Kind classifies an error.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindDependency   Kind = "dependency"
)

// Sentinel errors matched through errors.Is.
var (
	// ErrValidation is returned for malformed or missing input. Maps to 422.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when the target row does not exist or is
	// soft-deleted. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on a unique constraint violation such as a
	// duplicate slug. Maps to 409.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState is returned for transitions the status machine does not
	// permit, such as toggling a deleted row. Maps to 409.
	ErrInvalidState = errors.New("invalid state")

	// ErrDependency wraps failures of the database or asset store. Maps to 500.
	ErrDependency = errors.New("dependency failure")
)

var sentinels = map[Kind]error{
	KindValidation:   ErrValidation,
	KindNotFound:     ErrNotFound,
	KindConflict:     ErrConflict,
	KindInvalidState: ErrInvalidState,
	KindDependency:   ErrDependency,
}

// Error is the concrete error type. Entity, ID and Action describe the
// operation that failed; Fields holds per-field messages for validation and
// conflict errors.
type Error struct {
	Kind    Kind
	Entity  string
	ID      string
	Action  string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Action != "" || e.Entity != "" {
		b.WriteString(strings.TrimSpace(e.Action + " " + e.Entity))
		if e.ID != "" {
			b.WriteString(" ")
			b.WriteString(e.ID)
		}
		b.WriteString(": ")
	}
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(sentinels[e.Kind].Error())
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// Validation builds a validation error from per-field messages.
func Validation(entity string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Entity: entity, Action: "validate", Fields: fields}
}

// Field is a single-field validation error.
func Field(entity, field, msg string) *Error {
	return Validation(entity, map[string]string{field: msg})
}

func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Message: entity + " not found"}
}

// Conflict reports a duplicate value for field.
func Conflict(entity, field, value string) *Error {
	return &Error{
		Kind:    KindConflict,
		Entity:  entity,
		Action:  "save",
		Message: fmt.Sprintf("%s %q is already in use", field, value),
		Fields:  map[string]string{field: "choose a different " + field},
	}
}

func InvalidState(entity, id, action, msg string) *Error {
	return &Error{Kind: KindInvalidState, Entity: entity, ID: id, Action: action, Message: msg}
}

// Dependency wraps a storage or asset-store failure with operation context.
func Dependency(entity, id, action string, err error) *Error {
	return &Error{Kind: KindDependency, Entity: entity, ID: id, Action: action, Err: err}
}

// FromDB translates a gorm error into the taxonomy. Errors that already carry
// a Kind are returned unchanged.
func FromDB(entity, id, action string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindConflict, Entity: entity, ID: id, Action: action, Message: "duplicate value", Err: err}
	default:
		return Dependency(entity, id, action, err)
	}
}

// KindOf returns the Kind of err, or KindDependency for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindDependency
}

// FieldsOf returns per-field messages carried by err, if any.
func FieldsOf(err error) map[string]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to return to API clients. Dependency
// failures are reduced to a generic message.
func PublicMessage(err error) string {
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind == KindDependency {
		return "Internal Server Error"
	}
	if ae.Message != "" {
		return ae.Message
	}
	return sentinels[ae.Kind].Error()
}
