// Package response writes the JSON envelope every endpoint returns:
//
//	{"status": 200, "message": "...", "data": ..., "meta": {...}, "errors": {...}}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/catalogue/pkg/apperr"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
)

// Envelope is exported so tests and clients can decode responses.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Meta    *orm.Meta       `json:"meta,omitempty"`
	Errors  json.RawMessage `json:"errors,omitempty"`
}

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *orm.Meta   `json:"meta,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Status: http.StatusCreated, Data: data})
}

func Message(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Message: message})
}

func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Message: message})
}

func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Paginated writes one page. Data is always an array.
func Paginated[T any](w http.ResponseWriter, page orm.Result[T]) {
	data := page.Data
	if data == nil {
		data = []T{}
	}
	meta := page.Meta
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data, Meta: &meta})
}

// Fail maps err through the error taxonomy. Dependency failures are logged
// with their cause and answered with a generic message.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	write(w, status, envelope{
		Status:  status,
		Message: apperr.PublicMessage(err),
		Errors:  apperr.FieldsOf(err),
	})
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}
