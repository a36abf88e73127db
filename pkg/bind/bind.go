// Package bind decodes and validates request bodies into typed request structs.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/validate"
)

// JSON decodes r.Body into dest and runs its validate tags. Unknown fields
// are rejected so typos do not silently drop data.
//
// It returns (errs, nil) on validation failures and (nil, err) when the body
// is malformed or larger than MAX_BODY_BYTES.
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return nil, errors.New("request body is empty")
		default:
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	if dec.More() {
		return nil, errors.New("invalid JSON: trailing data after object")
	}

	errs := validate.Struct(dest)
	if c, ok := dest.(Checker); ok {
		for k, v := range c.Check() {
			if _, seen := errs[k]; !seen {
				errs[k] = v
			}
		}
	}
	if validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

// Checker is implemented by request structs with rules the tags cannot
// express, such as "present but blank".
type Checker interface {
	Check() map[string]string
}
