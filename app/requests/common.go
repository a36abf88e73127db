// Package requests holds the typed request bodies of the HTTP API. Each is
// validated by pkg/bind before a service sees it.
package requests

import (
	"strings"

	"github.com/shashiranjanraj/catalogue/app/models"
)

// Image is an asset reference as returned by the upload endpoint.
type Image struct {
	BaseURL      string `json:"base_url"      validate:"required,url,max=512"`
	Name         string `json:"name"          validate:"required,max=255"`
	Type         string `json:"type"          validate:"max=100"`
	OriginalName string `json:"original_name" validate:"max=255"`
}

func (i *Image) Ref() models.ImageRef {
	if i == nil {
		return models.ImageRef{}
	}
	return models.ImageRef{
		BaseURL:      strings.TrimRight(i.BaseURL, "/"),
		Name:         i.Name,
		Type:         i.Type,
		OriginalName: i.OriginalName,
	}
}

// columns maps the reference onto the embedded image_* columns.
func (i *Image) columns(out map[string]interface{}) {
	ref := i.Ref()
	out["image_base_url"] = ref.BaseURL
	out["image_name"] = ref.Name
	out["image_type"] = ref.Type
	out["image_original_name"] = ref.OriginalName
}

// Status is the body of every PATCH .../status endpoint.
type Status struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func activeOrDefault(b *bool) bool {
	return b == nil || *b
}

// trimmed returns the trimmed value of s, or nil.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// blankCheck reports fields that were sent but are blank after trimming.
func blankCheck(fields map[string]*string) map[string]string {
	errs := map[string]string{}
	for name, v := range fields {
		if v != nil && strings.TrimSpace(*v) == "" {
			errs[name] = "The " + name + " field must not be blank."
		}
	}
	return errs
}
