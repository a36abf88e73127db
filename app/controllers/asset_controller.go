package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/pkg/ctx"
)

// multipart bodies above this are spooled to disk by net/http.
const uploadMemory = 8 << 20

type AssetController struct {
	svc *services.AssetService
}

func NewAssetController(svc *services.AssetService) *AssetController {
	return &AssetController{svc: svc}
}

// Upload stores the multipart "file" under the optional "folder" and returns
// the reference to put in an image field.
func (h *AssetController) Upload(c *ctx.Context) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, services.MaxAssetBytes+1<<20)
	if err := c.R.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.ValidationError(map[string]string{"file": "The file must not be larger than 5 MB."})
			return
		}
		c.Error(http.StatusBadRequest, "expected a multipart/form-data body")
		return
	}

	file, header, err := c.R.FormFile("file")
	if err != nil {
		c.ValidationError(map[string]string{"file": "The file field is required."})
		return
	}
	defer file.Close()

	ref, err := h.svc.Store(c.Context(), services.Upload{
		Folder:       c.R.FormValue("folder"),
		OriginalName: header.Filename,
		Body:         file,
	})
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(ref)
}
