package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/scorecraft/scorecraft-api/internal/middleware"
	"github.com/scorecraft/scorecraft-api/internal/services"
)

const payloadField = "payload"

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEMultipartPOSTForm
}

// bindPayload reads the JSON body, or the JSON "payload" field of a
// multipart form.
func bindPayload(c *gin.Context, out any) error {
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(out); err != nil {
			return badBody(err)
		}
		return nil
	}

	raw, ok := c.GetPostForm(payloadField)
	if !ok {
		if _, err := c.MultipartForm(); err != nil {
			return badBody(err)
		}
		return fmt.Errorf("%w: missing %q form field", services.ErrInvalidInput, payloadField)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: malformed %s: %v", services.ErrInvalidInput, payloadField, err)
	}
	return nil
}

func badBody(err error) error {
	if middleware.IsBodyTooLarge(err) {
		return fmt.Errorf("%w: request body too large", services.ErrInvalidInput)
	}
	return fmt.Errorf("%w: %v", services.ErrInvalidInput, err)
}

// formFile opens an optional uploaded file. The returned close func is
// always safe to call.
func formFile(c *gin.Context, field string) (*services.Upload, func(), error) {
	noop := func() {}
	if !isMultipart(c) {
		return nil, noop, nil
	}

	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, badBody(err)
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*services.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, fmt.Errorf("%w: could not read %s: %v", services.ErrInvalidInput, fh.Filename, err)
	}
	return &services.Upload{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}
