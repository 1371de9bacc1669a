// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/docreader/pkg/types"
)

const formField = "files"

// uploadError is a rejected request at the upload boundary.
type uploadError struct {
	status int
	msg    string
}

func (e *uploadError) Error() string { return e.msg }

// openErrReader defers a file open failure to staging so it is reported
// per document instead of failing the request.
type openErrReader struct{ err error }

func (r openErrReader) Read([]byte) (int, error) { return 0, r.err }

// readUploads parses the multipart body and enforces the extension
// allow-list. The returned cleanup closes every opened part and removes
// multipart spill files; it must be called once the batch is done.
func (h *Handler) readUploads(c *gin.Context) ([]types.Document, func(), error) {
	noop := func() {}

	if c.Request.ContentLength > h.maxUpload {
		return nil, noop, tooLarge(h.maxUpload)
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	form, err := c.MultipartForm()
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, noop, tooLarge(h.maxUpload)
		}
		return nil, noop, &uploadError{status: http.StatusBadRequest, msg: "invalid multipart form"}
	}
	removeSpill := func() {
		if err := form.RemoveAll(); err != nil {
			h.logger.Warn("could not remove multipart temp files", "error", err)
		}
	}

	headers := form.File[formField]
	if len(headers) == 0 {
		removeSpill()
		return nil, noop, &uploadError{status: http.StatusBadRequest, msg: "no files uploaded"}
	}

	var rejected []string
	for _, fh := range headers {
		if !types.IsSupported(fh.Filename) {
			rejected = append(rejected, fh.Filename)
		}
	}
	if len(rejected) > 0 {
		removeSpill()
		return nil, noop, &uploadError{
			status: http.StatusBadRequest,
			msg: fmt.Sprintf("unsupported file type: %s (allowed: %s)",
				strings.Join(rejected, ", "), strings.Join(types.SupportedExtensions, ", ")),
		}
	}

	docs := make([]types.Document, 0, len(headers))
	var opened []multipart.File
	for _, fh := range headers {
		var body io.Reader
		f, err := fh.Open()
		if err != nil {
			body = openErrReader{err: fmt.Errorf("opening upload %s: %w", fh.Filename, err)}
		} else {
			opened = append(opened, f)
			body = f
		}
		docs = append(docs, types.Document{Name: fh.Filename, Size: fh.Size, Body: body})
	}

	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
		removeSpill()
	}
	return docs, cleanup, nil
}

func tooLarge(limit int64) *uploadError {
	return &uploadError{
		status: http.StatusRequestEntityTooLarge,
		msg:    fmt.Sprintf("upload exceeds the %d MB limit", limit>>20),
	}
}

func statusOf(err error) int {
	var ue *uploadError
	if errors.As(err, &ue) {
		return ue.status
	}
	return http.StatusInternalServerError
}
