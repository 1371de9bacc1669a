// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"io"
	"path/filepath"
	"strings"
)

// ConversionStatus indicates the outcome of converting one document.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// SupportedExtensions is the upload allow-list, lower-case and without dots.
var SupportedExtensions = []string{"docx", "xlsx", "pptx", "pdf", "html", "htm"}

// IsSupported reports whether name carries an allow-listed extension.
// The comparison is case-insensitive.
func IsSupported(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Document is one uploaded file for the duration of a request.
type Document struct {
	// Name is the original client-side file name.
	Name string

	// Size is the declared size in bytes.
	Size int64

	// Body supplies the file's bytes. It is read once, during staging.
	Body io.Reader
}

// Result is the outcome of converting one Document. Exactly one of Text
// (Status == ConversionDone) or Message (Status == ConversionFailed) is
// meaningful.
type Result struct {
	// Name is the original file name.
	Name string `json:"name" yaml:"name"`

	Status ConversionStatus `json:"status" yaml:"status"`

	// Text is the converted Markdown. Empty is a valid successful result.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Message is the user-facing error for a failed conversion.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// OriginalSize is the uploaded document's size in bytes.
	OriginalSize int64 `json:"original_size" yaml:"original_size"`

	// Pages is the PDF page count, or zero when unknown or not a PDF.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// Succeeded reports whether the conversion produced text.
func (r Result) Succeeded() bool {
	return r.Status == ConversionDone
}
