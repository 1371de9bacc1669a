// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

func init() {
	// Keep pdfcpu from creating a config directory under the user's home.
	api.DisableConfigDir()
}

// pdfPageCount reads the page count of a staged PDF.
func pdfPageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading page count of %s: %w", path, err)
	}
	return n, nil
}
