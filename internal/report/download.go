// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"path/filepath"
	"strings"
)

const (
	mimeMarkdown = "text/markdown"
	mimeText     = "text/plain"
)

// Download is one file offered for download from a converted document.
type Download struct {
	Label    string
	FileName string
	MIMEType string
	Data     []byte
}

// DownloadName returns "{stem}_converted{ext}" for the original file name.
// Directory components sent by the client are dropped.
func DownloadName(original, ext string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_converted" + ext
}

// Downloads returns the Markdown and plain-text variants of text. Both carry
// the same UTF-8 payload.
func Downloads(original, text string) []Download {
	data := []byte(text)
	return []Download{
		{
			Label:    "Download as Markdown (.md)",
			FileName: DownloadName(original, ".md"),
			MIMEType: mimeMarkdown,
			Data:     data,
		},
		{
			Label:    "Download as Text (.txt)",
			FileName: DownloadName(original, ".txt"),
			MIMEType: mimeText,
			Data:     data,
		},
	}
}
