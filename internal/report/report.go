// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report derives the read-only summaries shown next to a converted
// document: human-readable sizes, the size reduction, download files, and a
// structural outline of the Markdown.
package report

import (
	"fmt"
	"math"
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize renders a byte count with two decimals in the largest unit
// (1024 base) that keeps the value below 1024: 1024 -> "1.00 KB".
// Sizes of 1024 GB and above are rendered in TB.
func FormatSize(n int64) string {
	size := float64(n)
	for _, unit := range sizeUnits {
		if math.Abs(size) < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f TB", size)
}

// Reduction returns the percentage decrease from original to converted.
// It is negative when the converted text is larger and 0 when original is 0.
func Reduction(original, converted int64) float64 {
	if original == 0 {
		return 0
	}
	return float64(original-converted) / float64(original) * 100
}

// FormatReduction renders a percentage with one decimal, e.g. "42.5%".
func FormatReduction(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// SizeReport compares an uploaded document with its converted text.
type SizeReport struct {
	OriginalBytes  int64   `json:"original_size" yaml:"original_size"`
	ConvertedBytes int64   `json:"converted_size" yaml:"converted_size"`
	Reduction      float64 `json:"reduction" yaml:"reduction"`
}

// NewSizeReport measures text as UTF-8 bytes against the original size.
func NewSizeReport(original int64, text string) SizeReport {
	converted := int64(len(text))
	return SizeReport{
		OriginalBytes:  original,
		ConvertedBytes: converted,
		Reduction:      Reduction(original, converted),
	}
}
