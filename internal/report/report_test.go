// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0.00 B"},
		{1, "1.00 B"},
		{1023, "1023.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{5 * 1048576 / 2, "2.50 MB"},
		{1 << 30, "1.00 GB"},
		{1 << 40, "1.00 TB"},
		{3 << 40, "3.00 TB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.in))
		})
	}
}

func TestReduction(t *testing.T) {
	tests := []struct {
		name                string
		original, converted int64
		want                float64
	}{
		{"zero original", 0, 0, 0},
		{"zero original with output", 0, 120, 0},
		{"half", 1000, 500, 50},
		{"everything removed", 2048, 0, 100},
		{"unchanged", 300, 300, 0},
		{"growth is negative", 100, 150, -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Reduction(tt.original, tt.converted), 1e-9)
		})
	}
}

func TestFormatReduction(t *testing.T) {
	assert.Equal(t, "42.5%", FormatReduction(42.5))
	assert.Equal(t, "0.0%", FormatReduction(0))
	assert.Equal(t, "-12.3%", FormatReduction(-12.34))
}

func TestNewSizeReport(t *testing.T) {
	// "é" is two bytes in UTF-8.
	r := NewSizeReport(10, "héllo")
	assert.Equal(t, int64(10), r.OriginalBytes)
	assert.Equal(t, int64(6), r.ConvertedBytes)
	assert.InDelta(t, 40.0, r.Reduction, 1e-9)

	empty := NewSizeReport(0, "")
	assert.Zero(t, empty.Reduction)
}
