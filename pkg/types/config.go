// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ServerConfig holds settings for the web UI server.
type ServerConfig struct {
	// Addr is the listen address (default ":8501").
	Addr string `json:"addr" yaml:"addr"`

	// MaxUploadMB caps the size of one multipart request body in megabytes (default 200).
	MaxUploadMB int64 `json:"max_upload_mb" yaml:"max_upload_mb"`

	// CORSOrigins lists origins allowed to call the JSON API. Empty disables CORS.
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

// MaxUploadBytes returns MaxUploadMB in bytes.
func (c ServerConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// ConversionBackend identifies how the markitdown tool is invoked.
type ConversionBackend string

const (
	BackendAuto       ConversionBackend = "auto"
	BackendMarkitdown ConversionBackend = "markitdown"
	BackendContainer  ConversionBackend = "container"
)

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// Backend selects the converter: auto, markitdown (local binary), or container.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// Binary is the markitdown executable name or path for the local backend.
	Binary string `json:"binary" yaml:"binary"`

	// Image is the container image for the container backend.
	Image string `json:"image" yaml:"image"`

	// Timeout bounds a single file's conversion. Zero disables the bound.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// TempDir is where staged uploads are written. Empty means the OS temp dir.
	TempDir string `json:"temp_dir,omitempty" yaml:"temp_dir,omitempty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format"`
}

// Config groups all settings for docreader.
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Log        LogConfig        `json:"log" yaml:"log"`
}
