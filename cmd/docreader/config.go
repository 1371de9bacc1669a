// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/docreader/pkg/types"
)

// setDefaults registers every configuration key so environment variables
// resolve even without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8501")
	v.SetDefault("server.max_upload_mb", 200)
	v.SetDefault("server.cors_origins", []string{})

	v.SetDefault("conversion.backend", string(types.BackendAuto))
	v.SetDefault("conversion.binary", "markitdown")
	v.SetDefault("conversion.image", "markitdown:latest")
	v.SetDefault("conversion.timeout", "5m")
	v.SetDefault("conversion.temp_dir", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// loadConfig reads the merged flag, env, file, and default values.
func loadConfig() types.Config {
	return configFrom(viper.GetViper())
}

func configFrom(v *viper.Viper) types.Config {
	return types.Config{
		Server: types.ServerConfig{
			Addr:        v.GetString("server.addr"),
			MaxUploadMB: v.GetInt64("server.max_upload_mb"),
			CORSOrigins: v.GetStringSlice("server.cors_origins"),
		},
		Conversion: types.ConversionConfig{
			Backend: types.ConversionBackend(v.GetString("conversion.backend")),
			Binary:  v.GetString("conversion.binary"),
			Image:   v.GetString("conversion.image"),
			Timeout: v.GetDuration("conversion.timeout"),
			TempDir: v.GetString("conversion.temp_dir"),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
}
