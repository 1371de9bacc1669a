// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docreader CLI. It serves the
// browser upload form and converts local files from the command line.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docreader/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docreader CLI.
var rootCmd = &cobra.Command{
	Use:   "docreader",
	Short: "Convert office documents to Markdown",
	Long: `docreader turns Word, Excel, PowerPoint, PDF, and HTML files into Markdown
using markitdown. Run "docreader serve" for the browser upload form, or
"docreader convert" to convert local files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger, err := logging.New(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./docreader.yaml or ~/.config/docreader/docreader.yaml)")
	pf.String("backend", "", "conversion backend: auto, markitdown, or container")
	pf.String("log-level", "", "log level: debug, info, warn, or error")

	_ = viper.BindPFlag("conversion.backend", pf.Lookup("backend"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docreader")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docreader"))
		}
	}

	viper.SetEnvPrefix("DOCREADER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
