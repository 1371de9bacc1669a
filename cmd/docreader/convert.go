// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docreader/internal/convert"
	"github.com/pdiddy/docreader/internal/report"
	"github.com/pdiddy/docreader/pkg/types"
)

// errFailures makes the process exit non-zero after the report is printed.
var errFailures = errors.New("some documents could not be converted")

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert local documents to Markdown",
	Long: `Convert runs each file through markitdown, one at a time, and writes
{name}_converted.md into the output directory. A file that cannot be
converted is reported and the rest continue.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out-dir")
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}
		if err := checkExtensions(args); err != nil {
			return err
		}

		cfg := loadConfig()
		orch, _, err := newOrchestrator(cmd.Context(), cfg.Conversion, slog.Default())
		if err != nil {
			return err
		}

		summary, err := runConvert(cmd.Context(), orch, args, outDir, format, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return errFailures
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().String("out-dir", ".", "directory for converted Markdown files")
	convertCmd.Flags().String("format", "text", "report format: text, json, or yaml")

	rootCmd.AddCommand(convertCmd)
}

// batchConverter is the part of the orchestrator the convert command uses.
type batchConverter interface {
	ConvertBatch(ctx context.Context, docs []types.Document) ([]types.Result, convert.BatchResult)
}

// fileReport is one line of the structured convert report.
type fileReport struct {
	Name          string                 `json:"name" yaml:"name"`
	Status        types.ConversionStatus `json:"status" yaml:"status"`
	Output        string                 `json:"output,omitempty" yaml:"output,omitempty"`
	Message       string                 `json:"message,omitempty" yaml:"message,omitempty"`
	OriginalSize  int64                  `json:"original_size" yaml:"original_size"`
	ConvertedSize int64                  `json:"converted_size" yaml:"converted_size"`
	Reduction     float64                `json:"reduction" yaml:"reduction"`
	Pages         int                    `json:"pages,omitempty" yaml:"pages,omitempty"`
	Outline       *report.Outline        `json:"outline,omitempty" yaml:"outline,omitempty"`
}

type convertReport struct {
	Files   []fileReport  `json:"files" yaml:"files"`
	Summary reportSummary `json:"summary" yaml:"summary"`
}

type reportSummary struct {
	Converted int `json:"converted" yaml:"converted"`
	Failed    int `json:"failed" yaml:"failed"`
	Total     int `json:"total" yaml:"total"`
}

func checkFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown format %q (want text, json, or yaml)", format)
}

func checkExtensions(paths []string) error {
	var rejected []string
	for _, p := range paths {
		if !types.IsSupported(p) {
			rejected = append(rejected, p)
		}
	}
	if len(rejected) > 0 {
		return fmt.Errorf("unsupported file type: %s (allowed: %s)",
			strings.Join(rejected, ", "), strings.Join(types.SupportedExtensions, ", "))
	}
	return nil
}

// failedOpen surfaces an open error as a per-document staging failure.
type failedOpen struct{ err error }

func (f failedOpen) Read([]byte) (int, error) { return 0, f.err }

// runConvert converts paths, writes successful results into outDir, and
// prints the report to w.
func runConvert(ctx context.Context, orch batchConverter, paths []string, outDir, format string, w io.Writer) (convert.BatchResult, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return convert.BatchResult{}, fmt.Errorf("creating output directory: %w", err)
	}

	docs := make([]types.Document, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			docs = append(docs, types.Document{Name: filepath.Base(p), Body: failedOpen{err: err}})
			continue
		}
		defer f.Close()

		var size int64
		if info, err := f.Stat(); err == nil {
			size = info.Size()
		}
		docs = append(docs, types.Document{Name: filepath.Base(p), Size: size, Body: f})
	}

	results, summary := orch.ConvertBatch(ctx, docs)

	rep := convertReport{
		Files: make([]fileReport, 0, len(results)),
		Summary: reportSummary{
			Converted: summary.Converted,
			Failed:    summary.Failed,
			Total:     summary.Total(),
		},
	}
	outputs := newOutputNames(outDir)
	for _, r := range results {
		fr := fileReport{Name: r.Name, Status: r.Status, OriginalSize: r.OriginalSize, Pages: r.Pages}
		if !r.Succeeded() {
			fr.Message = r.Message
			rep.Files = append(rep.Files, fr)
			continue
		}

		out := outputs.next(report.DownloadName(r.Name, ".md"))
		if err := os.WriteFile(out, []byte(r.Text), 0o644); err != nil {
			return summary, fmt.Errorf("writing %s: %w", out, err)
		}
		size := report.NewSizeReport(r.OriginalSize, r.Text)
		outline := report.Summarize(r.Text)
		fr.Output = out
		fr.ConvertedSize = size.ConvertedBytes
		fr.Reduction = size.Reduction
		fr.Outline = &outline
		rep.Files = append(rep.Files, fr)
	}

	return summary, writeReport(w, rep, format)
}

// outputNames hands out output paths that are unique within one run, so
// inputs sharing a base name in different directories do not overwrite
// each other. The second report.docx becomes report_converted-2.md.
type outputNames struct {
	dir  string
	used map[string]bool
}

func newOutputNames(dir string) *outputNames {
	return &outputNames{dir: dir, used: make(map[string]bool)}
}

func (o *outputNames) next(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 2; o.used[strings.ToLower(candidate)]; i++ {
		candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
	o.used[strings.ToLower(candidate)] = true
	return filepath.Join(o.dir, candidate)
}

func writeReport(w io.Writer, rep convertReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	}

	for _, f := range rep.Files {
		if f.Status != types.ConversionDone {
			fmt.Fprintf(w, "failed     %s\n           %s\n", f.Name, f.Message)
			continue
		}
		fmt.Fprintf(w, "converted  %s -> %s (%s -> %s, %s)\n",
			f.Name, f.Output,
			report.FormatSize(f.OriginalSize), report.FormatSize(f.ConvertedSize),
			report.FormatReduction(f.Reduction))
	}
	fmt.Fprintf(w, "\n%d converted, %d failed, %d total\n",
		rep.Summary.Converted, rep.Summary.Failed, rep.Summary.Total)
	return nil
}
