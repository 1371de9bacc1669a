// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns uploaded office documents into Markdown by staging
// them on disk and handing the path to a markitdown backend. Failures are
// contained per document: the caller always gets one Result per input.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/docreader/internal/staging"
	"github.com/pdiddy/docreader/pkg/types"
)

// Converter transforms the document at path into Markdown text. Different
// backends (local markitdown binary, markitdown container) implement this
// interface. Implementations may fail on any malformed or unsupported input.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// UserMessage is the only error text shown to users for a failed document.
func UserMessage(name string) string {
	return fmt.Sprintf("⚠️ Could not read %s. Please check the format.", name)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int `json:"converted" yaml:"converted"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Summarize counts the statuses in results.
func Summarize(results []types.Result) BatchResult {
	var b BatchResult
	for _, r := range results {
		if r.Succeeded() {
			b.Converted++
		} else {
			b.Failed++
		}
	}
	return b
}

// Orchestrator runs the stage, convert, release cycle for each document.
type Orchestrator struct {
	conv    Converter
	stager  *staging.Stager
	logger  *slog.Logger
	timeout time.Duration
	pages   func(path string) (int, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for diagnostics. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithStager sets where staged files are written. Defaults to the OS temp dir.
func WithStager(s *staging.Stager) Option {
	return func(o *Orchestrator) { o.stager = s }
}

// WithTimeout bounds each document's conversion. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// NewOrchestrator returns an Orchestrator that converts with c.
func NewOrchestrator(c Converter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		conv:   c,
		stager: staging.New(""),
		logger: slog.Default(),
		pages:  pdfPageCount,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ConvertDocument stages doc, converts it, and removes the staged file on
// every path. Any staging or conversion failure is logged with its cause and
// reported to the caller only as UserMessage. A converter that produces no
// content yields a successful, empty result.
func (o *Orchestrator) ConvertDocument(ctx context.Context, doc types.Document) types.Result {
	res := types.Result{Name: doc.Name, OriginalSize: doc.Size}
	log := o.logger.With("file", doc.Name)

	staged, err := o.stager.Stage(doc.Name, doc.Body)
	if err != nil {
		return o.fail(log, res, "staging failed", err)
	}
	defer func() {
		if err := staged.Release(); err != nil {
			log.Warn("could not remove staged file", "path", staged.Path, "error", err)
		}
	}()
	if res.OriginalSize <= 0 {
		res.OriginalSize = staged.Size
	}

	if strings.EqualFold(filepath.Ext(doc.Name), ".pdf") {
		if n, err := o.pageCount(staged.Path); err != nil {
			log.Debug("page count unavailable", "error", err)
		} else {
			res.Pages = n
		}
	}

	convCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		convCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := o.convert(convCtx, staged.Path)
	if err != nil {
		return o.fail(log, res, "conversion failed", err)
	}

	res.Status = types.ConversionDone
	res.Text = text
	log.Info("converted", "bytes", len(text), "duration", time.Since(start).Round(time.Millisecond))
	return res
}

// ConvertBatch converts docs one at a time in order. A failed document never
// stops the rest; the returned slice has one Result per input.
func (o *Orchestrator) ConvertBatch(ctx context.Context, docs []types.Document) ([]types.Result, BatchResult) {
	results := make([]types.Result, 0, len(docs))
	for _, d := range docs {
		results = append(results, o.ConvertDocument(ctx, d))
	}
	summary := Summarize(results)
	o.logger.Info("batch finished",
		"converted", summary.Converted, "failed", summary.Failed, "total", summary.Total())
	return results, summary
}

func (o *Orchestrator) fail(log *slog.Logger, res types.Result, msg string, err error) types.Result {
	log.Error(msg, "error", err)
	res.Status = types.ConversionFailed
	res.Text = ""
	res.Message = UserMessage(res.Name)
	return res
}

// convert calls the backend and turns a panic into an error.
func (o *Orchestrator) convert(ctx context.Context, path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("converter panic: %v", r)
		}
	}()
	return o.conv.Convert(ctx, path)
}

func (o *Orchestrator) pageCount(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page count panic: %v", r)
		}
	}()
	return o.pages(path)
}
