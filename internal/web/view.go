// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"encoding/base64"
	"html/template"
	"strconv"
	"strings"

	"github.com/pdiddy/docreader/internal/convert"
	"github.com/pdiddy/docreader/internal/report"
	"github.com/pdiddy/docreader/pkg/types"
)

// pageData is the model for index.html.
type pageData struct {
	Accept  string
	Error   string
	Panels  []panel
	Summary convert.BatchResult
}

// panel is one collapsible result section.
type panel struct {
	Name      string
	Message   string
	Text      string
	Downloads []downloadLink
	Stats     []statRow
}

type downloadLink struct {
	Label    string
	FileName string
	Href     template.URL
}

type statRow struct {
	Label string
	Value string
}

func acceptAttr() string {
	exts := make([]string, len(types.SupportedExtensions))
	for i, e := range types.SupportedExtensions {
		exts[i] = "." + e
	}
	return strings.Join(exts, ",")
}

func newPage(results []types.Result, summary convert.BatchResult) pageData {
	p := pageData{Accept: acceptAttr(), Summary: summary}
	for _, r := range results {
		p.Panels = append(p.Panels, newPanel(r))
	}
	return p
}

func newPanel(r types.Result) panel {
	if !r.Succeeded() {
		return panel{Name: r.Name, Message: r.Message}
	}

	p := panel{Name: r.Name, Text: r.Text}
	for _, d := range report.Downloads(r.Name, r.Text) {
		p.Downloads = append(p.Downloads, downloadLink{
			Label:    d.Label,
			FileName: d.FileName,
			Href:     dataURI(d.MIMEType, d.Data),
		})
	}
	p.Stats = stats(r)
	return p
}

func stats(r types.Result) []statRow {
	size := report.NewSizeReport(r.OriginalSize, r.Text)
	outline := report.Summarize(r.Text)

	rows := []statRow{
		{"Original size", report.FormatSize(size.OriginalBytes)},
		{"Converted size", report.FormatSize(size.ConvertedBytes)},
		{"Size reduction", report.FormatReduction(size.Reduction)},
	}
	if r.Pages > 0 {
		rows = append(rows, statRow{"Pages", strconv.Itoa(r.Pages)})
	}
	return append(rows,
		statRow{"Headings", strconv.Itoa(outline.Headings)},
		statRow{"Tables", strconv.Itoa(outline.Tables)},
	)
}

// dataURI embeds a download payload in the page so no server state is kept
// between the conversion and the download.
func dataURI(mime string, data []byte) template.URL {
	return template.URL("data:" + mime + ";charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data))
}

// apiFile is one entry of the JSON API response.
type apiFile struct {
	Name          string                 `json:"name"`
	Status        types.ConversionStatus `json:"status"`
	Text          *string                `json:"text,omitempty"`
	Message       string                 `json:"message,omitempty"`
	OriginalSize  int64                  `json:"original_size"`
	ConvertedSize int64                  `json:"converted_size"`
	Reduction     float64                `json:"reduction"`
	Pages         int                    `json:"pages,omitempty"`
	Outline       *report.Outline        `json:"outline,omitempty"`
}

type apiResponse struct {
	Files   []apiFile  `json:"files"`
	Summary apiSummary `json:"summary"`
}

type apiSummary struct {
	Converted int `json:"converted"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

func newAPIResponse(results []types.Result, summary convert.BatchResult) apiResponse {
	resp := apiResponse{
		Files: make([]apiFile, 0, len(results)),
		Summary: apiSummary{
			Converted: summary.Converted,
			Failed:    summary.Failed,
			Total:     summary.Total(),
		},
	}
	for _, r := range results {
		f := apiFile{Name: r.Name, Status: r.Status, OriginalSize: r.OriginalSize}
		if r.Succeeded() {
			text := r.Text
			size := report.NewSizeReport(r.OriginalSize, text)
			outline := report.Summarize(text)
			f.Text = &text
			f.ConvertedSize = size.ConvertedBytes
			f.Reduction = size.Reduction
			f.Pages = r.Pages
			f.Outline = &outline
		} else {
			f.Message = r.Message
		}
		resp.Files = append(resp.Files, f)
	}
	return resp
}
