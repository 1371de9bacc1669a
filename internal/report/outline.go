// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Outline counts structural elements of converted Markdown.
type Outline struct {
	Headings int `json:"headings" yaml:"headings"`
	Tables   int `json:"tables" yaml:"tables"`
}

// markitdown emits GFM pipe tables for spreadsheets and slide tables.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Summarize parses md and counts its headings and tables. It never renders.
func Summarize(md string) Outline {
	src := []byte(md)
	doc := markdown.Parser().Parse(text.NewReader(src))

	var o Outline
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			o.Headings++
		case extast.KindTable:
			o.Tables++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return o
}
