// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMarkitdown stands in for the markitdown CLI: it fails on .pdf,
// prints nothing for .htm, hangs on .pptx, and echoes other files under a
// heading.
const fakeMarkitdown = `#!/bin/sh
case "$1" in
  *.pdf) echo "PDFSyntaxError: No /Root object" >&2; exit 1 ;;
  *.htm) exit 0 ;;
  *.pptx) exec sleep 5 ;;
esac
printf '# Converted\n\n'
cat "$1"
`

func writeFakeMarkitdown(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "markitdown")
	require.NoError(t, os.WriteFile(path, []byte(fakeMarkitdown), 0o755))
	return path
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMarkitdownCLI_Convert(t *testing.T) {
	cli, err := NewMarkitdownCLI(writeFakeMarkitdown(t))
	require.NoError(t, err)
	assert.Equal(t, "markitdown", cli.Name())

	got, err := cli.Convert(context.Background(), writeInput(t, "memo.docx", "Body text"))
	require.NoError(t, err)
	assert.Equal(t, "# Converted\n\nBody text", got)
}

func TestMarkitdownCLI_EmptyOutput(t *testing.T) {
	cli, err := NewMarkitdownCLI(writeFakeMarkitdown(t))
	require.NoError(t, err)

	got, err := cli.Convert(context.Background(), writeInput(t, "blank.htm", "<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestMarkitdownCLI_Failure(t *testing.T) {
	cli, err := NewMarkitdownCLI(writeFakeMarkitdown(t))
	require.NoError(t, err)

	input := writeInput(t, "corrupted.pdf", "garbage")
	_, err = cli.Convert(context.Background(), input)
	require.Error(t, err)

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, input, convErr.Path)
	assert.Contains(t, convErr.Stderr, "No /Root object")
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestMarkitdownCLI_Cancelled(t *testing.T) {
	cli, err := NewMarkitdownCLI(writeFakeMarkitdown(t))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = cli.Convert(ctx, writeInput(t, "slow.pptx", "x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestNewMarkitdownCLI_Missing(t *testing.T) {
	_, err := NewMarkitdownCLI(filepath.Join(t.TempDir(), "no-such-markitdown"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// fakeRuntime implements container.Runtime.
type fakeRuntime struct {
	hasImage bool
	runErr   error
	gotImage string
	gotArgs  []string
	gotInput string
}

func (f *fakeRuntime) Name() string                   { return "docker" }
func (f *fakeRuntime) Available(context.Context) bool { return true }

func (f *fakeRuntime) ImageExists(_ context.Context, image string) error {
	if !f.hasImage {
		return errors.New("image " + image + " not found")
	}
	return nil
}

func (f *fakeRuntime) Run(_ context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.gotImage = image
	f.gotArgs = args
	data, _ := io.ReadAll(stdin)
	f.gotInput = string(data)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := stdout.Write([]byte(strings.ToUpper(string(data))))
	return err
}

func TestMarkitdownContainer(t *testing.T) {
	rt := &fakeRuntime{hasImage: true}
	c, err := NewMarkitdownContainer(context.Background(), rt, "")
	require.NoError(t, err)
	assert.Equal(t, "container/docker", c.Name())

	got, err := c.Convert(context.Background(), writeInput(t, "sheet.xlsx", "cells"))
	require.NoError(t, err)
	assert.Equal(t, "CELLS", got)
	assert.Equal(t, "markitdown:latest", rt.gotImage)
	assert.Equal(t, []string{"-x", "xlsx"}, rt.gotArgs)
	assert.Equal(t, "cells", rt.gotInput)
}

func TestMarkitdownContainer_ExtensionHintIsLowerCase(t *testing.T) {
	rt := &fakeRuntime{hasImage: true}
	c, err := NewMarkitdownContainer(context.Background(), rt, "")
	require.NoError(t, err)

	_, err = c.Convert(context.Background(), writeInput(t, "Deck.PPTX", "slides"))
	require.NoError(t, err)
	assert.Equal(t, []string{"-x", "pptx"}, rt.gotArgs)
}

func TestMarkitdownContainer_EmptyOutputIsNotAnError(t *testing.T) {
	c, err := NewMarkitdownContainer(context.Background(), &fakeRuntime{hasImage: true}, "custom:1")
	require.NoError(t, err)

	got, err := c.Convert(context.Background(), writeInput(t, "empty.html", ""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMarkitdownContainer_RunFailure(t *testing.T) {
	rt := &fakeRuntime{hasImage: true, runErr: errors.New("exit status 1")}
	c, err := NewMarkitdownContainer(context.Background(), rt, "")
	require.NoError(t, err)

	_, err = c.Convert(context.Background(), writeInput(t, "bad.docx", "x"))
	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestMarkitdownContainer_MissingImage(t *testing.T) {
	_, err := NewMarkitdownContainer(context.Background(), &fakeRuntime{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markitdown image not available in docker")
}

func TestMarkitdownContainer_MissingFile(t *testing.T) {
	c, err := NewMarkitdownContainer(context.Background(), &fakeRuntime{hasImage: true}, "")
	require.NoError(t, err)

	_, err = c.Convert(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening")
}
