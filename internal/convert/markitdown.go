// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/docreader/internal/container"
)

const (
	defaultBinary = "markitdown"
	defaultImage  = "markitdown:latest"

	maxStderr = 4 << 10

	// waitDelay bounds how long a cancelled run may hold its output pipes.
	waitDelay = 2 * time.Second
)

// ConversionError reports a failed markitdown run with the tool's stderr.
type ConversionError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("markitdown failed on %s: %v: %s", e.Path, e.Err, e.Stderr)
	}
	return fmt.Sprintf("markitdown failed on %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// MarkitdownCLI converts documents by running a locally installed markitdown
// binary with the document path as its only argument.
type MarkitdownCLI struct {
	bin string
}

// NewMarkitdownCLI resolves bin on PATH (or as a path) and returns a
// converter that runs it.
func NewMarkitdownCLI(bin string) (*MarkitdownCLI, error) {
	if bin == "" {
		bin = defaultBinary
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("markitdown binary %q not found: %w", bin, err)
	}
	return &MarkitdownCLI{bin: resolved}, nil
}

// Name identifies the backend.
func (m *MarkitdownCLI) Name() string { return "markitdown" }

// Convert runs markitdown on path and returns its stdout.
func (m *MarkitdownCLI) Convert(ctx context.Context, path string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, m.bin, path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(ctxErr, err)
		}
		return "", &ConversionError{Path: path, Stderr: tail(stderr.String()), Err: err}
	}
	return stdout.String(), nil
}

// MarkitdownContainer converts documents by piping them through the
// markitdown container image. It depends on a container.Runtime (docker or
// podman) injected at construction time.
type MarkitdownContainer struct {
	runtime container.Runtime
	image   string
}

// NewMarkitdownContainer creates a converter that uses rt to run image. It
// verifies that the image exists locally before returning.
func NewMarkitdownContainer(ctx context.Context, rt container.Runtime, image string) (*MarkitdownContainer, error) {
	if image == "" {
		image = defaultImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownContainer{runtime: rt, image: image}, nil
}

// Name identifies the backend.
func (m *MarkitdownContainer) Name() string { return "container/" + m.runtime.Name() }

// Convert streams the file at path into the container. The extension is
// passed with -x because markitdown cannot see the file name on stdin.
func (m *MarkitdownContainer) Convert(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var args []string
	if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext != "" {
		args = []string{"-x", ext}
	}

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, m.image, args, f, &out); err != nil {
		return "", &ConversionError{Path: path, Err: err}
	}
	return out.String(), nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		s = s[len(s)-maxStderr:]
	}
	return s
}
