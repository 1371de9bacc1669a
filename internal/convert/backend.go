// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/docreader/internal/container"
	"github.com/pdiddy/docreader/pkg/types"
)

// ErrNoBackend is returned when no markitdown backend can be started.
var ErrNoBackend = errors.New("no markitdown backend available")

// Backend is a Converter that can describe itself.
type Backend interface {
	Converter
	Name() string
}

// backendDeps holds the constructors used by NewBackend so tests can
// substitute them.
type backendDeps struct {
	cli       func(bin string) (Backend, error)
	detect    func(ctx context.Context) (container.Runtime, error)
	container func(ctx context.Context, rt container.Runtime, image string) (Backend, error)
}

var defaultDeps = backendDeps{
	cli: func(bin string) (Backend, error) {
		b, err := NewMarkitdownCLI(bin)
		if err != nil {
			return nil, err
		}
		return b, nil
	},
	detect: container.DetectRuntime,
	container: func(ctx context.Context, rt container.Runtime, image string) (Backend, error) {
		b, err := NewMarkitdownContainer(ctx, rt, image)
		if err != nil {
			return nil, err
		}
		return b, nil
	},
}

// NewBackend selects the converter named by cfg.Backend. With
// BackendAuto it prefers a local markitdown binary and falls back to a
// container runtime.
func NewBackend(ctx context.Context, cfg types.ConversionConfig) (Backend, error) {
	return newBackend(ctx, cfg, defaultDeps)
}

func newBackend(ctx context.Context, cfg types.ConversionConfig, deps backendDeps) (Backend, error) {
	switch cfg.Backend {
	case types.BackendMarkitdown:
		return deps.cli(cfg.Binary)

	case types.BackendContainer:
		return containerBackend(ctx, cfg, deps)

	case types.BackendAuto, "":
		b, cliErr := deps.cli(cfg.Binary)
		if cliErr == nil {
			return b, nil
		}
		b, ctrErr := containerBackend(ctx, cfg, deps)
		if ctrErr == nil {
			return b, nil
		}
		return nil, fmt.Errorf("%w: %w; %w", ErrNoBackend, cliErr, ctrErr)

	default:
		return nil, fmt.Errorf("unknown conversion backend %q (want auto, markitdown, or container)", cfg.Backend)
	}
}

func containerBackend(ctx context.Context, cfg types.ConversionConfig, deps backendDeps) (Backend, error) {
	rt, err := deps.detect(ctx)
	if err != nil {
		return nil, err
	}
	return deps.container(ctx, rt, cfg.Image)
}
