// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(_ context.Context, name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(_ context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout, stderr)
	}
	return nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true},
				runnableCmds:  map[string]bool{"docker info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman fallback when docker missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name:    "neither available",
			exec:    &mockExecutor{},
			wantErr: true,
		},
		{
			name: "docker daemon down, podman works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(context.Background(), tt.exec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no container runtime available") {
					t.Errorf("error should mention no runtime available, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rt.Name() != tt.wantName {
				t.Errorf("got runtime %q, want %q", rt.Name(), tt.wantName)
			}
		})
	}
}

func TestImageExists(t *testing.T) {
	tests := []struct {
		name    string
		mkRT    func(*mockExecutor) Runtime
		cmds    map[string]bool
		wantErr bool
	}{
		{
			name: "docker image exists",
			mkRT: func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			cmds: map[string]bool{"docker image inspect markitdown:latest": true},
		},
		{
			name:    "docker image missing",
			mkRT:    func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			wantErr: true,
		},
		{
			name: "podman image exists",
			mkRT: func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			cmds: map[string]bool{"podman image exists markitdown:latest": true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := tt.mkRT(&mockExecutor{runnableCmds: tt.cmds})
			err := rt.ImageExists(context.Background(), "markitdown:latest")
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "markitdown:latest") {
					t.Fatalf("expected error naming the image, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRun(t *testing.T) {
	var gotArgs []string
	exec := &mockExecutor{
		runPipedFunc: func(name string, args []string, stdin io.Reader, stdout, _ io.Writer) error {
			gotArgs = append([]string{name}, args...)
			data, _ := io.ReadAll(stdin)
			_, _ = stdout.Write([]byte("# converted " + string(data)))
			return nil
		},
	}
	rt := newDockerRuntime(exec)

	var out bytes.Buffer
	err := rt.Run(context.Background(), "markitdown:latest", []string{"-x", "docx"}, strings.NewReader("doc"), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "# converted doc" {
		t.Errorf("output = %q", got)
	}
	want := "docker run --rm -i --sig-proxy=true --network none markitdown:latest -x docx"
	if got := strings.Join(gotArgs, " "); got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestRunFailureIncludesStderr(t *testing.T) {
	exec := &mockExecutor{
		runPipedFunc: func(_ string, _ []string, _ io.Reader, _, stderr io.Writer) error {
			_, _ = stderr.Write([]byte("Traceback...\nFileConversionException: bad zip\n"))
			return errors.New("exit status 1")
		},
	}
	rt := newPodmanRuntime(exec)

	err := rt.Run(context.Background(), "markitdown:latest", nil, strings.NewReader(""), io.Discard)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, want := range []string{"podman", "exit status 1", "bad zip"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should contain %q", err, want)
		}
	}
}

func TestPipedCommandInterruptsOnCancel(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	script := `trap 'echo interrupted >&2; exit 3' INT; sleep 5 >/dev/null 2>&1 & wait`
	cmd := pipedCommand(ctx, "sh", []string{"-c", script}, 2*time.Second)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected error after cancellation, got nil")
	}
	if !strings.Contains(stderr.String(), "interrupted") {
		t.Errorf("process was not interrupted; stderr = %q", stderr.String())
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cancelled run took %v", elapsed)
	}
}

func TestOSExecutorJoinsContextError(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := (&osExecutor{}).RunPiped(ctx, "sh", []string{"-c", "exec sleep 5"}, strings.NewReader(""), io.Discard, io.Discard)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestTail(t *testing.T) {
	if got := tail("  abc  ", 10); got != "abc" {
		t.Errorf("tail trimmed = %q", got)
	}
	if got := tail("0123456789", 4); got != "6789" {
		t.Errorf("tail truncated = %q", got)
	}
}
