// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package staging writes uploaded documents to uniquely named temporary
// files so that path-based converters can read them, and removes them
// afterwards.
package staging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const filePrefix = "docreader-"

// Stager creates staged files in a single directory.
type Stager struct {
	dir string
}

// New returns a Stager that writes into dir. An empty dir selects the
// operating system's temp directory.
func New(dir string) *Stager {
	return &Stager{dir: dir}
}

// File is a staged copy of an uploaded document.
type File struct {
	// Path is the absolute location of the staged bytes.
	Path string

	// Size is the number of bytes written.
	Size int64
}

// Stage copies r into a new temp file whose name ends with the extension of
// name. The temp file allocator guarantees the path is unique. On failure no
// file is left behind.
func (s *Stager) Stage(name string, r io.Reader) (*File, error) {
	ext := filepath.Ext(name)
	if strings.ContainsAny(ext, `/\*`) {
		ext = ""
	}

	f, err := os.CreateTemp(s.dir, filePrefix+"*"+ext)
	if err != nil {
		return nil, fmt.Errorf("creating staged file for %s: %w", name, err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("writing staged file for %s: %w", name, err)
	}

	return &File{Path: f.Name(), Size: n}, nil
}

// Release removes the staged file. A file that is already gone is not an
// error, so Release may be deferred unconditionally and called more than once.
func (f *File) Release() error {
	if f == nil {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing staged file %s: %w", f.Path, err)
	}
	return nil
}
