package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwantia/packfs/data"
	"github.com/mwantia/packfs/source"
)

// Source reads packages from a directory on the local filesystem.
type Source struct {
	root string
}

func New(root string) *Source {
	return &Source{
		root: filepath.Clean(root),
	}
}

// Name returns the identifier name defined for this source
func (*Source) Name() string {
	return "local"
}

// Root returns the directory packages are read from.
func (s *Source) Root() string {
	return s.root
}

func (s *Source) List(ctx context.Context) ([]*source.Entry, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat '%s': %w", s.root, data.FromOSError(err))
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to list '%s': %w", s.root, data.ErrNotDirectory)
	}

	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list '%s': %w", s.root, data.FromOSError(err))
	}

	entries := make([]*source.Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		entry := &source.Entry{
			Name:  dirEntry.Name(),
			IsDir: dirEntry.IsDir(),
		}
		// Entries removed while listing are reported without size
		if info, err := dirEntry.Info(); err == nil {
			entry.Size = info.Size()
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *Source) Open(ctx context.Context, name string) (source.File, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("failed to open '%s': %w", name, data.ErrInvalidPath)
	}

	fullPath := filepath.Join(s.root, name)
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", fullPath, data.FromOSError(err))
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat '%s': %w", fullPath, data.FromOSError(err))
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("failed to open '%s': %w", fullPath, data.ErrIsDirectory)
	}

	return &file{File: f, size: info.Size()}, nil
}

type file struct {
	*os.File
	size int64
}

func (f *file) Size() int64 {
	return f.size
}
