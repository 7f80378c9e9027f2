// Package direct serves an extracted game directory as a single package.
package direct

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mwantia/packfs/archive"
	"github.com/mwantia/packfs/data"
)

// Archive exposes all regular files below root as archive entries.
// Symbolic links and other special files are ignored.
type Archive struct {
	mu   sync.RWMutex
	root string

	entries []*archive.Entry
	files   map[string]string
}

func NewArchive(root string) *Archive {
	return &Archive{
		root: filepath.Clean(root),
	}
}

// Name returns the base name of the served directory.
func (a *Archive) Name() string {
	return filepath.Base(a.root)
}

// Open walks the directory and records every regular file.
func (a *Archive) Open(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	info, err := os.Stat(a.root)
	if err != nil {
		return fmt.Errorf("failed to stat '%s': %w", a.root, data.FromOSError(err))
	}
	if !info.IsDir() {
		return fmt.Errorf("failed to open '%s': %w", a.root, data.ErrNotDirectory)
	}

	entries := make([]*archive.Entry, 0)
	files := make(map[string]string)

	err = filepath.WalkDir(a.root, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return data.FromOSError(err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(a.root, fullPath)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return data.FromOSError(err)
		}

		name := data.ToEntryName(filepath.ToSlash(rel))
		entries = append(entries, &archive.Entry{
			Name:           name,
			Size:           info.Size(),
			CompressedSize: info.Size(),
			Mode:           data.FromFileMode(info.Mode()),
			ModifyTime:     info.ModTime(),
		})
		files[name] = fullPath

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk '%s': %w", a.root, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	a.entries = entries
	a.files = files

	return nil
}

// Close releases the recorded entries. The directory itself stays untouched.
func (a *Archive) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = nil
	a.files = nil

	return nil
}

func (a *Archive) Entries() []*archive.Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	entries := make([]*archive.Entry, len(a.entries))
	copy(entries, a.entries)

	return entries
}

// OpenEntry only opens files that were recorded by Open.
func (a *Archive) OpenEntry(ctx context.Context, name string) (io.ReadCloser, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.files == nil {
		return nil, data.ErrArchiveClosed
	}

	fullPath, exists := a.files[data.ToEntryName(name)]
	if !exists {
		return nil, data.ErrNotExist
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, data.FromOSError(err)
	}

	return file, nil
}
