// Package source describes where package archives are read from.
package source

import (
	"context"
	"io"
)

// Source is a flat package directory.
type Source interface {
	// Name returns the identifier name defined for this source.
	Name() string

	// List returns the direct children of the package directory.
	// Nested content is never reported.
	List(ctx context.Context) ([]*Entry, error)

	// Open returns a random access handle for the named child.
	Open(ctx context.Context, name string) (File, error)
}

// Entry is a single child of a package directory.
type Entry struct {
	Name  string
	Size  int64
	IsDir bool
}

// File is an opened package archive.
type File interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

// Names returns the names of all entries that are not directories.
func Names(entries []*Entry) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		names = append(names, entry.Name)
	}

	return names
}
