package archive

import (
	"context"
	"io"
	"time"

	"github.com/mwantia/packfs/data"
)

// Archive is an immutable, named container of files that can be mounted
// read-only into the namespace.
type Archive interface {
	// Name returns the identifier of this archive, usually its file name.
	Name() string

	// Open is part of the lifecycle behaviour and gets called when the archive gets mounted.
	// Entries is only valid after Open returned successfully.
	Open(ctx context.Context) error

	// Close is part of the lifecycle behaviour and gets called when the archive gets unmounted.
	// Close must be safe to call even if Open failed or was never called.
	Close(ctx context.Context) error

	// Entries returns all regular files contained in this archive.
	Entries() []*Entry

	// OpenEntry opens the entry with the given name for reading.
	// Returns data.ErrNotExist if the archive has no such entry.
	OpenEntry(ctx context.Context, name string) (io.ReadCloser, error)
}

// Entry describes a regular file inside an archive.
type Entry struct {
	// Slash separated name without leading slash
	Name string

	Size           int64
	CompressedSize int64
	Offset         int64

	Mode       data.FileMode
	ModifyTime time.Time
}
