package cmd

import (
	"context"
	"io"

	"github.com/mwantia/packfs/data"
)

// API is the read-only part of the filesystem that commands operate on.
type API interface {
	// StatMetadata returns the metadata for the given path.
	// Returns an error if the path doesn't exist.
	StatMetadata(ctx context.Context, path string) (*data.Metadata, error)

	// LookupMetadata checks if a file or directory exists at the given path.
	LookupMetadata(ctx context.Context, path string) (bool, error)

	// ReadDirectory returns a list of entries in the directory at path.
	// Returns an error if the path is not a directory or doesn't exist.
	ReadDirectory(ctx context.Context, path string) ([]*data.Metadata, error)

	// OpenFile opens the file at path for reading.
	// The returned ReadCloser must be closed by the caller.
	OpenFile(ctx context.Context, path string) (io.ReadCloser, error)

	// ReadFile reads size bytes from the file at path starting at offset.
	// A negative size reads until the end of the file.
	ReadFile(ctx context.Context, path string, offset, size int64) ([]byte, error)

	// Which returns the mount record of the archive serving path.
	Which(ctx context.Context, path string) (*data.MountRecord, error)

	// Mounts returns all mounted archives in mount order.
	Mounts() []*data.MountRecord
}

// Command represents an executable command within the virtual filesystem.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "ls -l [path]")
	Usage() string

	// Execute runs the command with parsed arguments
	// The writer parameter is where command output should be written
	// Returns exit code (0 = success) and error message
	Execute(ctx context.Context, api API, args *CommandArgs, writer io.Writer) (int, error)

	// GetFlags returns the flag set for this command (this is optional)
	GetFlags() *CommandFlagSet
}
