package packfs

import (
	"context"
	"io"

	"github.com/mwantia/packfs/cmd"
	"github.com/mwantia/packfs/data"
	"github.com/mwantia/packfs/source"
)

// FileSystem is the read-only overlay filesystem assembled from a package
// directory. Packages are loaded once during startup, after which the
// filesystem is sealed and only serves reads.
type FileSystem interface {
	cmd.API

	// LoadPackages mounts the main, patch and language packages found in src
	// at the configured mount root.
	LoadPackages(ctx context.Context, src source.Source) error

	// LoadDirectory mounts an extracted game directory as a single package
	// at the configured mount root.
	LoadDirectory(ctx context.Context, dir string) error

	// Seal makes the filesystem read-only. Further loads fail with ErrReadOnly.
	Seal()

	// Entries returns the metadata of every file ordered by path.
	Entries() []*data.Metadata

	// Shutdown unmounts all packages, newest first, and releases all resources.
	// This should be called once when the filesystem is no longer used.
	Shutdown(ctx context.Context) error

	// RegisterCommand adds a custom command next to the builtin commands.
	RegisterCommand(c cmd.Command) error

	// UnregisterCommand removes a command. Returns false if no command was registered with name.
	UnregisterCommand(name string) (bool, error)

	// Commands returns all registered commands ordered by name.
	Commands() []cmd.Command

	// Execute runs a command with the given arguments, writing output to the provided writer.
	Execute(ctx context.Context, writer io.Writer, args ...string) (int, error)
}
