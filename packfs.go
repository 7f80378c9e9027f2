// Package packfs provides a read-only overlay filesystem built from game
// package archives.
//
// The main package is mounted first, followed by all patch packages and
// all language packages in byte order. A later package shadows the files
// of earlier packages with the same path.
package packfs

import (
	"context"
	"fmt"
	"sync"

	"github.com/mwantia/packfs/cmd"
	"github.com/mwantia/packfs/cmd/builtin"
	"github.com/mwantia/packfs/data"
	"github.com/mwantia/packfs/log"
	"github.com/mwantia/packfs/mounter"
	"github.com/mwantia/packfs/namespace"
	"github.com/mwantia/packfs/source"
)

type fileSystemImpl struct {
	mu sync.RWMutex

	options   *FileSystemOptions
	log       *log.Logger
	ownsLog   bool
	namespace *namespace.Namespace
	cmds      *cmd.Manager
}

func New(opts ...FileSystemOption) (FileSystem, error) {
	options := newDefaultFileSystemOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	// Reject invalid package names before anything gets mounted
	if _, err := mounter.New(nil, nil, options.mounterOptions(nil)...); err != nil {
		return nil, err
	}

	logger, ownsLog := options.Logger, false
	if logger == nil {
		logger, ownsLog = log.NewLogger("packfs", options.LogLevel, options.LogFile, options.NoTerminalLog), true
	}

	fs := &fileSystemImpl{
		options:   options,
		log:       logger,
		ownsLog:   ownsLog,
		namespace: namespace.New(logger.Named("namespace")),
	}

	fs.cmds = cmd.NewManager(fs)
	if err := builtin.Register(fs.cmds); err != nil {
		return nil, fmt.Errorf("failed to register builtin commands: %w", err)
	}

	return fs, nil
}

// LoadPackages mounts the main, patch and language packages found in src.
func (fs *fileSystemImpl) LoadPackages(ctx context.Context, src source.Source) error {
	if fs.namespace.IsSealed() {
		return data.ErrReadOnly
	}

	logger := fs.log.Named("mounter")
	loader, err := mounter.NewArchiveLoader(src, fs.namespace, fs.options.mounterOptions(logger)...)
	if err != nil {
		return err
	}

	pm, err := mounter.New(src, loader, fs.options.mounterOptions(logger)...)
	if err != nil {
		return err
	}

	fs.log.Info("Loading packages from %s", src.Name())
	return pm.LoadPackages(ctx, fs.options.MountRoot)
}

// LoadDirectory mounts an extracted game directory as a single package.
func (fs *fileSystemImpl) LoadDirectory(ctx context.Context, dir string) error {
	if fs.namespace.IsSealed() {
		return data.ErrReadOnly
	}

	logger := fs.log.Named("mounter")
	loader, err := mounter.NewArchiveLoader(nil, fs.namespace, fs.options.mounterOptions(logger)...)
	if err != nil {
		return err
	}

	fs.log.Info("Loading extracted directory '%s'", dir)
	return loader.MountDirectory(ctx, dir, fs.options.MountRoot)
}

func (fs *fileSystemImpl) Seal() {
	fs.namespace.Seal()
	fs.log.Debug("Filesystem sealed with %d mounts", len(fs.namespace.Mounts()))
}

func (fs *fileSystemImpl) Entries() []*data.Metadata {
	return fs.namespace.Entries()
}

// Shutdown unmounts all packages and closes the logger if it was created by New.
func (fs *fileSystemImpl) Shutdown(ctx context.Context) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	errs := &data.Errors{}
	if err := fs.namespace.Shutdown(ctx); err != nil {
		errs.Add(fmt.Errorf("failed to shutdown namespace: %w", err))
	}

	if fs.ownsLog {
		if err := fs.log.Close(); err != nil {
			errs.Add(fmt.Errorf("failed to close logger: %w", err))
		}
	}

	return errs.Errors()
}
