// Package engine drives a packfs run: it builds the filesystem from the
// configuration, hands the boot script to a script runner and tears
// everything down again in a single, fixed order.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwantia/packfs"
	"github.com/mwantia/packfs/config"
	"github.com/mwantia/packfs/index"
	"github.com/mwantia/packfs/log"
	"github.com/mwantia/packfs/source"
	"github.com/mwantia/packfs/source/address"
)

type Engine struct {
	config   *config.Config
	runner   ScriptRunner
	options  *EngineOptions
	services *Services

	log *log.Logger
	fs  packfs.FileSystem
}

func New(cfg *config.Config, runner ScriptRunner, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if runner == nil {
		return nil, fmt.Errorf("script runner cannot be nil")
	}

	options, err := newEngineOptions(opts...)
	if err != nil {
		return nil, err
	}

	// A replaced source makes the configured address optional
	if options.Source == nil || cfg.Game.Extracted {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return &Engine{
		config:   cfg,
		runner:   runner,
		options:  options,
		services: &Services{},
	}, nil
}

// Run starts the engine, executes the boot script and tears everything down.
// End always runs, even if Start failed; in that case the start error is returned.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Start(ctx); err != nil {
		if endErr := e.End(ctx); endErr != nil && e.log != nil {
			e.log.Error("Teardown after failed start failed: %v", endErr)
		}
		return err
	}

	mainErr := e.Main(ctx)
	endErr := e.End(ctx)

	return errors.Join(mainErr, endErr)
}

// Start builds all services: logger, filesystem, optional index and the script runner.
// The runner is registered last, also when Start fails, so it is always released first.
func (e *Engine) Start(ctx context.Context) error {
	defer e.services.Register("runner", e.runner.Close)

	e.log = e.options.Logger
	if e.log == nil {
		e.log = log.New(log.LoggerOptions{
			Name:       "packfs",
			Level:      e.config.LogLevel(),
			File:       e.config.Log.File,
			NoTerminal: e.config.Log.NoTerminal,
			JSON:       e.config.Log.JSON,
		})
		logger := e.log
		e.services.Register("log", func(ctx context.Context) error {
			return logger.Close()
		})
	}

	fs, err := packfs.New(
		packfs.WithLogger(e.log),
		packfs.WithMountRoot(e.config.Mount.Root),
		packfs.WithMainPackage(e.config.Mount.MainPackage),
		packfs.WithPatchPattern(e.config.Mount.PatchPattern),
		packfs.WithLanguagePattern(e.config.Mount.LanguagePattern),
	)
	if err != nil {
		return fmt.Errorf("failed to create filesystem: %w", err)
	}
	e.fs = fs
	e.services.Register("filesystem", fs.Shutdown)

	if err := e.load(ctx); err != nil {
		return err
	}
	fs.Seal()

	if e.config.Index.Address != "" {
		if err := e.export(ctx); err != nil {
			return err
		}
	}

	e.log.Info("Engine started with %d mounts and %d files", len(fs.Mounts()), len(fs.Entries()))
	return nil
}

func (e *Engine) load(ctx context.Context) error {
	if e.config.Game.Extracted {
		if err := e.fs.LoadDirectory(ctx, e.config.Game.Path); err != nil {
			return fmt.Errorf("failed to load extracted game '%s': %w", e.config.Game.Path, err)
		}
		return nil
	}

	src, err := e.source()
	if err != nil {
		return err
	}

	if err := e.fs.LoadPackages(ctx, src); err != nil {
		return fmt.Errorf("failed to load packages from %s: %w", src.Name(), err)
	}

	return nil
}

func (e *Engine) source() (source.Source, error) {
	if e.options.Source != nil {
		return e.options.Source, nil
	}

	src, err := address.Parse(e.config.SourceAddress())
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}

	return src, nil
}

// export writes the sealed namespace into the configured index store.
func (e *Engine) export(ctx context.Context) error {
	store, err := index.Open(e.config.Index.Address)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if err := store.Open(ctx); err != nil {
		store.Close(ctx)
		return fmt.Errorf("failed to open index %s: %w", store.Name(), err)
	}
	e.services.Register("index", store.Close)

	if err := store.WriteSnapshot(ctx, e.fs.Mounts(), e.fs.Entries()); err != nil {
		return fmt.Errorf("failed to export index %s: %w", store.Name(), err)
	}

	e.log.Debug("Exported namespace into index %s", store.Name())
	return nil
}

// Main resolves the boot script and hands it to the script runner.
func (e *Engine) Main(ctx context.Context) error {
	if e.fs == nil {
		return fmt.Errorf("engine not started")
	}

	path := e.config.Game.BootScript

	rc, err := e.fs.OpenFile(ctx, path)
	if err != nil {
		e.log.Error("Unable to open boot script '%s': %v", path, err)
		return fmt.Errorf("failed to open boot script '%s': %w", path, err)
	}
	defer rc.Close()

	e.log.Debug("Executing boot script '%s' with runner %s", path, e.runner.Name())
	if err := e.runner.ExecuteFile(ctx, path, rc); err != nil {
		return fmt.Errorf("failed to execute boot script '%s': %w", path, err)
	}

	return nil
}

// End shuts down all services in reverse order of their creation:
// runner, index, filesystem and finally the logger.
func (e *Engine) End(ctx context.Context) error {
	if e.log != nil {
		e.log.Debug("Shutting down services %v", e.services.Names())
	}

	return e.services.Shutdown(ctx)
}

// FileSystem returns the filesystem built by Start, or nil before Start.
func (e *Engine) FileSystem() packfs.FileSystem {
	return e.fs
}
