package packfs

import (
	"fmt"

	"github.com/mwantia/packfs/data"
	"github.com/mwantia/packfs/log"
	"github.com/mwantia/packfs/mounter"
)

type FileSystemOptions struct {
	LogLevel      log.LogLevel
	LogFile       string
	NoTerminalLog bool
	Logger        *log.Logger

	MountRoot       string
	MainPackage     string
	PatchPattern    string
	LanguagePattern string
}

type FileSystemOption func(*FileSystemOptions) error

func newDefaultFileSystemOptions() *FileSystemOptions {
	return &FileSystemOptions{
		LogLevel:        log.Info,
		MountRoot:       "/",
		MainPackage:     mounter.DefaultMainPackage,
		PatchPattern:    mounter.DefaultPatchPattern,
		LanguagePattern: mounter.DefaultLanguagePattern,
	}
}

func WithLogLevel(logLevel log.LogLevel) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.LogLevel = logLevel
		return nil
	}
}

func WithoutTerminalLog() FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.NoTerminalLog = true
		return nil
	}
}

func WithLogFile(logFile string) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.LogFile = logFile
		return nil
	}
}

// WithLogger uses logger instead of creating a new one.
// The filesystem does not close a logger passed this way.
func WithLogger(logger *log.Logger) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}

		opts.Logger = logger
		return nil
	}
}

func WithMountRoot(root string) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		abs, err := data.ToAbsolutePath(root)
		if err != nil {
			return fmt.Errorf("invalid mount root '%s': %w", root, err)
		}

		opts.MountRoot = abs
		return nil
	}
}

func WithMainPackage(name string) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.MainPackage = name
		return nil
	}
}

func WithPatchPattern(pattern string) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.PatchPattern = pattern
		return nil
	}
}

func WithLanguagePattern(pattern string) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.LanguagePattern = pattern
		return nil
	}
}

// mounterOptions forwards the package selection to the mounter.
func (o *FileSystemOptions) mounterOptions(logger *log.Logger) []mounter.MounterOption {
	return []mounter.MounterOption{
		mounter.WithMainPackage(o.MainPackage),
		mounter.WithPatchPattern(o.PatchPattern),
		mounter.WithLanguagePattern(o.LanguagePattern),
		mounter.WithLogger(logger),
	}
}
