package engine

import (
	"fmt"

	"github.com/mwantia/packfs/log"
	"github.com/mwantia/packfs/source"
)

type EngineOptions struct {
	// Logger replaces the logger built from the configuration.
	Logger *log.Logger

	// Source replaces the source parsed from the configured address.
	Source source.Source
}

type EngineOption func(*EngineOptions) error

func newEngineOptions(opts ...EngineOption) (*EngineOptions, error) {
	options := &EngineOptions{}

	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func WithLogger(logger *log.Logger) EngineOption {
	return func(opts *EngineOptions) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}

		opts.Logger = logger
		return nil
	}
}

func WithSource(src source.Source) EngineOption {
	return func(opts *EngineOptions) error {
		if src == nil {
			return fmt.Errorf("source cannot be nil")
		}

		opts.Source = src
		return nil
	}
}
