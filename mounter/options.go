package mounter

import (
	"fmt"
	"strings"

	"github.com/mwantia/packfs/log"
)

type MounterOptions struct {
	MainPackage     string
	PatchPattern    string
	LanguagePattern string

	Logger *log.Logger
}

type MounterOption func(*MounterOptions) error

func newMounterOptions(opts ...MounterOption) (*MounterOptions, error) {
	options := &MounterOptions{
		MainPackage:     DefaultMainPackage,
		PatchPattern:    DefaultPatchPattern,
		LanguagePattern: DefaultLanguagePattern,
	}

	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if options.Logger == nil {
		options.Logger = log.Discard()
	}

	return options, nil
}

func WithMainPackage(name string) MounterOption {
	return func(mo *MounterOptions) error {
		name = strings.TrimSpace(name)
		if name == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("invalid main package name '%s'", name)
		}

		mo.MainPackage = name
		return nil
	}
}

func WithPatchPattern(pattern string) MounterOption {
	return func(mo *MounterOptions) error {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("patch pattern must not be empty")
		}

		mo.PatchPattern = pattern
		return nil
	}
}

func WithLanguagePattern(pattern string) MounterOption {
	return func(mo *MounterOptions) error {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("language pattern must not be empty")
		}

		mo.LanguagePattern = pattern
		return nil
	}
}

func WithLogger(logger *log.Logger) MounterOption {
	return func(mo *MounterOptions) error {
		mo.Logger = logger
		return nil
	}
}
