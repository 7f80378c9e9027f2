package mounter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mwantia/packfs/archive/b25c"
	"github.com/mwantia/packfs/archive/direct"
	"github.com/mwantia/packfs/data"
	"github.com/mwantia/packfs/namespace"
	"github.com/mwantia/packfs/source"
)

// ArchiveLoader is the Primitive that opens packages from a source and
// mounts them into a namespace.
type ArchiveLoader struct {
	source    source.Source
	namespace *namespace.Namespace
	options   *MounterOptions
}

func NewArchiveLoader(src source.Source, ns *namespace.Namespace, opts ...MounterOption) (*ArchiveLoader, error) {
	options, err := newMounterOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &ArchiveLoader{
		source:    src,
		namespace: ns,
		options:   options,
	}, nil
}

// MountPackage opens the package name from the source and mounts it at root.
func (al *ArchiveLoader) MountPackage(ctx context.Context, name, root string) error {
	f, err := al.source.Open(ctx, name)
	if errors.Is(err, data.ErrNotExist) {
		// Package names are matched regardless of case
		if actual, found := al.resolveName(ctx, name); found {
			name = actual
			f, err = al.source.Open(ctx, name)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to open package '%s' from %s: %w", name, al.source.Name(), err)
	}

	arc := b25c.NewArchive(name, f)
	if _, err := al.namespace.Mount(ctx, arc, root, al.Classify(name)); err != nil {
		return err
	}

	return nil
}

// MountDirectory mounts an extracted game directory as a single package.
func (al *ArchiveLoader) MountDirectory(ctx context.Context, dir, root string) error {
	arc := direct.NewArchive(dir)
	if _, err := al.namespace.Mount(ctx, arc, root, data.MountKindDirectory); err != nil {
		al.options.Logger.Error("Unable to mount directory '%s': %v", dir, err)
		return err
	}

	al.options.Logger.Debug("Mounted directory '%s' at '%s'", dir, data.CleanPath(root))
	return nil
}

// resolveName looks up name case-insensitively in the package directory.
// The first match in byte order wins.
func (al *ArchiveLoader) resolveName(ctx context.Context, name string) (string, bool) {
	entries, err := al.source.List(ctx)
	if err != nil {
		return "", false
	}

	names := source.Names(entries)
	sort.Strings(names)

	for _, candidate := range names {
		if candidate != name && strings.EqualFold(candidate, name) {
			return candidate, true
		}
	}

	return "", false
}

// Classify returns the role of the package name within the overlay.
func (al *ArchiveLoader) Classify(name string) data.MountKind {
	switch {
	case strings.EqualFold(name, al.options.MainPackage):
		return data.MountKindMain
	case Match(name, al.options.PatchPattern):
		return data.MountKindPatch
	case Match(name, al.options.LanguagePattern):
		return data.MountKindLanguage
	}

	return data.MountKindCustom
}
