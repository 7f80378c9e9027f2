// Package mounter assembles the namespace out of a package directory.
//
// Packages are mounted in three phases: the main package first, then all
// patch packages and finally all language packages. Later mounts shadow
// earlier ones, so a language package wins over a patch, which wins over
// the main package.
package mounter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mwantia/packfs/data"
	"github.com/mwantia/packfs/log"
	"github.com/mwantia/packfs/source"
)

const (
	DefaultMainPackage     = "data.b25c"
	DefaultPatchPattern    = "patch###.b25c"
	DefaultLanguagePattern = "lang_*.b25c"
)

// Primitive mounts a single package of the package directory at root.
type Primitive interface {
	MountPackage(ctx context.Context, name, root string) error
}

// Lister returns the direct children of the package directory.
type Lister interface {
	List(ctx context.Context) ([]*source.Entry, error)
}

type PackageMounter struct {
	lister    Lister
	primitive Primitive

	options *MounterOptions
	logger  *log.Logger
}

func New(lister Lister, primitive Primitive, opts ...MounterOption) (*PackageMounter, error) {
	options, err := newMounterOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &PackageMounter{
		lister:    lister,
		primitive: primitive,
		options:   options,
		logger:    options.Logger,
	}, nil
}

// LoadPackages mounts the main, patch and language packages at root.
//
// Mounting stops at the first failure. Packages mounted before the failure
// stay mounted; the caller is expected to abort instead of continuing with
// a partial namespace.
func (pm *PackageMounter) LoadPackages(ctx context.Context, root string) error {
	root = data.CleanPath(root)

	mainPackage := pm.options.MainPackage
	if err := pm.primitive.MountPackage(ctx, mainPackage, root); err != nil {
		pm.logger.Error("Unable to mount main package '%s': %v", mainPackage, err)
		return &MountError{Kind: data.ErrMissingMainPackage, Package: mainPackage, Err: err}
	}
	pm.logger.Debug("Mounted main package '%s' at '%s'", mainPackage, root)

	entries, err := pm.lister.List(ctx)
	if err != nil {
		pm.logger.Error("Unable to list package directory: %v", err)
		return &MountError{Kind: data.ErrDirectoryUnreadable, Err: err}
	}

	names := source.Names(entries)
	sort.Strings(names)

	patches, languages := pm.selectPackages(names)

	for _, name := range patches {
		if err := pm.mount(ctx, name, root); err != nil {
			pm.logger.Error("Unable to mount patch package '%s': %v", name, err)
			return &MountError{Kind: data.ErrPatchMountFailed, Package: name, Err: err}
		}
		pm.logger.Debug("Mounted patch package '%s' at '%s'", name, root)
	}

	for _, name := range languages {
		if err := pm.mount(ctx, name, root); err != nil {
			pm.logger.Error("Unable to mount language package '%s': %v", name, err)
			return &MountError{Kind: data.ErrLanguageMountFailed, Package: name, Err: err}
		}
		pm.logger.Debug("Mounted language package '%s' at '%s'", name, root)
	}

	pm.logger.Info("Mounted %d packages (%d patches, %d languages) at '%s'",
		1+len(patches)+len(languages), len(patches), len(languages), root)

	return nil
}

// selectPackages splits the sorted names into patch and language packages,
// keeping their order.
func (pm *PackageMounter) selectPackages(names []string) ([]string, []string) {
	patches := make([]string, 0)
	languages := make([]string, 0)

	for _, name := range names {
		if strings.EqualFold(name, pm.options.MainPackage) {
			continue
		}

		matched := false
		if Match(name, pm.options.PatchPattern) {
			patches = append(patches, name)
			matched = true
		}
		if Match(name, pm.options.LanguagePattern) {
			languages = append(languages, name)
			matched = true
		}

		if !matched && strings.EqualFold(pathExt(name), pathExt(pm.options.MainPackage)) {
			pm.logger.Debug("Skipping package '%s' matching neither '%s' nor '%s'",
				name, pm.options.PatchPattern, pm.options.LanguagePattern)
		}
	}

	return patches, languages
}

// mount checks for cancellation before handing name to the primitive.
func (pm *PackageMounter) mount(ctx context.Context, name, root string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return pm.primitive.MountPackage(ctx, name, root)
}

// MountError reports the failing mount phase together with its cause.
// Kind is one of the data.Err*Package* sentinels and matches with errors.Is.
type MountError struct {
	Kind    error
	Package string
	Err     error
}

func (e *MountError) Error() string {
	if e.Package == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Package, e.Err)
}

func (e *MountError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func pathExt(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx:]
	}

	return ""
}
