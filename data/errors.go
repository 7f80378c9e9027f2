package data

import (
	"errors"
	"io/fs"
	"sync"
)

// Standard errors shared by archives, sources and the namespace.
var (
	// Path resolution errors
	ErrInvalidPath    = errors.New("packfs: invalid path detected")
	ErrNotMounted     = errors.New("packfs: path not mounted")
	ErrAlreadyMounted = errors.New("packfs: archive already mounted")

	// Package mount errors
	ErrMissingMainPackage  = errors.New("packfs: main package could not be mounted")
	ErrDirectoryUnreadable = errors.New("packfs: package directory unreadable")
	ErrPatchMountFailed    = errors.New("packfs: patch package mount failed")
	ErrLanguageMountFailed = errors.New("packfs: language package mount failed")

	// Archive lifecycle errors
	ErrArchiveClosed  = errors.New("packfs: archive is not open")
	ErrArchiveCorrupt = errors.New("packfs: archive is corrupt")
	ErrMountFailed    = errors.New("packfs: mount initialization failed")

	// File operation errors
	ErrNotExist     = errors.New("packfs: file does not exist")
	ErrIsDirectory  = errors.New("packfs: is a directory")
	ErrNotDirectory = errors.New("packfs: not a directory")
	ErrPermission   = errors.New("packfs: permission denied")
	ErrReadOnly     = errors.New("packfs: read-only filesystem")

	// I/O errors
	ErrInvalid = errors.New("packfs: invalid argument")
)

// Errors collects multiple errors, e.g. while tearing down several archives.
type Errors struct {
	mu     sync.RWMutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.errors)
}

func (e *Errors) Errors() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.errors) == 0 {
		return nil
	}

	return errors.Join(e.errors...)
}

// FromOSError maps io/fs errors onto the matching packfs errors.
// Errors without a counterpart are returned unchanged.
func FromOSError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotExist
	case errors.Is(err, fs.ErrPermission):
		return ErrPermission
	case errors.Is(err, fs.ErrInvalid):
		return ErrInvalid
	}

	return err
}
