package packfs

import "github.com/mwantia/packfs/data"

// Errors returned by the filesystem. They are aliases of the sentinels in
// package data so callers only need to import this package.
var (
	ErrNotExist     = data.ErrNotExist
	ErrIsDirectory  = data.ErrIsDirectory
	ErrNotDirectory = data.ErrNotDirectory
	ErrReadOnly     = data.ErrReadOnly
	ErrInvalid      = data.ErrInvalid

	ErrMissingMainPackage  = data.ErrMissingMainPackage
	ErrDirectoryUnreadable = data.ErrDirectoryUnreadable
	ErrPatchMountFailed    = data.ErrPatchMountFailed
	ErrLanguageMountFailed = data.ErrLanguageMountFailed
)
