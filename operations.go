package packfs

import (
	"context"
	"io"

	"github.com/mwantia/packfs/data"
)

// StatMetadata returns the metadata for the given path.
func (fs *fileSystemImpl) StatMetadata(ctx context.Context, path string) (*data.Metadata, error) {
	return fs.namespace.Stat(ctx, path)
}

// LookupMetadata checks if a file or directory exists at the given path.
func (fs *fileSystemImpl) LookupMetadata(ctx context.Context, path string) (bool, error) {
	return fs.namespace.Lookup(ctx, path)
}

// ReadDirectory returns a list of entries in the directory at path.
func (fs *fileSystemImpl) ReadDirectory(ctx context.Context, path string) ([]*data.Metadata, error) {
	return fs.namespace.ReadDirectory(ctx, path)
}

// OpenFile opens the file at path for reading.
func (fs *fileSystemImpl) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	return fs.namespace.Open(ctx, path)
}

// ReadFile reads size bytes from the file at path starting at offset.
func (fs *fileSystemImpl) ReadFile(ctx context.Context, path string, offset, size int64) ([]byte, error) {
	return fs.namespace.Read(ctx, path, offset, size)
}

// Which returns the mount record of the archive serving path.
func (fs *fileSystemImpl) Which(ctx context.Context, path string) (*data.MountRecord, error) {
	return fs.namespace.Which(ctx, path)
}

// Mounts returns all mounted archives in mount order.
func (fs *fileSystemImpl) Mounts() []*data.MountRecord {
	return fs.namespace.Mounts()
}
