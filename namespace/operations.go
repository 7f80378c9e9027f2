package namespace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mwantia/packfs/data"
)

// Stat returns the metadata for path. Implicit directories are reported
// with directory metadata that carries no archive.
func (ns *Namespace) Stat(ctx context.Context, path string) (*data.Metadata, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	key := data.CleanPath(path)
	if n, exists := ns.nodes.Get(key); exists {
		return n.meta.Clone(), nil
	}

	if ns.isDirectory(key) {
		return data.NewDirectoryMetadata(key), nil
	}

	return nil, fmt.Errorf("failed to stat '%s': %w", key, data.ErrNotExist)
}

// Lookup checks if a file or directory exists at the given path.
func (ns *Namespace) Lookup(ctx context.Context, path string) (bool, error) {
	_, err := ns.Stat(ctx, path)
	if err != nil {
		if errors.Is(err, data.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// ReadDirectory returns the direct children of the directory at path.
func (ns *Namespace) ReadDirectory(ctx context.Context, path string) ([]*data.Metadata, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	key := data.CleanPath(path)
	if _, exists := ns.nodes.Get(key); exists {
		return nil, fmt.Errorf("failed to read '%s': %w", key, data.ErrNotDirectory)
	}
	if !ns.isDirectory(key) {
		return nil, fmt.Errorf("failed to read '%s': %w", key, data.ErrNotExist)
	}

	prefix := data.DirPrefix(key)
	seen := make(map[string]struct{})
	children := make([]*data.Metadata, 0)

	ns.nodes.Ascend(prefix, func(k string, n *node) bool {
		if !strings.HasPrefix(k, prefix) {
			return false
		}

		rest := k[len(prefix):]
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			name := rest[:idx]
			if _, exists := seen[name]; !exists {
				seen[name] = struct{}{}
				children = append(children, data.NewDirectoryMetadata(prefix+name))
			}
			return true
		}

		if _, exists := seen[rest]; !exists {
			seen[rest] = struct{}{}
			children = append(children, n.meta.Clone())
		}
		return true
	})

	return children, nil
}

// Open opens the file at path for reading.
// The returned ReadCloser must be closed by the caller.
func (ns *Namespace) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	key := data.CleanPath(path)
	n, exists := ns.nodes.Get(key)
	if !exists {
		if ns.isDirectory(key) {
			return nil, fmt.Errorf("failed to open '%s': %w", key, data.ErrIsDirectory)
		}
		return nil, fmt.Errorf("failed to open '%s': %w", key, data.ErrNotExist)
	}

	rc, err := n.mount.archive.OpenEntry(ctx, n.entry)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s' from '%s': %w", key, n.mount.record.Archive, err)
	}

	return rc, nil
}

// Read reads size bytes from the file at path starting at offset.
// A negative size reads until the end of the file.
func (ns *Namespace) Read(ctx context.Context, path string, offset, size int64) ([]byte, error) {
	if offset < 0 {
		return nil, fmt.Errorf("failed to read '%s': %w", path, data.ErrInvalid)
	}

	rc, err := ns.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// Compressed entries cannot seek, so skipped bytes are discarded
	if offset > 0 {
		if _, err := io.CopyN(io.Discard, rc, offset); err != nil {
			if err == io.EOF {
				return []byte{}, nil
			}
			return nil, fmt.Errorf("failed to read '%s': %w", path, err)
		}
	}

	if size < 0 {
		return io.ReadAll(rc)
	}

	// The buffer grows with the entry, never with the requested size
	content, err := io.ReadAll(io.LimitReader(rc, size))
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", path, err)
	}

	return content, nil
}

// Which returns the record of the archive currently serving path.
func (ns *Namespace) Which(ctx context.Context, path string) (*data.MountRecord, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	key := data.CleanPath(path)
	n, exists := ns.nodes.Get(key)
	if !exists {
		if ns.isDirectory(key) {
			return nil, fmt.Errorf("failed to resolve '%s': %w", key, data.ErrIsDirectory)
		}
		return nil, fmt.Errorf("failed to resolve '%s': %w", key, data.ErrNotExist)
	}

	return n.mount.record.Clone(), nil
}

// isDirectory reports whether any mapped path lies below key.
// The root always exists. Must be called with lock held.
func (ns *Namespace) isDirectory(key string) bool {
	if key == "/" {
		return true
	}

	prefix := data.DirPrefix(key)
	found := false
	ns.nodes.Ascend(prefix, func(k string, _ *node) bool {
		found = strings.HasPrefix(k, prefix)
		return false
	})

	return found
}
