// Package index exports the built namespace into a database so that tooling
// can resolve which archive serves a path without mounting any package.
package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwantia/packfs/data"
	"github.com/mwantia/packfs/index/postgres"
	"github.com/mwantia/packfs/index/sqlite"
)

// Store persists namespace snapshots.
type Store interface {
	// Name returns the identifier name defined for this store.
	Name() string

	// Open is part of the lifecycle behaviour and gets called before the first snapshot.
	Open(ctx context.Context) error
	// Close is part of the lifecycle behaviour and releases all connections.
	Close(ctx context.Context) error

	// WriteSnapshot replaces the stored snapshot with mounts and entries.
	WriteSnapshot(ctx context.Context, mounts []*data.MountRecord, entries []*data.Metadata) error

	// Resolve returns the stored metadata for the path key.
	Resolve(ctx context.Context, key string) (*data.Metadata, error)

	// Mounts returns the stored mount records in mount order.
	Mounts(ctx context.Context) ([]*data.MountRecord, error)
}

// Open creates the store described by address.
//
//	sqlite://<path>           file database, sqlite://:memory: for tests
//	postgres://<dsn>          also postgresql://
func Open(address string) (Store, error) {
	address = strings.TrimSpace(address)

	switch {
	case strings.HasPrefix(address, "sqlite://"):
		path := strings.TrimPrefix(address, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("failed to parse index address '%s': %w", address, data.ErrInvalidPath)
		}
		return sqlite.New(path)
	case strings.HasPrefix(address, "postgres://"), strings.HasPrefix(address, "postgresql://"):
		return postgres.New(address)
	}

	return nil, fmt.Errorf("failed to parse index address '%s': unknown protocol", address)
}
