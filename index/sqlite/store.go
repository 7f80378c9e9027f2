package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/mwantia/packfs/data"
	"github.com/tidwall/btree"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store keeps namespace snapshots in a SQLite database.
// Paths are cached in a B-tree mapping key to entry ID.
type Store struct {
	mu sync.RWMutex
	db *sql.DB

	keys *btree.Map[string, string]
}

// New creates a SQLite backed store.
// The dbPath can be ":memory:" for an in-memory database or a file path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Every connection of an in-memory database would see its own database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, err
		}
	}

	store := &Store{
		db:   db,
		keys: btree.NewMap[string, string](0),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS packfs_mounts (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		archive TEXT NOT NULL,
		root TEXT NOT NULL,
		kind TEXT NOT NULL,
		entries INTEGER NOT NULL DEFAULT 0,
		shadowed INTEGER NOT NULL DEFAULT 0,
		mounted_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS packfs_entries (
		id TEXT PRIMARY KEY,
		key TEXT NOT NULL UNIQUE,
		mount_id TEXT NOT NULL REFERENCES packfs_mounts(id) ON DELETE CASCADE,
		archive TEXT NOT NULL,
		entry TEXT NOT NULL,
		mode INTEGER NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		compressed_size INTEGER NOT NULL DEFAULT 0,
		entry_offset INTEGER NOT NULL DEFAULT 0,
		modify_time INTEGER NOT NULL,
		content_type TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_packfs_entries_key ON packfs_entries(key);
	CREATE INDEX IF NOT EXISTS idx_packfs_entries_mount ON packfs_entries(mount_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Name returns the identifier name defined for this store
func (*Store) Name() string {
	return "sqlite"
}

// Open verifies the connection and loads all stored keys into memory.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.PingContext(ctx); err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT key, id FROM packfs_entries")
	if err != nil {
		return fmt.Errorf("failed to load keys: %w", err)
	}
	defer rows.Close()

	s.keys.Clear()
	for rows.Next() {
		var key, id string
		if err := rows.Scan(&key, &id); err != nil {
			return fmt.Errorf("failed to scan key: %w", err)
		}
		s.keys.Set(key, id)
	}

	return rows.Err()
}

// Close is part of the lifecycle behaviour and gets called when closing this store.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys.Clear()
	return s.db.Close()
}

// WriteSnapshot replaces the stored snapshot within a single transaction.
func (s *Store) WriteSnapshot(ctx context.Context, mounts []*data.MountRecord, entries []*data.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM packfs_entries"); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM packfs_mounts"); err != nil {
		return fmt.Errorf("failed to clear mounts: %w", err)
	}

	for i, mount := range mounts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO packfs_mounts (id, position, archive, root, kind, entries, shadowed, mounted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, mount.ID, i, mount.Archive, mount.Root, string(mount.Kind),
			mount.Entries, mount.Shadowed, mount.MountedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("failed to insert mount '%s': %w", mount.Archive, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO packfs_entries (id, key, mount_id, archive, entry, mode, size, compressed_size, entry_offset, modify_time, content_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	keys := btree.NewMap[string, string](0)
	for _, meta := range entries {
		_, err := stmt.ExecContext(ctx, meta.ID, meta.Key, meta.MountID, meta.Archive, meta.Entry,
			int64(meta.Mode), meta.Size, meta.CompressedSize, meta.Offset,
			meta.ModifyTime.UnixNano(), string(meta.ContentType))
		if err != nil {
			return fmt.Errorf("failed to insert entry '%s': %w", meta.Key, err)
		}
		keys.Set(meta.Key, meta.ID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	s.keys = keys
	return nil
}

func (s *Store) Resolve(ctx context.Context, key string) (*data.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key = data.CleanPath(key)
	id, exists := s.keys.Get(key)
	if !exists {
		return nil, fmt.Errorf("failed to resolve '%s': %w", key, data.ErrNotExist)
	}

	var meta data.Metadata
	var mode, modifyTime int64
	var contentType sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, key, mount_id, archive, entry, mode, size, compressed_size, entry_offset, modify_time, content_type
		FROM packfs_entries WHERE id = ?
	`, id).Scan(&meta.ID, &meta.Key, &meta.MountID, &meta.Archive, &meta.Entry,
		&mode, &meta.Size, &meta.CompressedSize, &meta.Offset, &modifyTime, &contentType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("failed to resolve '%s': %w", key, data.ErrNotExist)
		}
		return nil, err
	}

	meta.Mode = data.FileMode(mode)
	meta.ModifyTime = time.Unix(0, modifyTime)
	if contentType.Valid {
		meta.ContentType = data.ContentType(contentType.String)
	}

	return &meta, nil
}

func (s *Store) Mounts(ctx context.Context) ([]*data.MountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, archive, root, kind, entries, shadowed, mounted_at
		FROM packfs_mounts ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mounts := make([]*data.MountRecord, 0)
	for rows.Next() {
		var mount data.MountRecord
		var kind string
		var mountedAt int64
		if err := rows.Scan(&mount.ID, &mount.Archive, &mount.Root, &kind, &mount.Entries, &mount.Shadowed, &mountedAt); err != nil {
			return nil, err
		}

		mount.Kind = data.MountKind(kind)
		mount.MountedAt = time.Unix(0, mountedAt)
		mounts = append(mounts, &mount)
	}

	return mounts, rows.Err()
}
