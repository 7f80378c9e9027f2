// Package namespace maps logical paths onto the entries of mounted archives.
//
// Archives are mounted one after another; an entry of a later archive
// replaces the mapping of an earlier archive for the same path only.
// Directories are implicit and exist as long as any mapped path lies below them.
package namespace

import (
	"context"
	"fmt"
	"sync"

	"github.com/mwantia/packfs/archive"
	"github.com/mwantia/packfs/data"
	"github.com/mwantia/packfs/log"
	"github.com/tidwall/btree"
)

type Namespace struct {
	mu     sync.RWMutex
	logger *log.Logger

	sealed bool
	closed bool

	nodes  *btree.Map[string, *node]
	mounts []*mounted
}

// mounted keeps the archive owned by the namespace together with its record.
type mounted struct {
	archive archive.Archive
	record  *data.MountRecord
}

// node is the current mapping of a single logical path.
type node struct {
	meta  *data.Metadata
	entry string
	mount *mounted
}

func New(logger *log.Logger) *Namespace {
	if logger == nil {
		logger = log.Discard()
	}

	return &Namespace{
		logger: logger,
		nodes:  btree.NewMap[string, *node](0),
	}
}

// Mount opens arc and maps all of its entries below root.
// The namespace takes ownership of arc and closes it when mounting fails.
func (ns *Namespace) Mount(ctx context.Context, arc archive.Archive, root string, kind data.MountKind) (*data.MountRecord, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if ns.sealed || ns.closed {
		arc.Close(ctx)
		return nil, fmt.Errorf("failed to mount '%s': %w", arc.Name(), data.ErrReadOnly)
	}

	if err := ctx.Err(); err != nil {
		arc.Close(ctx)
		return nil, err
	}

	root = data.CleanPath(root)
	for _, m := range ns.mounts {
		if m.record.Archive == arc.Name() && m.record.Root == root {
			arc.Close(ctx)
			return nil, fmt.Errorf("%w: %s at %s", data.ErrAlreadyMounted, arc.Name(), root)
		}
	}

	if err := arc.Open(ctx); err != nil {
		arc.Close(ctx)
		return nil, fmt.Errorf("failed to open archive '%s': %w", arc.Name(), err)
	}

	m := &mounted{
		archive: arc,
		record:  data.NewMountRecord(arc.Name(), root, kind),
	}

	for _, entry := range arc.Entries() {
		meta := data.NewFileMetadata(data.JoinPath(root, entry.Name), entry.Size, entry.Mode)
		meta.Entry = entry.Name
		meta.Offset = entry.Offset
		meta.CompressedSize = entry.CompressedSize
		meta.Archive = m.record.Archive
		meta.MountID = m.record.ID
		if !entry.ModifyTime.IsZero() {
			meta.ModifyTime = entry.ModifyTime
		}

		prev, replaced := ns.nodes.Set(meta.Key, &node{
			meta:  meta,
			entry: entry.Name,
			mount: m,
		})
		if replaced {
			m.record.Shadowed++
			ns.logger.Debug("'%s' now served by '%s' instead of '%s'", meta.Key, m.record.Archive, prev.mount.record.Archive)
		}
		m.record.Entries++
	}

	ns.mounts = append(ns.mounts, m)
	ns.logger.Debug("Mounted %s package '%s' at '%s' (%d entries, %d shadowed)",
		kind, m.record.Archive, root, m.record.Entries, m.record.Shadowed)

	return m.record.Clone(), nil
}

// Seal ends the mount phase. Every following Mount fails with data.ErrReadOnly.
func (ns *Namespace) Seal() {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	ns.sealed = true
}

func (ns *Namespace) IsSealed() bool {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	return ns.sealed
}

// Mounts returns the records of all mounted archives in mount order.
func (ns *Namespace) Mounts() []*data.MountRecord {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	records := make([]*data.MountRecord, 0, len(ns.mounts))
	for _, m := range ns.mounts {
		records = append(records, m.record.Clone())
	}

	return records
}

// Entries returns the metadata of every mapped file ordered by path.
func (ns *Namespace) Entries() []*data.Metadata {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	entries := make([]*data.Metadata, 0, ns.nodes.Len())
	ns.nodes.Scan(func(_ string, n *node) bool {
		entries = append(entries, n.meta.Clone())
		return true
	})

	return entries
}

// Shutdown closes all archives, newest first, and clears the namespace.
func (ns *Namespace) Shutdown(ctx context.Context) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	errs := &data.Errors{}
	for i := len(ns.mounts) - 1; i >= 0; i-- {
		m := ns.mounts[i]
		if err := m.archive.Close(ctx); err != nil {
			errs.Add(fmt.Errorf("failed to close archive '%s': %w", m.record.Archive, err))
			continue
		}

		ns.logger.Debug("Unmounted package '%s'", m.record.Archive)
	}

	ns.nodes.Clear()
	ns.mounts = nil
	ns.closed = true

	return errs.Errors()
}
