package data

import (
	"time"

	"github.com/google/uuid"
)

// MountKind classifies a mounted archive by the role it plays in the overlay.
type MountKind string

const (
	MountKindMain      MountKind = "main"
	MountKindPatch     MountKind = "patch"
	MountKindLanguage  MountKind = "language"
	MountKindDirectory MountKind = "directory"
	MountKindCustom    MountKind = "custom"
)

// MountRecord describes one archive mounted into the namespace.
type MountRecord struct {
	ID      string    `json:"id"`
	Archive string    `json:"archive"`
	Root    string    `json:"root"`
	Kind    MountKind `json:"kind"`

	// Number of entries mapped by this archive
	Entries int `json:"entries"`
	// Number of entries that replaced a mapping of an earlier archive
	Shadowed int `json:"shadowed"`

	MountedAt time.Time `json:"mounted_at"`
}

func NewMountRecord(archive, root string, kind MountKind) *MountRecord {
	return &MountRecord{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Archive:   archive,
		Root:      CleanPath(root),
		Kind:      kind,
		MountedAt: time.Now(),
	}
}

// Clone returns a copy of the record.
func (mr *MountRecord) Clone() *MountRecord {
	clone := *mr
	return &clone
}
