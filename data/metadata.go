package data

import (
	"encoding/json"
	"path"
	"time"

	"github.com/google/uuid"
)

// Metadata describes a single logical path of the namespace and the archive
// entry currently serving it.
type Metadata struct {
	ID  string `json:"id"`
	Key string `json:"key"`

	Mode FileMode `json:"mode"`
	Size int64    `json:"size"`

	// Location of the entry inside its archive
	Entry          string `json:"entry,omitempty"`
	Offset         int64  `json:"offset,omitempty"`
	CompressedSize int64  `json:"compressed_size,omitempty"`

	// Serving archive
	Archive string `json:"archive,omitempty"`
	MountID string `json:"mount_id,omitempty"`

	ModifyTime  time.Time   `json:"modify_time"`
	ContentType ContentType `json:"content_type"`
}

// NewFileMetadata creates metadata for a regular, read-only file.
func NewFileMetadata(key string, size int64, mode FileMode) *Metadata {
	if mode.Perm() == 0 {
		mode |= ModeReadOnly
	}

	return &Metadata{
		ID:          genMetadataID(),
		Key:         CleanPath(key),
		Mode:        mode &^ ModeDir,
		Size:        size,
		ModifyTime:  time.Now(),
		ContentType: GetMIMEType(key),
	}
}

// NewDirectoryMetadata creates metadata for an implicit directory.
// Directories are derived from the mapped paths and therefore carry no archive.
func NewDirectoryMetadata(key string) *Metadata {
	return &Metadata{
		ID:   genMetadataID(),
		Key:  CleanPath(key),
		Mode: ModeDir | 0555,
	}
}

// Name returns the last element of the metadata key.
func (m *Metadata) Name() string {
	return path.Base(m.Key)
}

// IsDir returns true if this metadata describes a directory.
func (m *Metadata) IsDir() bool {
	return m.Mode.IsDir()
}

// Clone returns a copy that can be handed out without exposing the namespace state.
func (m *Metadata) Clone() *Metadata {
	clone := *m
	return &clone
}

// Marshal provides JSON serialization for Metadata.
func (m *Metadata) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func genMetadataID() string {
	return uuid.Must(uuid.NewV7()).String()
}
