// Package b25c reads package archives (*.b25c). A package is a zip container
// whose members are either stored, deflated or zstd compressed.
package b25c

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/mwantia/packfs/archive"
	"github.com/mwantia/packfs/data"
)

// Extension is the file extension used by package archives.
const Extension = ".b25c"

// File is the random access handle a package archive is read from.
type File interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

type Archive struct {
	mu   sync.RWMutex
	name string
	file File

	reader  *zip.Reader
	entries []*archive.Entry
	members map[string]*zip.File
}

func NewArchive(name string, file File) *Archive {
	return &Archive{
		name: name,
		file: file,
	}
}

// OpenFile creates an archive backed by the package file at path.
func OpenFile(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return NewArchive(info.Name(), &osFile{File: f, size: info.Size()}), nil
}

// Name returns the identifier name defined for this archive
func (a *Archive) Name() string {
	return a.name
}

// Open is part of the lifecycle behaviour and gets called when the archive gets mounted.
func (a *Archive) Open(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return data.ErrArchiveClosed
	}

	reader, err := zip.NewReader(a.file, a.file.Size())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", data.ErrArchiveCorrupt, a.name, err)
	}
	reader.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())

	entries := make([]*archive.Entry, 0, len(reader.File))
	members := make(map[string]*zip.File, len(reader.File))
	positions := make(map[string]int, len(reader.File))

	for _, f := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}

		name := data.ToEntryName(f.Name)
		if name == "" {
			continue
		}

		offset, err := f.DataOffset()
		if err != nil {
			return fmt.Errorf("%w: %s: %s: %v", data.ErrArchiveCorrupt, a.name, f.Name, err)
		}

		entry := &archive.Entry{
			Name:           name,
			Size:           int64(f.UncompressedSize64),
			CompressedSize: int64(f.CompressedSize64),
			Offset:         offset,
			Mode:           data.FromFileMode(f.Mode()),
			ModifyTime:     f.Modified,
		}

		// Later members with the same name replace earlier ones
		if pos, exists := positions[name]; exists {
			entries[pos] = entry
		} else {
			positions[name] = len(entries)
			entries = append(entries, entry)
		}
		members[name] = f
	}

	a.reader = reader
	a.entries = entries
	a.members = members

	return nil
}

// Close is part of the lifecycle behaviour and gets called when the archive gets unmounted.
func (a *Archive) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.reader = nil
	a.entries = nil
	a.members = nil

	if a.file == nil {
		return nil
	}

	err := a.file.Close()
	a.file = nil
	return err
}

// Entries returns all regular files contained in this archive.
func (a *Archive) Entries() []*archive.Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	entries := make([]*archive.Entry, len(a.entries))
	copy(entries, a.entries)

	return entries
}

// OpenEntry opens the entry with the given name for reading.
func (a *Archive) OpenEntry(ctx context.Context, name string) (io.ReadCloser, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.reader == nil {
		return nil, data.ErrArchiveClosed
	}

	member, exists := a.members[data.ToEntryName(name)]
	if !exists {
		return nil, data.ErrNotExist
	}

	rc, err := member.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s: %v", data.ErrArchiveCorrupt, a.name, name, err)
	}

	return rc, nil
}

type osFile struct {
	*os.File
	size int64
}

func (f *osFile) Size() int64 {
	return f.size
}
