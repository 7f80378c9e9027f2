package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/mwantia/packfs/data"
)

func snapshot() ([]*data.MountRecord, []*data.Metadata) {
	main := data.NewMountRecord("data.b25c", "/", data.MountKindMain)
	main.Entries = 2
	lang := data.NewMountRecord("lang_de.b25c", "/", data.MountKindLanguage)
	lang.Entries = 1
	lang.Shadowed = 1

	boot := data.NewFileMetadata("/system/boot.lua", 13, data.ModeReadOnly)
	boot.Archive, boot.MountID, boot.Entry = main.Archive, main.ID, "system/boot.lua"
	boot.Offset, boot.CompressedSize = 42, 11

	strings := data.NewFileMetadata("/text/strings.xml", 10, data.ModeReadOnly)
	strings.Archive, strings.MountID, strings.Entry = lang.Archive, lang.ID, "text/strings.xml"

	return []*data.MountRecord{main, lang}, []*data.Metadata{boot, strings}
}

func TestStore(t *testing.T) {
	factories := map[string]func(tst *testing.T) string{
		"memory": func(tst *testing.T) string {
			return ":memory:"
		},
		"file": func(tst *testing.T) string {
			return filepath.Join(tst.TempDir(), "index.db")
		},
	}

	for name, factory := range factories {
		t.Run(name, func(tst *testing.T) {
			store, err := New(factory(tst))
			if err != nil {
				tst.Fatalf("New failed: %v", err)
			}
			defer store.Close(tst.Context())

			if err := store.Open(tst.Context()); err != nil {
				tst.Fatalf("Open failed: %v", err)
			}

			mounts, entries := snapshot()
			if err := store.WriteSnapshot(tst.Context(), mounts, entries); err != nil {
				tst.Fatalf("WriteSnapshot failed: %v", err)
			}

			meta, err := store.Resolve(tst.Context(), "system/boot.lua")
			if err != nil {
				tst.Fatalf("Resolve failed: %v", err)
			}
			if meta.Archive != "data.b25c" || meta.Size != 13 || meta.Offset != 42 || meta.CompressedSize != 11 {
				tst.Errorf("Unexpected metadata: %+v", meta)
			}
			if meta.ContentType != data.ContentTypeTextLua {
				tst.Errorf("Expected content type '%s', got '%s'", data.ContentTypeTextLua, meta.ContentType)
			}
			if meta.Mode != data.ModeReadOnly {
				tst.Errorf("Expected mode %s, got %s", data.ModeReadOnly, meta.Mode)
			}

			if _, err := store.Resolve(tst.Context(), "/missing.lua"); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist, got %v", err)
			}

			stored, err := store.Mounts(tst.Context())
			if err != nil {
				tst.Fatalf("Mounts failed: %v", err)
			}
			if len(stored) != 2 || stored[0].Archive != "data.b25c" || stored[1].Archive != "lang_de.b25c" {
				tst.Fatalf("Unexpected mounts: %v", stored)
			}
			if stored[1].Kind != data.MountKindLanguage || stored[1].Shadowed != 1 {
				tst.Errorf("Unexpected language mount: %+v", stored[1])
			}

			// A second snapshot replaces the first one
			if err := store.WriteSnapshot(tst.Context(), mounts[:1], entries[:1]); err != nil {
				tst.Fatalf("WriteSnapshot failed: %v", err)
			}
			if _, err := store.Resolve(tst.Context(), "/text/strings.xml"); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist after replace, got %v", err)
			}
		})
	}
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	store, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := store.Open(t.Context()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	mounts, entries := snapshot()
	if err := store.WriteSnapshot(t.Context(), mounts, entries); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	if err := store.Close(t.Context()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Keys are loaded from the database on Open
	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer reopened.Close(t.Context())

	if err := reopened.Open(t.Context()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	meta, err := reopened.Resolve(t.Context(), "/text/strings.xml")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if meta.Archive != "lang_de.b25c" {
		t.Errorf("Expected 'lang_de.b25c', got '%s'", meta.Archive)
	}
}
