package mounter

import (
	"context"
	"errors"
	"testing"

	"github.com/mwantia/packfs/data"
	"github.com/mwantia/packfs/source"
)

// recorder is a Primitive and Lister that records every call in order.
type recorder struct {
	entries []*source.Entry
	listErr error
	failing map[string]error

	calls  []string
	listed bool
}

func newRecorder(names ...string) *recorder {
	entries := make([]*source.Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, &source.Entry{Name: name})
	}

	return &recorder{
		entries: entries,
		failing: make(map[string]error),
	}
}

func (r *recorder) MountPackage(ctx context.Context, name, root string) error {
	r.calls = append(r.calls, name)
	return r.failing[name]
}

func (r *recorder) List(ctx context.Context) ([]*source.Entry, error) {
	r.listed = true
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.entries, nil
}

func expectCalls(tst *testing.T, r *recorder, expected ...string) {
	tst.Helper()

	if len(r.calls) != len(expected) {
		tst.Fatalf("Expected calls %v, got %v", expected, r.calls)
	}
	for i := range expected {
		if r.calls[i] != expected[i] {
			tst.Errorf("Expected call %d to be '%s', got '%s'", i, expected[i], r.calls[i])
		}
	}
}

func load(tst *testing.T, r *recorder, opts ...MounterOption) error {
	tst.Helper()

	pm, err := New(r, r, opts...)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	return pm.LoadPackages(tst.Context(), "/")
}

func TestLoadPackages_MainOnly(t *testing.T) {
	r := newRecorder("data.b25c")
	if err := load(t, r); err != nil {
		t.Fatalf("LoadPackages failed: %v", err)
	}

	expectCalls(t, r, "data.b25c")
}

func TestLoadPackages_EmptyDirectory(t *testing.T) {
	r := newRecorder()
	if err := load(t, r); err != nil {
		t.Fatalf("LoadPackages failed: %v", err)
	}

	expectCalls(t, r, "data.b25c")
}

func TestLoadPackages_Order(t *testing.T) {
	r := newRecorder(
		"lang_en.b25c",
		"patch010.b25c",
		"readme.txt",
		"patch003.b25c",
		"data.b25c",
		"lang_de.b25c",
		"patch001.b25c",
	)
	if err := load(t, r); err != nil {
		t.Fatalf("LoadPackages failed: %v", err)
	}

	expectCalls(t, r,
		"data.b25c",
		"patch001.b25c", "patch003.b25c", "patch010.b25c",
		"lang_de.b25c", "lang_en.b25c",
	)
}

func TestLoadPackages_SkipsNonMatching(t *testing.T) {
	r := newRecorder(
		"data.b25c",
		"patch1.b25c",
		"patchfix.b25c",
		"patch0001.b25c",
		"patch002.b25c",
		"lang-de.b25c",
		"music.b25c",
	)
	r.entries = append(r.entries, &source.Entry{Name: "patch005.b25c", IsDir: true})
	r.entries = append(r.entries, &source.Entry{Name: "lang_fr.b25c", IsDir: true})

	if err := load(t, r); err != nil {
		t.Fatalf("LoadPackages failed: %v", err)
	}

	expectCalls(t, r, "data.b25c", "patch002.b25c")
}

func TestLoadPackages_CaseInsensitive(t *testing.T) {
	r := newRecorder("data.b25c", "PATCH002.B25C", "patch001.b25c", "Lang_DE.b25c")
	if err := load(t, r); err != nil {
		t.Fatalf("LoadPackages failed: %v", err)
	}

	// Byte order places upper case names first
	expectCalls(t, r, "data.b25c", "PATCH002.B25C", "patch001.b25c", "Lang_DE.b25c")
}

func TestLoadPackages_MissingMainPackage(t *testing.T) {
	r := newRecorder("data.b25c", "patch001.b25c", "lang_de.b25c")
	r.failing["data.b25c"] = data.ErrNotExist

	err := load(t, r)
	if !errors.Is(err, data.ErrMissingMainPackage) {
		t.Fatalf("Expected ErrMissingMainPackage, got %v", err)
	}
	if !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected cause ErrNotExist, got %v", err)
	}

	var mountErr *MountError
	if !errors.As(err, &mountErr) || mountErr.Package != "data.b25c" {
		t.Errorf("Expected MountError for 'data.b25c', got %v", err)
	}

	if r.listed {
		t.Error("Expected directory not to be listed")
	}
	expectCalls(t, r, "data.b25c")
}

func TestLoadPackages_DirectoryUnreadable(t *testing.T) {
	r := newRecorder()
	r.listErr = data.ErrNotDirectory

	err := load(t, r)
	if !errors.Is(err, data.ErrDirectoryUnreadable) {
		t.Fatalf("Expected ErrDirectoryUnreadable, got %v", err)
	}
	if !errors.Is(err, data.ErrNotDirectory) {
		t.Errorf("Expected cause ErrNotDirectory, got %v", err)
	}

	expectCalls(t, r, "data.b25c")
}

func TestLoadPackages_PatchMountFailed(t *testing.T) {
	r := newRecorder("data.b25c", "patch001.b25c", "patch002.b25c", "patch003.b25c", "lang_de.b25c")
	r.failing["patch002.b25c"] = data.ErrArchiveCorrupt

	err := load(t, r)
	if !errors.Is(err, data.ErrPatchMountFailed) {
		t.Fatalf("Expected ErrPatchMountFailed, got %v", err)
	}
	if errors.Is(err, data.ErrLanguageMountFailed) {
		t.Errorf("Expected no language failure, got %v", err)
	}

	// Earlier mounts are kept, later ones are never attempted
	expectCalls(t, r, "data.b25c", "patch001.b25c", "patch002.b25c")
}

func TestLoadPackages_LanguageMountFailed(t *testing.T) {
	r := newRecorder("data.b25c", "patch001.b25c", "lang_de.b25c", "lang_en.b25c")
	r.failing["lang_de.b25c"] = data.ErrArchiveCorrupt

	err := load(t, r)
	if !errors.Is(err, data.ErrLanguageMountFailed) {
		t.Fatalf("Expected ErrLanguageMountFailed, got %v", err)
	}

	expectCalls(t, r, "data.b25c", "patch001.b25c", "lang_de.b25c")
}

func TestLoadPackages_Cancelled(t *testing.T) {
	r := newRecorder("data.b25c", "patch001.b25c")

	pm, err := New(r, r)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err = pm.LoadPackages(ctx, "/")
	if !errors.Is(err, context.Canceled) || !errors.Is(err, data.ErrPatchMountFailed) {
		t.Fatalf("Expected cancelled patch phase, got %v", err)
	}
	expectCalls(t, r, "data.b25c")
}

func TestLoadPackages_Options(t *testing.T) {
	r := newRecorder("game.b25c", "update01.b25c", "update1.b25c", "locale_de.b25c")

	err := load(t, r,
		WithMainPackage("game.b25c"),
		WithPatchPattern("update##.b25c"),
		WithLanguagePattern("locale_*.b25c"),
	)
	if err != nil {
		t.Fatalf("LoadPackages failed: %v", err)
	}

	expectCalls(t, r, "game.b25c", "update01.b25c", "locale_de.b25c")

	if _, err := New(r, r, WithMainPackage("../data.b25c")); err == nil {
		t.Error("Expected error for main package with separator")
	}
}
