package data

import (
	"errors"
	"io/fs"
	"testing"
)

func TestCleanPath(t *testing.T) {
	cases := map[string]string{
		"":                 "/",
		"/":                "/",
		"system/boot.lua":  "/system/boot.lua",
		"/gfx//menu/":      "/gfx/menu",
		"\\lang\\de.xml":   "/lang/de.xml",
		"/../../etc/x.txt": "/etc/x.txt",
	}

	for input, expected := range cases {
		if got := CleanPath(input); got != expected {
			t.Errorf("CleanPath(%q): expected %q, got %q", input, expected, got)
		}
	}
}

func TestToAbsolutePath_RejectsEmpty(t *testing.T) {
	if _, err := ToAbsolutePath("  "); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("Expected ErrInvalidPath, got %v", err)
	}

	got, err := ToAbsolutePath("sounds")
	if err != nil {
		t.Fatalf("ToAbsolutePath failed: %v", err)
	}
	if got != "/sounds" {
		t.Errorf("Expected /sounds, got %q", got)
	}
}

func TestJoinPathAndEntryName(t *testing.T) {
	if got := JoinPath("/", "system/boot.lua"); got != "/system/boot.lua" {
		t.Errorf("Expected /system/boot.lua, got %q", got)
	}
	if got := JoinPath("/game", "/data/x.png"); got != "/game/data/x.png" {
		t.Errorf("Expected /game/data/x.png, got %q", got)
	}
	if got := ToEntryName("./gfx/../fonts/a.fnt"); got != "fonts/a.fnt" {
		t.Errorf("Expected fonts/a.fnt, got %q", got)
	}
	if got := DirPrefix("/"); got != "/" {
		t.Errorf("Expected /, got %q", got)
	}
	if got := DirPrefix("/gfx/"); got != "/gfx/" {
		t.Errorf("Expected /gfx/, got %q", got)
	}
}

func TestFileMode(t *testing.T) {
	mode := FromFileMode(fs.ModeDir | 0755)
	if !mode.IsDir() {
		t.Error("Expected directory mode")
	}
	if mode.String() != "dr-xr-xr-x" {
		t.Errorf("Expected dr-xr-xr-x, got %s", mode.String())
	}

	if FromFileMode(0).Perm() != ModeReadOnly {
		t.Errorf("Expected read-only fallback, got %o", FromFileMode(0).Perm())
	}
}

func TestErrors_Aggregate(t *testing.T) {
	errs := Errors{}
	if errs.Errors() != nil {
		t.Fatal("Expected nil for empty aggregate")
	}

	errs.Add(nil)
	errs.Add(ErrNotExist)
	errs.Add(ErrReadOnly)

	if errs.Len() != 2 {
		t.Fatalf("Expected 2 errors, got %d", errs.Len())
	}

	err := errs.Errors()
	if !errors.Is(err, ErrNotExist) || !errors.Is(err, ErrReadOnly) {
		t.Errorf("Expected joined error to match both sentinels, got %v", err)
	}
}
