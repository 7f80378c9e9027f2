package builtin

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"path"
	"strings"
	"testing"

	"github.com/mwantia/packfs/cmd"
	"github.com/mwantia/packfs/data"
	"github.com/zeebo/blake3"
)

// fakeAPI serves a fixed set of files from two archives.
type fakeAPI struct {
	files  map[string]string
	owners map[string]*data.MountRecord
	mounts []*data.MountRecord
}

func newFakeAPI() *fakeAPI {
	main := data.NewMountRecord("data.b25c", "/", data.MountKindMain)
	main.Entries = 2
	lang := data.NewMountRecord("lang_de.b25c", "/", data.MountKindLanguage)
	lang.Entries = 1
	lang.Shadowed = 1

	return &fakeAPI{
		files: map[string]string{
			"/system/boot.lua":  "print('boot')",
			"/text/strings.xml": "<strings lang=\"de\"/>",
		},
		owners: map[string]*data.MountRecord{
			"/system/boot.lua":  main,
			"/text/strings.xml": lang,
		},
		mounts: []*data.MountRecord{main, lang},
	}
}

func (f *fakeAPI) StatMetadata(ctx context.Context, p string) (*data.Metadata, error) {
	p = data.CleanPath(p)
	if content, exists := f.files[p]; exists {
		meta := data.NewFileMetadata(p, int64(len(content)), data.ModeReadOnly)
		meta.Archive = f.owners[p].Archive
		meta.Entry = strings.TrimPrefix(p, "/")
		return meta, nil
	}
	for key := range f.files {
		if strings.HasPrefix(key, data.DirPrefix(p)) {
			return data.NewDirectoryMetadata(p), nil
		}
	}
	return nil, data.ErrNotExist
}

func (f *fakeAPI) LookupMetadata(ctx context.Context, p string) (bool, error) {
	_, err := f.StatMetadata(ctx, p)
	return err == nil, nil
}

func (f *fakeAPI) ReadDirectory(ctx context.Context, p string) ([]*data.Metadata, error) {
	prefix := data.DirPrefix(p)
	seen := make(map[string]bool)
	children := make([]*data.Metadata, 0)
	for key := range f.files {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			if !seen[rest[:idx]] {
				seen[rest[:idx]] = true
				children = append(children, data.NewDirectoryMetadata(path.Join(prefix, rest[:idx])))
			}
			continue
		}
		meta, _ := f.StatMetadata(ctx, key)
		children = append(children, meta)
	}
	return children, nil
}

func (f *fakeAPI) OpenFile(ctx context.Context, p string) (io.ReadCloser, error) {
	content, exists := f.files[data.CleanPath(p)]
	if !exists {
		return nil, data.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (f *fakeAPI) ReadFile(ctx context.Context, p string, offset, size int64) ([]byte, error) {
	content, exists := f.files[data.CleanPath(p)]
	if !exists {
		return nil, data.ErrNotExist
	}
	if offset > int64(len(content)) {
		return []byte{}, nil
	}
	end := int64(len(content))
	if size >= 0 && offset+size < end {
		end = offset + size
	}
	return []byte(content[offset:end]), nil
}

func (f *fakeAPI) Which(ctx context.Context, p string) (*data.MountRecord, error) {
	owner, exists := f.owners[data.CleanPath(p)]
	if !exists {
		return nil, data.ErrNotExist
	}
	return owner, nil
}

func (f *fakeAPI) Mounts() []*data.MountRecord {
	return f.mounts
}

func execute(tst *testing.T, args ...string) (string, int, error) {
	tst.Helper()

	m := cmd.NewManager(newFakeAPI())
	if err := Register(m); err != nil {
		tst.Fatalf("Register failed: %v", err)
	}

	buf := &bytes.Buffer{}
	code, err := m.Execute(tst.Context(), buf, args...)
	return buf.String(), code, err
}

func TestLs(t *testing.T) {
	out, code, err := execute(t, "ls")
	if err != nil || code != 0 {
		t.Fatalf("ls failed: %d %v", code, err)
	}
	if out != "system/\ntext/\n" {
		t.Errorf("Unexpected output: %q", out)
	}

	out, code, err = execute(t, "ls", "-l", "/text")
	if err != nil || code != 0 {
		t.Fatalf("ls -l failed: %d %v", code, err)
	}
	if !strings.HasPrefix(out, "-r--r--r--") || !strings.Contains(out, "lang_de.b25c") || !strings.HasSuffix(out, "strings.xml\n") {
		t.Errorf("Unexpected output: %q", out)
	}

	if _, code, err := execute(t, "ls", "/missing"); err == nil || code != 1 {
		t.Errorf("Expected error for missing path, got %d %v", code, err)
	}
}

func TestCat(t *testing.T) {
	out, code, err := execute(t, "cat", "/system/boot.lua")
	if err != nil || code != 0 {
		t.Fatalf("cat failed: %d %v", code, err)
	}
	if out != "print('boot')" {
		t.Errorf("Unexpected output: %q", out)
	}

	out, _, err = execute(t, "cat", "-o", "6", "-n", "6", "/system/boot.lua")
	if err != nil {
		t.Fatalf("cat range failed: %v", err)
	}
	if out != "'boot'" {
		t.Errorf("Unexpected output: %q", out)
	}

	if _, code, _ := execute(t, "cat"); code != 2 {
		t.Errorf("Expected usage exit code 2, got %d", code)
	}
}

func TestStat(t *testing.T) {
	out, code, err := execute(t, "stat", "/text/strings.xml")
	if err != nil || code != 0 {
		t.Fatalf("stat failed: %d %v", code, err)
	}
	for _, expected := range []string{"File: /text/strings.xml", "regular file", "Source: lang_de.b25c", "text/xml"} {
		if !strings.Contains(out, expected) {
			t.Errorf("Expected %q in output: %q", expected, out)
		}
	}

	out, _, err = execute(t, "stat", "--json", "/system")
	if err != nil {
		t.Fatalf("stat --json failed: %v", err)
	}
	if !strings.Contains(out, `"key":"/system"`) {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestWhich(t *testing.T) {
	out, code, err := execute(t, "which", "/text/strings.xml", "/missing.lua")
	if err != nil {
		t.Fatalf("which failed: %v", err)
	}
	if code != 1 {
		t.Errorf("Expected exit code 1 for missing path, got %d", code)
	}
	if !strings.Contains(out, "/text/strings.xml: lang_de.b25c (language)") {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestMounts(t *testing.T) {
	out, code, err := execute(t, "mounts")
	if err != nil || code != 0 {
		t.Fatalf("mounts failed: %d %v", code, err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "data.b25c") || !strings.Contains(lines[1], "lang_de.b25c") {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestSum(t *testing.T) {
	out, code, err := execute(t, "sum", "/system/boot.lua")
	if err != nil || code != 0 {
		t.Fatalf("sum failed: %d %v", code, err)
	}

	digest := blake3.Sum256([]byte("print('boot')"))
	expected := hex.EncodeToString(digest[:]) + "  /system/boot.lua\n"
	if out != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}
