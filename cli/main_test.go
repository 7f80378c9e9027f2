package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwantia/packfs/archive/b25c"
)

func setupGame(tst *testing.T) string {
	tst.Helper()
	tst.Setenv("PACKFS_CONFIG", "")

	dir := tst.TempDir()
	packages := map[string]map[string][]byte{
		"data.b25c": {
			"system/boot.lua": []byte("print('main')\n"),
			"gfx/logo.png":    []byte("PNG"),
		},
		"patch001.b25c": {
			"system/boot.lua": []byte("print('patch')\nstart()\n"),
		},
	}

	for name, files := range packages {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			tst.Fatalf("Create failed: %v", err)
		}
		if err := b25c.Write(f, files, b25c.MethodDeflate); err != nil {
			f.Close()
			tst.Fatalf("Write failed: %v", err)
		}
		f.Close()
	}

	return dir
}

func runCommand(tst *testing.T, args ...string) (string, error) {
	tst.Helper()

	root := newRootCommand("1.2.3")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(tst.Context())
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "1.2.3\n" {
		t.Errorf("Expected '1.2.3', got '%s'", out)
	}
}

func TestRun(t *testing.T) {
	dir := setupGame(t)

	out, err := runCommand(t, "--path", dir, "--log-level", "error", "run")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "/system/boot.lua: 23 bytes, 2 lines\n" {
		t.Errorf("Unexpected run output '%s'", out)
	}
}

func TestExec(t *testing.T) {
	dir := setupGame(t)

	tests := map[string]struct {
		Args     []string
		Expected string
	}{
		"cat": {
			Args:     []string{"cat", "/system/boot.lua"},
			Expected: "print('patch')\nstart()\n",
		},
		"ls": {
			Args:     []string{"ls", "/"},
			Expected: "gfx/\nsystem/\n",
		},
		"which": {
			Args:     []string{"which", "/gfx/logo.png"},
			Expected: "/gfx/logo.png: data.b25c (main)\n",
		},
	}

	for name, test := range tests {
		t.Run(name, func(tst *testing.T) {
			args := append([]string{"--path", dir, "--log-level", "error", "exec"}, test.Args...)
			out, err := runCommand(tst, args...)
			if err != nil {
				tst.Fatalf("exec %s failed: %v", name, err)
			}
			if out != test.Expected {
				tst.Errorf("Expected '%s', got '%s'", test.Expected, out)
			}
		})
	}
}

func TestExec_CommandFlags(t *testing.T) {
	dir := setupGame(t)

	out, err := runCommand(t, "--path", dir, "--log-level", "error", "exec", "cat", "-o", "6", "-n", "5", "/system/boot.lua")
	if err != nil {
		t.Fatalf("exec failed: %v", err)
	}
	if out != "'patc" {
		t.Errorf("Expected \"'patc\", got '%s'", out)
	}
}

func TestExec_ExitCode(t *testing.T) {
	dir := setupGame(t)

	_, err := runCommand(t, "--path", dir, "--log-level", "error", "exec", "which", "/missing.lua")

	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Expected exitError, got %v", err)
	}
	if exitErr.code != 1 {
		t.Errorf("Expected exit code 1, got %d", exitErr.code)
	}
}

func TestExec_ListCommands(t *testing.T) {
	dir := setupGame(t)

	out, err := runCommand(t, "--path", dir, "--log-level", "error", "exec")
	if err != nil {
		t.Fatalf("exec failed: %v", err)
	}
	for _, name := range []string{"cat", "ls", "mounts", "stat", "sum", "which"} {
		if !strings.Contains(out, name) {
			t.Errorf("Expected command '%s' in list", name)
		}
	}
}

func TestIndex(t *testing.T) {
	dir := setupGame(t)
	dbPath := filepath.Join(t.TempDir(), "index.db")

	out, err := runCommand(t, "--path", dir, "--log-level", "error", "index", "sqlite://"+dbPath)
	if err != nil {
		t.Fatalf("index failed: %v", err)
	}
	if out != "Exported 2 files from 2 packages\n" {
		t.Errorf("Unexpected index output '%s'", out)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("Expected index database: %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	dir := setupGame(t)

	configPath := filepath.Join(t.TempDir(), "packfs.yaml")
	content := "game:\n  path: " + dir + "\nmount:\n  main_package: game.b25c\nlog:\n  level: error\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// game.b25c does not exist
	if _, err := runCommand(t, "--config", configPath, "run"); err == nil {
		t.Error("Expected run to fail with missing main package")
	}

	// Flags override the file
	out, err := runCommand(t, "--config", configPath, "--main-package", "data.b25c", "run")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasPrefix(out, "/system/boot.lua:") {
		t.Errorf("Unexpected run output '%s'", out)
	}
}

func TestMissingGame(t *testing.T) {
	t.Setenv("PACKFS_CONFIG", "")

	if _, err := runCommand(t, "run"); err == nil {
		t.Error("Expected run without game path to fail")
	}
}
