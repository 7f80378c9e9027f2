package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// ScriptRunner executes the boot script once the filesystem is sealed.
type ScriptRunner interface {
	// Name returns the identifier of this runner.
	Name() string

	// ExecuteFile runs the script at path whose content is read from r.
	ExecuteFile(ctx context.Context, path string, r io.Reader) error

	// Close releases the runner. It is called during teardown even if
	// ExecuteFile was never called.
	Close(ctx context.Context) error
}

// InspectRunner does not execute anything. It reports the size and line
// count of the boot script, which is enough to verify that a game directory
// resolves to the expected script.
type InspectRunner struct {
	Writer io.Writer
}

func (r *InspectRunner) Name() string {
	return "inspect"
}

func (r *InspectRunner) ExecuteFile(ctx context.Context, path string, rd io.Reader) error {
	counter := &lineCounter{}
	if _, err := io.Copy(counter, rd); err != nil {
		return fmt.Errorf("failed to read '%s': %w", path, err)
	}

	if r.Writer == nil {
		return nil
	}

	_, err := fmt.Fprintf(r.Writer, "%s: %d bytes, %d lines\n", path, counter.size, counter.Lines())
	return err
}

func (r *InspectRunner) Close(ctx context.Context) error {
	return nil
}

type lineCounter struct {
	size     int64
	newlines int64
	last     byte
}

func (c *lineCounter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		c.size += int64(len(p))
		c.newlines += int64(bytes.Count(p, []byte{'\n'}))
		c.last = p[len(p)-1]
	}

	return len(p), nil
}

// Lines counts a trailing line without newline as a line.
func (c *lineCounter) Lines() int64 {
	if c.size > 0 && c.last != '\n' {
		return c.newlines + 1
	}

	return c.newlines
}
