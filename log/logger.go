package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	out *output

	Name   string
	Level  LogLevel
	fields []field

	TimeFormat string
	NoColor    bool
	JSON       bool
}

type LoggerRotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// LoggerOptions configures a root logger created by New.
type LoggerOptions struct {
	Name       string
	Level      LogLevel
	File       string
	NoTerminal bool
	NoColor    bool
	JSON       bool
	Rotation   *LoggerRotation

	// Writer replaces the terminal output, e.g. for tests.
	Writer io.Writer
}

// output is shared between a logger and all loggers derived from it.
type output struct {
	mu      sync.Mutex
	writer  io.Writer
	closer  io.Closer
	colored bool
}

type field struct {
	key   string
	value any
}

type logEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Service   string         `json:"service,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func NewLogger(name string, level LogLevel, file string, noTerminal bool) *Logger {
	return New(LoggerOptions{
		Name:       name,
		Level:      level,
		File:       file,
		NoTerminal: noTerminal,
	})
}

func New(opts LoggerOptions) *Logger {
	rotation := opts.Rotation
	if rotation == nil {
		rotation = &LoggerRotation{
			MaxSize:    128,
			MaxBackups: 5,
			MaxAge:     16,
			Compress:   false,
		}
	}

	out := &output{}
	var writers []io.Writer

	switch {
	case opts.Writer != nil:
		writers = append(writers, opts.Writer)
	case !opts.NoTerminal:
		writers = append(writers, os.Stdout)
		out.colored = !opts.NoColor && !opts.JSON
	}

	if opts.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    rotation.MaxSize,
			MaxBackups: rotation.MaxBackups,
			MaxAge:     rotation.MaxAge,
			Compress:   rotation.Compress,
		}
		writers = append(writers, fileWriter)
		out.closer = fileWriter
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	out.writer = io.MultiWriter(writers...)

	return &Logger{
		out:        out,
		Name:       opts.Name,
		Level:      opts.Level,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    opts.NoColor,
		JSON:       opts.JSON,
	}
}

// Discard returns a logger that drops every message.
func Discard() *Logger {
	return New(LoggerOptions{
		Level:  Fatal + 1,
		Writer: io.Discard,
	})
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if level < l.Level {
		return
	}

	timestamp := time.Now().Format(l.TimeFormat)
	formattedMsg := msg
	if len(args) > 0 {
		formattedMsg = fmt.Sprintf(msg, args...)
	}

	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Service:   l.Name,
			Message:   formattedMsg,
		}
		if len(l.fields) > 0 {
			entry.Fields = make(map[string]any, len(l.fields))
			for _, f := range l.fields {
				entry.Fields[f.key] = f.value
			}
		}

		jsonBytes, _ := json.Marshal(entry)
		fmt.Fprintf(l.out.writer, "%s\n", jsonBytes)
	} else {
		prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
		if l.Name != "" {
			prefix = fmt.Sprintf("%s [%s]", prefix, l.Name)
		}

		var sb strings.Builder
		sb.WriteString(formattedMsg)
		for _, f := range l.fields {
			fmt.Fprintf(&sb, " %s=%v", f.key, f.value)
		}

		if l.out.colored && !l.NoColor {
			fmt.Fprintf(l.out.writer, "%s%s %s\033[0m\n", level.Color(), prefix, sb.String())
		} else {
			fmt.Fprintf(l.out.writer, "%s %s\n", prefix, sb.String())
		}
	}

	if level == Fatal {
		os.Exit(1)
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(Error, msg, args...)
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.log(Fatal, msg, args...)
}

// Named returns a logger sharing the same output with name appended to the service name.
func (l *Logger) Named(name string) *Logger {
	child := l.clone()
	if l.Name == "" {
		child.Name = name
	} else {
		child.Name = fmt.Sprintf("%s/%s", l.Name, name)
	}

	return child
}

// With returns a logger that appends key=value to every message.
func (l *Logger) With(key string, value any) *Logger {
	child := l.clone()
	child.fields = append(child.fields, field{key: key, value: value})

	return child
}

// Close releases the log file, if one is configured.
// Loggers derived through Named or With share the file and must not be used afterwards.
func (l *Logger) Close() error {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.out.closer == nil {
		return nil
	}

	err := l.out.closer.Close()
	l.out.closer = nil
	return err
}

func (l *Logger) clone() *Logger {
	fields := make([]field, len(l.fields))
	copy(fields, l.fields)

	return &Logger{
		out:        l.out,
		Name:       l.Name,
		Level:      l.Level,
		fields:     fields,
		TimeFormat: l.TimeFormat,
		NoColor:    l.NoColor,
		JSON:       l.JSON,
	}
}
