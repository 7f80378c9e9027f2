package builtin

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/mwantia/packfs/cmd"
	"github.com/mwantia/packfs/data"
)

type LsCommand struct {
}

// Name returns the command identifier
func (ls *LsCommand) Name() string {
	return "ls"
}

// Description returns human-readable help text
func (ls *LsCommand) Description() string {
	return "List directory contents"
}

// Usage returns a usage string for help (e.g. "ls -l [path]")
func (ls *LsCommand) Usage() string {
	return "ls [-l] [path]"
}

// Execute runs the command with parsed arguments
// Returns exit code (0 = success) and error message
func (ls *LsCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	path := args.Arg(0, "/")

	meta, err := api.StatMetadata(ctx, path)
	if err != nil {
		return 1, err
	}

	entries := []*data.Metadata{meta}
	if meta.IsDir() {
		entries, err = api.ReadDirectory(ctx, path)
		if err != nil {
			return 1, err
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	long := args.Bool("long")
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}

		if !long {
			fmt.Fprintln(writer, name)
			continue
		}

		archive := entry.Archive
		if archive == "" {
			archive = "-"
		}
		fmt.Fprintf(writer, "%s %10d %-16s %s\n", entry.Mode, entry.Size, archive, name)
	}

	return 0, nil
}

// GetFlags returns the flag set for this command (this is optional)
func (ls *LsCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"long": {
				Name:        "long",
				Short:       "l",
				Type:        cmd.FlagTypeBool,
				Description: "Show mode, size and serving archive",
			},
		},
	}
}
