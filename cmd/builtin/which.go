package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/packfs/cmd"
)

// WhichCommand prints the archive that currently serves a path.
type WhichCommand struct {
}

func (w *WhichCommand) Name() string {
	return "which"
}

func (w *WhichCommand) Description() string {
	return "Show the package serving a path"
}

func (w *WhichCommand) Usage() string {
	return "which <path>..."
}

func (w *WhichCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) == 0 {
		return 2, fmt.Errorf("usage: %s", w.Usage())
	}

	code := 0
	for _, path := range args.Args {
		record, err := api.Which(ctx, path)
		if err != nil {
			fmt.Fprintf(writer, "%s: %v\n", path, err)
			code = 1
			continue
		}

		fmt.Fprintf(writer, "%s: %s (%s)\n", path, record.Archive, record.Kind)
	}

	return code, nil
}

func (w *WhichCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
