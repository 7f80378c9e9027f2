package builtin

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mwantia/packfs/cmd"
)

type StatCommand struct {
}

func (s *StatCommand) Name() string {
	return "stat"
}

func (s *StatCommand) Description() string {
	return "Display file status"
}

func (s *StatCommand) Usage() string {
	return "stat [--json] <path>"
}

func (s *StatCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 1 {
		return 2, fmt.Errorf("usage: %s", s.Usage())
	}

	meta, err := api.StatMetadata(ctx, args.Args[0])
	if err != nil {
		return 1, err
	}

	if args.Bool("json") {
		b, err := meta.Marshal()
		if err != nil {
			return 1, err
		}
		fmt.Fprintf(writer, "%s\n", b)
		return 0, nil
	}

	kind := "regular file"
	if meta.IsDir() {
		kind = "directory"
	}

	fmt.Fprintf(writer, "  File: %s\n", meta.Key)
	fmt.Fprintf(writer, "  Type: %s\n", kind)
	fmt.Fprintf(writer, "  Mode: %s\n", meta.Mode)
	fmt.Fprintf(writer, "  Size: %d\n", meta.Size)
	if !meta.IsDir() {
		fmt.Fprintf(writer, "Packed: %d\n", meta.CompressedSize)
		fmt.Fprintf(writer, "  MIME: %s\n", meta.ContentType)
		fmt.Fprintf(writer, "Source: %s (%s)\n", meta.Archive, meta.Entry)
		fmt.Fprintf(writer, "Modify: %s\n", meta.ModifyTime.Format(time.RFC3339))
	}

	return 0, nil
}

func (s *StatCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"json": {
				Name:        "json",
				Type:        cmd.FlagTypeBool,
				Description: "Print metadata as JSON",
			},
		},
	}
}
