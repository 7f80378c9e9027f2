package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/packfs/cmd"
)

type CatCommand struct {
}

func (c *CatCommand) Name() string {
	return "cat"
}

func (c *CatCommand) Description() string {
	return "Print file contents"
}

func (c *CatCommand) Usage() string {
	return "cat [--offset n] [--size n] <path>"
}

func (c *CatCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 1 {
		return 2, fmt.Errorf("usage: %s", c.Usage())
	}

	offset, size := args.Int("offset"), args.Int("size")
	if offset == 0 && size < 0 {
		rc, err := api.OpenFile(ctx, args.Args[0])
		if err != nil {
			return 1, err
		}
		defer rc.Close()

		if _, err := io.Copy(writer, rc); err != nil {
			return 1, err
		}
		return 0, nil
	}

	content, err := api.ReadFile(ctx, args.Args[0], offset, size)
	if err != nil {
		return 1, err
	}
	if _, err := writer.Write(content); err != nil {
		return 1, err
	}

	return 0, nil
}

func (c *CatCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"offset": {
				Name:        "offset",
				Short:       "o",
				Type:        cmd.FlagTypeInt,
				Default:     int64(0),
				Description: "Start reading at this byte offset",
			},
			"size": {
				Name:        "size",
				Short:       "n",
				Type:        cmd.FlagTypeInt,
				Default:     int64(-1),
				Description: "Number of bytes to read, -1 reads everything",
			},
		},
	}
}
