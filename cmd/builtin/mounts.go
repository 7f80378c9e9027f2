package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/packfs/cmd"
)

// MountsCommand lists mounted packages from lowest to highest priority.
type MountsCommand struct {
}

func (m *MountsCommand) Name() string {
	return "mounts"
}

func (m *MountsCommand) Description() string {
	return "List mounted packages in mount order"
}

func (m *MountsCommand) Usage() string {
	return "mounts"
}

func (m *MountsCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	for i, record := range api.Mounts() {
		fmt.Fprintf(writer, "%3d %-9s %-20s %-8s %6d entries %6d shadowed\n",
			i, record.Kind, record.Archive, record.Root, record.Entries, record.Shadowed)
	}

	return 0, nil
}

func (m *MountsCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
