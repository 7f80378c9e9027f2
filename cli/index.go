package main

import (
	"fmt"

	"github.com/mwantia/packfs/engine"
	"github.com/spf13/cobra"
)

func newIndexCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "index <address>",
		Short: "Export the mounted filesystem into an index database",
		Long: `Index mounts all packages and writes which package serves which path
into a database. Supported addresses:

  sqlite://<path>
  postgres://<user>:<password>@<host>/<database>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Index.Address = args[0]

			return withEngine(cmd, cfg, &engine.InspectRunner{}, func(e *engine.Engine) error {
				ctx := cmd.Context()
				if err := e.Start(ctx); err != nil {
					e.End(ctx)
					return err
				}

				fs := e.FileSystem()
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d files from %d packages\n", len(fs.Entries()), len(fs.Mounts()))

				return e.End(ctx)
			})
		},
	}
}
