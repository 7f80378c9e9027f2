package main

import (
	"github.com/mwantia/packfs/engine"
	"github.com/spf13/cobra"
)

func newRunCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Mount the game and resolve its boot script",
		Long: `Run mounts all packages, seals the filesystem and hands the boot script
to the inspect runner, which prints its size and line count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}

			runner := &engine.InspectRunner{Writer: cmd.OutOrStdout()}
			return withEngine(cmd, cfg, runner, func(e *engine.Engine) error {
				return e.Run(cmd.Context())
			})
		},
	}
}
