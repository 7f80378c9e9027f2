package main

import (
	"errors"
	"fmt"

	"github.com/mwantia/packfs/engine"
	"github.com/spf13/cobra"
)

func newExecCommand(flags *rootFlags) *cobra.Command {
	execCmd := &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run a filesystem command (ls, cat, stat, which, mounts, sum)",
		Long: `Exec mounts all packages and runs a single filesystem command against
the sealed filesystem. Without a command all available commands are listed.

Flags after the command name are passed to the command:

  packfs --path ./game exec ls -l /system`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}

			return withEngine(cmd, cfg, &engine.InspectRunner{}, func(e *engine.Engine) error {
				ctx := cmd.Context()
				if err := e.Start(ctx); err != nil {
					e.End(ctx)
					return err
				}

				execErr := execute(cmd, e, args)
				return errors.Join(execErr, e.End(ctx))
			})
		},
	}

	// Everything after the command name belongs to the command
	execCmd.Flags().SetInterspersed(false)

	return execCmd
}

func execute(cmd *cobra.Command, e *engine.Engine, args []string) error {
	fs := e.FileSystem()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, c := range fs.Commands() {
			fmt.Fprintf(out, "  %-8s %s\n", c.Name(), c.Description())
		}
		return nil
	}

	code, err := fs.Execute(cmd.Context(), out, args...)
	if code != 0 || err != nil {
		return &exitError{code: max(code, 1), err: err}
	}

	return nil
}
