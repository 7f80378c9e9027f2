package main

import (
	"fmt"

	"github.com/mwantia/packfs/config"
	"github.com/mwantia/packfs/engine"
	"github.com/mwantia/packfs/log"
	"github.com/spf13/cobra"
)

// rootFlags are shared by all subcommands and override the config file.
type rootFlags struct {
	config      string
	path        string
	source      string
	root        string
	mainPackage string
	extracted   bool
	logLevel    string
	logFile     string
	jsonLog     bool
}

func newRootCommand(version string) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:     "packfs",
		Version: version,
		Short:   "Overlay filesystem for game package archives",
		Long: `packfs mounts the packages of a game directory into a single read-only
filesystem: the main package first, then all patches and all language packages.

The game directory can be a local path, an S3 bucket prefix (s3://) or a
Consul KV prefix (consul://).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Path to the YAML config file (default $PACKFS_CONFIG)")
	pf.StringVarP(&flags.path, "path", "p", "", "Local game directory")
	pf.StringVar(&flags.source, "source", "", "Source address of the game directory")
	pf.StringVar(&flags.root, "root", "", "Mount root inside the filesystem")
	pf.StringVar(&flags.mainPackage, "main-package", "", "Name of the main package")
	pf.BoolVar(&flags.extracted, "extracted", false, "Serve --path as an extracted game directory")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFile, "log-file", "", "Write logs into a rotated file")
	pf.BoolVar(&flags.jsonLog, "json-log", false, "Write logs as JSON")

	root.AddCommand(
		newRunCommand(flags),
		newExecCommand(flags),
		newIndexCommand(flags),
		newVersionCommand(),
	)

	return root
}

// loadConfig loads the config file and applies all flags set on the command line.
func (f *rootFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if f.config != "" {
		cfg, err = config.LoadFile(f.config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("path") {
		cfg.Game.Path = f.path
	}
	if changed("source") {
		cfg.Game.Source = f.source
	}
	if changed("root") {
		cfg.Mount.Root = f.root
	}
	if changed("main-package") {
		cfg.Mount.MainPackage = f.mainPackage
	}
	if changed("extracted") {
		cfg.Game.Extracted = f.extracted
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-file") {
		cfg.Log.File = f.logFile
	}
	if changed("json-log") {
		cfg.Log.JSON = f.jsonLog
	}

	return cfg, nil
}

// withEngine creates an engine for cfg whose log output goes to stderr and
// passes it to fn.
func withEngine(cmd *cobra.Command, cfg *config.Config, runner engine.ScriptRunner, fn func(e *engine.Engine) error) error {
	logger := log.New(log.LoggerOptions{
		Name:       "packfs",
		Level:      cfg.LogLevel(),
		File:       cfg.Log.File,
		NoTerminal: cfg.Log.NoTerminal,
		JSON:       cfg.Log.JSON,
		Writer:     cmd.ErrOrStderr(),
	})
	defer logger.Close()

	e, err := engine.New(cfg, runner, engine.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	return fn(e)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the packfs version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), cmd.Root().Version)
		},
	}
}
