// Package cli implements the harvestkit command line.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/agripreserve/harvestkit/internal/backend"
	"github.com/agripreserve/harvestkit/localstore"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Store      string
	Prefix     string
	ConfigFile string

	logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the harvestkit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "harvestkit",
		Short: "Inspect preference stores and reshape record exports",
		Long: `harvestkit reads and writes typed preference stores, and groups, sorts,
filters, searches and summarizes JSON record exports.

Stores are named by DSN: mem:, file:DIR, bolt:PATH, sqlite:PATH or
s3://BUCKET/PREFIX.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", DefaultStore(), "store DSN")
	cmd.PersistentFlags().StringVar(&opts.Prefix, "prefix", "", "key namespace within the store")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "YAML config file")

	cmd.AddCommand(newGetCommand(opts))
	cmd.AddCommand(newSetCommand(opts))
	cmd.AddCommand(newRemoveCommand(opts))
	cmd.AddCommand(newKeysCommand(opts))
	cmd.AddCommand(newClearCommand(opts))

	cmd.AddCommand(newGroupCommand(opts))
	cmd.AddCommand(newSortCommand(opts))
	cmd.AddCommand(newFilterCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	cmd.AddCommand(newSummarizeCommand(opts))

	return cmd
}

func (opts *RootOptions) setup(cmd *cobra.Command) error {
	if !slices.Contains(ValidFormats, opts.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}
	var level string
	if opts.ConfigFile != "" {
		cfg, err := LoadConfig(opts.ConfigFile)
		if err != nil {
			return WrapExitError(ExitCommandError, "config", err)
		}
		flags := cmd.Flags()
		if cfg.Store != "" && !flags.Changed("store") {
			opts.Store = cfg.Store
		}
		if cfg.Prefix != "" && !flags.Changed("prefix") {
			opts.Prefix = cfg.Prefix
		}
		level = cfg.LogLevel
	}
	logger, err := newLogger(level, opts.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, "logger", err)
	}
	opts.logger = logger
	return nil
}

func (opts *RootOptions) log() *zap.Logger {
	if opts.logger == nil {
		return zap.NewNop()
	}
	return opts.logger
}

func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

// openStore opens the configured store. The returned function must be
// called when the command is done with it.
func (opts *RootOptions) openStore(ctx context.Context) (*localstore.Store, func(), error) {
	p, closer, err := backend.Open(ctx, opts.Store, opts.log())
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "open store", err)
	}
	s := localstore.New(&localstore.Config{
		StoreWith: p,
		Prefix:    opts.Prefix,
		Logger:    opts.log().Named("localstore"),
	})
	return s, func() {
		if err := closer(); err != nil {
			opts.log().Warn("closing store", zap.String("store", opts.Store), zap.Error(err))
		}
	}, nil
}
