package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	ConfigPath string
	Locale     string
	Format     string
	Verbose    bool

	traceID string
	logger  *log.Logger
}

var validFormats = []string{"csv", "json", "table"}

// NewRootCommand builds the qcat root command and registers every
// subcommand under it.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "qcat",
		Short: "Query flat files and databases with a uniform query language",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading config", err)
			}
			if opts.Locale == "" {
				opts.Locale = cfg.Locale
			}
			if opts.Format == "" {
				opts.Format = cfg.Format
			}
			if opts.Format == "" {
				opts.Format = "table"
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, validFormats))
			}

			opts.traceID = uuid.New().String()
			opts.logger = log.New(cmd.ErrOrStderr(), fmt.Sprintf("qcat[%s] ", opts.traceID[:8]), log.LstdFlags)
			if opts.Verbose {
				opts.logger.Printf("trace %s starting %s", opts.traceID, cmd.Name())
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a qcat.yaml config file")
	cmd.PersistentFlags().StringVar(&opts.Locale, "locale", "", "locale used for text comparisons and sorting")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format: csv, json or table (default table)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log progress to stderr")

	cmd.AddCommand(newExecCommand(opts))
	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newSplitCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range validFormats {
		if f == format {
			return true
		}
	}
	return false
}
