// Command teambadge classifies team statistics files and talks to a running
// teambadge service.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okian/teambadge/internal/report"
	"github.com/okian/teambadge/pkg/logger"
)

type rootOptions struct {
	logLevel string
	noColor  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "teambadge",
		Short: "Assign primary and secondary badges to basketball teams",
		Long: `teambadge reads JSON arrays of team season statistics and writes each team's
primaryBadge and secondaryBadges back into the records, keeping every other
field and the field order as they were.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries data, logs go to stderr
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			return logger.SetLevelString(opts.logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored report headings")

	cmd.AddCommand(newClassifyCmd(opts))
	cmd.AddCommand(newThresholdsCmd(opts))
	cmd.AddCommand(newSubmitCmd())
	return cmd
}

func (o *rootOptions) printerTo(w io.Writer) *report.Printer {
	return report.New(w, report.WithColor(!o.noColor && !color.NoColor))
}
