package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/SoerenFox/pytr-Modified/cmd/alarms"
	"github.com/SoerenFox/pytr-Modified/cmd/connect"
	"github.com/SoerenFox/pytr-Modified/cmd/docs"
	"github.com/SoerenFox/pytr-Modified/cmd/export"
	"github.com/SoerenFox/pytr-Modified/cmd/instrument"
	"github.com/SoerenFox/pytr-Modified/cmd/login"
	"github.com/SoerenFox/pytr-Modified/cmd/orders"
	"github.com/SoerenFox/pytr-Modified/cmd/portfolio"
	"github.com/SoerenFox/pytr-Modified/cmd/stoploss"
	"github.com/SoerenFox/pytr-Modified/cmd/timeline"
	"github.com/SoerenFox/pytr-Modified/utils"
	"github.com/SoerenFox/pytr-Modified/utils/log"
)

var (
	// flagPrintVersion set flag to show the current version.
	flagPrintVersion bool
	// flagLogLevel sets the console log level.
	flagLogLevel string
	// flagDebugFile tees all log output into a file.
	flagDebugFile string
)

// Execute builds the command tree and executes commands.
func Execute(ctx context.Context) error {
	// c is the root command.
	c := &cobra.Command{
		Use:   "pytr",
		Short: "Unofficial Trade Republic command line client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetLevelName(flagLogLevel)
			if flagDebugFile != "" {
				return log.OpenDebugFile(flagDebugFile)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.CloseDebugFile()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Print version if specified.
			if flagPrintVersion {
				log.Info("version: %v", utils.Tag)
				log.Info("commit hash: %v", utils.GitHash)
				log.Info("utc build time: %v", utils.BuildStamp)
				utils.CheckVersion(utils.Tag)
				return nil
			}
			// Print information regarding usage.
			return cmd.Usage()
		},
	}

	// Adds subcommands and version flag.
	c.AddCommand(login.Cmd)
	c.AddCommand(portfolio.Cmd)
	c.AddCommand(portfolio.CashCmd)
	c.AddCommand(portfolio.StatusCmd)
	c.AddCommand(portfolio.WatchlistCmd)
	c.AddCommand(portfolio.SavingsCmd)
	c.AddCommand(instrument.DetailsCmd)
	c.AddCommand(instrument.TickerCmd)
	c.AddCommand(instrument.PerformanceCmd)
	c.AddCommand(instrument.NewsCmd)
	c.AddCommand(instrument.SearchCmd)
	c.AddCommand(instrument.TagsCmd)
	c.AddCommand(timeline.Cmd)
	c.AddCommand(timeline.DetailCmd)
	c.AddCommand(docs.Cmd)
	c.AddCommand(orders.Cmd)
	c.AddCommand(orders.OrderCmd)
	c.AddCommand(stoploss.Cmd)
	c.AddCommand(alarms.Cmd)
	c.AddCommand(export.Cmd)
	c.AddCommand(connect.Cmd)
	c.Flags().BoolVarP(&flagPrintVersion, "version", "V", false, "show the version info and exit")
	c.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"console log level (debug|info|warning|error)")
	c.PersistentFlags().StringVar(&flagDebugFile, "debug-logfile", "",
		"write all log output to this file regardless of log level")

	return c.ExecuteContext(ctx)
}
