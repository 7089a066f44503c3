// Package docs holds the document download command.
package docs

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/SoerenFox/pytr-Modified/account"
	"github.com/SoerenFox/pytr-Modified/dl"
	"github.com/SoerenFox/pytr-Modified/transactions"
	"github.com/SoerenFox/pytr-Modified/utils"
)

const (
	usage   = "docs <output dir>"
	short   = "Download all account documents into a directory"
	long    = "This command collects the full timeline, downloads every document " +
		"into <output dir>/<event type>/<year>/ and writes the event dumps and the " +
		"account transaction export next to them. Repeat runs only fetch new documents."
	example = "pytr docs ~/tr-docs --workers 4 --since 2024-01-01"

	formatFlag    = "filename-format"
	formatDesc    = "file name template, variables {iso_date} {time} {title} {subtitle} {doc_num} {id}"
	sinceFlag     = "since"
	sinceDesc     = "only download documents of events after this date (YYYY-MM-DD)"
	lastDaysFlag  = "last-days"
	lastDaysDesc  = "only download documents of events from the last N days"
	workersFlag   = "workers"
	workersDesc   = "number of parallel downloads"
	universalFlag = "universal"
	universalDesc = "sanitize file names for cross-platform use"
	filterFlag    = "filter"
	filterDesc    = "glob matched against event titles, e.g. \"Saving*\""
	langFlag      = "export-lang"
	langDesc      = "language of the transaction export headers (de|en)"
	sortFlag      = "sort-export"
	sortDesc      = "sort the transaction export by date"
	decimalFlag   = "decimal-comma"
	decimalDesc   = "use a decimal comma in the transaction export"
	timeFlag      = "date-with-time"
	timeDesc      = "include the time of day in exported dates"
)

var (
	// Cmd is the docs command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE:    executeDocs,
	}

	format     string
	since      string
	lastDays   int
	workers    int
	universal  bool
	filter     string
	exportLang string
	sortExport bool
	decimal    bool
	dateTime   bool
)

func init() {
	account.AddLoginFlags(Cmd)
	Cmd.Flags().StringVar(&format, formatFlag, dl.DefaultFormat, formatDesc)
	Cmd.Flags().StringVar(&since, sinceFlag, "", sinceDesc)
	Cmd.Flags().IntVar(&lastDays, lastDaysFlag, 0, lastDaysDesc)
	Cmd.Flags().IntVar(&workers, workersFlag, 8, workersDesc)
	Cmd.Flags().BoolVar(&universal, universalFlag, false, universalDesc)
	Cmd.Flags().StringVar(&filter, filterFlag, "", filterDesc)
	Cmd.Flags().StringVar(&exportLang, langFlag, "en", langDesc)
	Cmd.Flags().BoolVar(&sortExport, sortFlag, false, sortDesc)
	Cmd.Flags().BoolVar(&decimal, decimalFlag, false, decimalDesc)
	Cmd.Flags().BoolVar(&dateTime, timeFlag, false, timeDesc)
}

// sinceTime computes the event cutoff from the two restriction flags.
func sinceTime(since string, lastDays int) (time.Time, error) {
	if since != "" && lastDays > 0 {
		return time.Time{}, fmt.Errorf("--%s and --%s exclude each other", sinceFlag, lastDaysFlag)
	}
	if lastDays > 0 {
		return time.Now().AddDate(0, 0, -lastDays), nil
	}
	if since == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", since)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad --%s date %q: %w", sinceFlag, since, err)
	}
	return t, nil
}

// executeDocs implements the docs command.
func executeDocs(cmd *cobra.Command, args []string) error {
	cutoff, err := sinceTime(since, lastDays)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()

	outputDir, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	d, err := dl.New(client, dl.Options{
		OutputDir:    outputDir,
		Format:       format,
		Since:        cutoff,
		Workers:      workers,
		Universal:    universal,
		Filter:       filter,
		RegistryPath: utils.RegistryPath(utils.ConfigDir()),
		Exporter: transactions.Exporter{
			Lang:                exportLang,
			DateWithTime:        dateTime,
			DecimalLocalization: decimal,
			Sort:                sortExport,
		},
	})
	if err != nil {
		return err
	}
	return d.Run(ctx)
}
