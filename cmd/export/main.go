// Package export holds the offline transaction export command.
package export

import (
	"fmt"
	"os"

	"github.com/buger/jsonparser"
	"github.com/spf13/cobra"

	"github.com/SoerenFox/pytr-Modified/timeline"
	"github.com/SoerenFox/pytr-Modified/transactions"
	"github.com/SoerenFox/pytr-Modified/utils/log"
)

const (
	usage = "export <events.json> [output file]"
	short = "Export account transactions from a saved event dump"
	long  = "This command reads an event dump written by the docs command and renders " +
		"the account transactions without talking to the backend. " +
		"Without an output file the result goes to stdout."
	example = "pytr export ~/tr-docs/all_events.json transactions.csv --lang de"

	formatFlag  = "format"
	formatDesc  = "output format (csv|json)"
	langFlag    = "lang"
	langDesc    = "language of the headers (de|en)"
	sortFlag    = "sort"
	sortDesc    = "sort by date"
	decimalFlag = "decimal-comma"
	decimalDesc = "use a decimal comma for values"
	timeFlag    = "date-with-time"
	timeDesc    = "include the time of day in dates"
)

var (
	// Cmd is the export command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		Args:    cobra.RangeArgs(1, 2),
		RunE:    executeExport,
	}

	format  string
	lang    string
	sortOut bool
	decimal bool
	withT   bool
)

func init() {
	Cmd.Flags().StringVarP(&format, formatFlag, "f", "csv", formatDesc)
	Cmd.Flags().StringVarP(&lang, langFlag, "l", "en", langDesc)
	Cmd.Flags().BoolVar(&sortOut, sortFlag, false, sortDesc)
	Cmd.Flags().BoolVar(&decimal, decimalFlag, false, decimalDesc)
	Cmd.Flags().BoolVar(&withT, timeFlag, false, timeDesc)
}

// executeExport implements the export command.
func executeExport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var events []timeline.Event
	_, err = jsonparser.ArrayEach(data, func(item []byte, _ jsonparser.ValueType, _ int, _ error) {
		ev, perr := timeline.ParseEvent(item)
		if perr != nil {
			log.Warn("skipping event: %v", perr)
			return
		}
		events = append(events, ev)
	})
	if err != nil {
		return fmt.Errorf("read event dump %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if len(args) == 2 {
		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	e := transactions.Exporter{
		Lang:                lang,
		DateWithTime:        withT,
		DecimalLocalization: decimal,
		Sort:                sortOut,
	}
	return e.Export(out, events, format)
}
