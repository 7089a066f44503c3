// Package portfolio holds the commands that inspect the account state.
package portfolio

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/SoerenFox/pytr-Modified/account"
	"github.com/SoerenFox/pytr-Modified/api"
	"github.com/SoerenFox/pytr-Modified/portfolio"
	"github.com/SoerenFox/pytr-Modified/utils"
)

const (
	usage   = "portfolio"
	short   = "Show the depot positions with current prices"
	example = "pytr portfolio -o positions.csv"

	// Flags.
	outputFlag = "output"
	outputDesc = "also write the positions as CSV to this file"
	rawFlag    = "raw"
	rawDesc    = "dump the unprocessed portfolio payload instead of the table"
)

var (
	// Cmd is the portfolio command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Example: example,
		RunE:    executePortfolio,
	}

	// CashCmd prints the cash balances.
	CashCmd = &cobra.Command{
		Use:   "cash",
		Short: "Show the available cash",
		RunE:  dumper(func(ctx context.Context, c *api.Client) (json.RawMessage, error) {
			return c.AvailableCash(ctx)
		}),
	}

	// StatusCmd prints the portfolio status payload.
	StatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the portfolio status",
		RunE:  dumper(func(ctx context.Context, c *api.Client) (json.RawMessage, error) {
			return c.PortfolioStatus(ctx)
		}),
	}

	// WatchlistCmd prints the watchlist.
	WatchlistCmd = &cobra.Command{
		Use:   "watchlist",
		Short: "Show the watchlist",
		RunE:  dumper(func(ctx context.Context, c *api.Client) (json.RawMessage, error) {
			return c.Watchlist(ctx)
		}),
	}

	// SavingsCmd prints the savings plans.
	SavingsCmd = &cobra.Command{
		Use:   "savings",
		Short: "Show the savings plans",
		RunE:  dumper(func(ctx context.Context, c *api.Client) (json.RawMessage, error) {
			return c.SavingsPlans(ctx)
		}),
	}

	// output set via flag for the CSV target file.
	output string
	// raw set via flag to skip the table rendering.
	raw bool
)

func init() {
	account.AddLoginFlags(Cmd)
	Cmd.Flags().StringVarP(&output, outputFlag, "o", "", outputDesc)
	Cmd.Flags().BoolVar(&raw, rawFlag, false, rawDesc)
	for _, c := range []*cobra.Command{CashCmd, StatusCmd, WatchlistCmd, SavingsCmd} {
		account.AddLoginFlags(c)
	}
}

// executePortfolio implements the portfolio command.
func executePortfolio(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()

	if raw {
		resp, err := client.CompactPortfolio(ctx)
		if err != nil {
			return err
		}
		return utils.DumpJSON(cmd.OutOrStdout(), resp)
	}

	overview, err := portfolio.Fetch(ctx, client)
	if err != nil {
		return err
	}
	overview.Print(cmd.OutOrStdout())

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		err = portfolio.WriteCSV(overview.Positions, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}
	return nil
}

// dumper wraps a login, one request and a pretty-printed dump of the
// answer.
func dumper(fetch func(context.Context, *api.Client) (json.RawMessage, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
		if err != nil {
			return err
		}
		defer client.Close()
		resp, err := fetch(ctx, client)
		if err != nil {
			return err
		}
		return utils.DumpJSON(cmd.OutOrStdout(), resp)
	}
}
