// Package stoploss holds the stop loss maintenance command.
package stoploss

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SoerenFox/pytr-Modified/account"
	"github.com/SoerenFox/pytr-Modified/api"
	"github.com/SoerenFox/pytr-Modified/orders"
	"github.com/SoerenFox/pytr-Modified/portfolio"
	"github.com/SoerenFox/pytr-Modified/utils/log"
)

const (
	usage = "stoploss"
	short = "Replace all stop loss orders below the current prices"
	long  = "This command cancels every stop-market sell order and creates a fresh one " +
		"per depot position, a fixed percentage below the current per-share value. " +
		"Positions below one whole share are skipped."
	example = "pytr stoploss --percent 5 --expiry gtc"

	percentFlag    = "percent"
	percentDesc    = "distance below the current per-share value, in percent"
	expiryFlag     = "expiry"
	expiryDesc     = "order expiry (gfd|gtc|gtd)"
	expiryDateFlag = "expiry-date"
	expiryDateDesc = "expiry date for gtd orders (YYYY-MM-DD)"
)

var (
	// Cmd is the stoploss command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		RunE:    executeStopLoss,
	}

	percent    float64
	expiry     string
	expiryDate string
)

func init() {
	account.AddLoginFlags(Cmd)
	Cmd.Flags().Float64Var(&percent, percentFlag, 5, percentDesc)
	Cmd.Flags().StringVar(&expiry, expiryFlag, "gfd", expiryDesc)
	Cmd.Flags().StringVar(&expiryDate, expiryDateFlag, "", expiryDateDesc)
}

// positionSource adapts the client to the updater.
type positionSource struct{ client *api.Client }

func (s positionSource) Positions(ctx context.Context) ([]portfolio.Position, error) {
	return portfolio.Positions(ctx, s.client)
}

// executeStopLoss implements the stoploss command.
func executeStopLoss(cmd *cobra.Command, args []string) error {
	if percent <= 0 || percent >= 100 {
		return fmt.Errorf("--percent must be between 0 and 100, have %g", percent)
	}
	if expiry == "gtd" && expiryDate == "" {
		return fmt.Errorf("gtd orders need --expiry-date")
	}

	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()

	u := orders.StopLossUpdater{
		API:        client,
		Positions:  positionSource{client},
		Percent:    percent / 100,
		Expiry:     expiry,
		ExpiryDate: expiryDate,
	}
	deleted, created, err := u.Update(ctx)
	if err != nil {
		return err
	}
	log.Info("replaced %d stop loss orders with %d new ones", deleted, created)
	return nil
}
