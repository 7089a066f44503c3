// Package orders holds the order listing and placement commands.
package orders

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SoerenFox/pytr-Modified/account"
	"github.com/SoerenFox/pytr-Modified/api"
	"github.com/SoerenFox/pytr-Modified/orders"
	"github.com/SoerenFox/pytr-Modified/utils"
)

const (
	exchangeFlag    = "exchange"
	defaultExchange = "LSX"
	exchangeDesc    = "exchange id to trade on"
	sideFlag        = "side"
	sideDesc        = "order side (buy|sell)"
	expiryFlag      = "expiry"
	expiryDesc      = "order expiry (gfd|gtc|gtd)"
	expiryDateFlag  = "expiry-date"
	expiryDateDesc  = "expiry date for gtd orders (YYYY-MM-DD)"
)

var (
	// Cmd lists the active orders.
	Cmd = &cobra.Command{
		Use:   "orders",
		Short: "Show the active orders",
		RunE:  executeOrders,
	}

	// OrderCmd groups the order manipulation subcommands.
	OrderCmd = &cobra.Command{
		Use:   "order",
		Short: "Place or cancel orders",
	}

	priceCmd = &cobra.Command{
		Use:     "price <ISIN>",
		Short:   "Show the indicative execution price for an order",
		Example: "pytr order price US0378331005 --side buy",
		Args:    cobra.ExactArgs(1),
		RunE:    executePrice,
	}

	limitCmd = &cobra.Command{
		Use:     "limit <ISIN> <size> <limit>",
		Short:   "Place a limit order",
		Example: "pytr order limit US0378331005 2 170.50 --side buy --expiry gtc",
		Args:    cobra.ExactArgs(3),
		RunE:    executeLimit,
	}

	cancelCmd = &cobra.Command{
		Use:   "cancel <order id>",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE:  executeCancel,
	}

	exchange   string
	side       string
	expiry     string
	expiryDate string
)

func init() {
	account.AddLoginFlags(Cmd)
	for _, c := range []*cobra.Command{priceCmd, limitCmd, cancelCmd} {
		account.AddLoginFlags(c)
		OrderCmd.AddCommand(c)
	}
	priceCmd.Flags().StringVar(&exchange, exchangeFlag, defaultExchange, exchangeDesc)
	priceCmd.Flags().StringVar(&side, sideFlag, "buy", sideDesc)
	limitCmd.Flags().StringVar(&exchange, exchangeFlag, defaultExchange, exchangeDesc)
	limitCmd.Flags().StringVar(&side, sideFlag, "buy", sideDesc)
	limitCmd.Flags().StringVar(&expiry, expiryFlag, "gfd", expiryDesc)
	limitCmd.Flags().StringVar(&expiryDate, expiryDateFlag, "", expiryDateDesc)
}

func executeOrders(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	list, err := orders.List(ctx, client)
	if err != nil {
		return err
	}
	orders.PrintOverview(cmd.OutOrStdout(), list)
	return nil
}

func executePrice(cmd *cobra.Command, args []string) error {
	if err := validateSide(); err != nil {
		return err
	}
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	resp, err := client.PriceForOrder(ctx, args[0], exchange, side)
	if err != nil {
		return err
	}
	return utils.DumpJSON(cmd.OutOrStdout(), resp)
}

func executeLimit(cmd *cobra.Command, args []string) error {
	if err := validateSide(); err != nil {
		return err
	}
	size, err := strconv.ParseFloat(args[1], 64)
	if err != nil || size <= 0 {
		return fmt.Errorf("bad order size %q", args[1])
	}
	limit, err := strconv.ParseFloat(args[2], 64)
	if err != nil || limit <= 0 {
		return fmt.Errorf("bad limit price %q", args[2])
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
	resp, err := client.LimitOrder(ctx, api.OrderParams{
		ISIN:       args[0],
		Exchange:   exchange,
		Side:       side,
		Size:       size,
		Limit:      limit,
		Expiry:     expiry,
		ExpiryDate: expiryDate,
	})
	if err != nil {
		return err
	}
	return utils.DumpJSON(cmd.OutOrStdout(), resp)
}

func executeCancel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	resp, err := client.CancelOrder(ctx, args[0])
	if err != nil {
		return err
	}
	return utils.DumpJSON(cmd.OutOrStdout(), resp)
}

func validateSide() error {
	if side != "buy" && side != "sell" {
		return fmt.Errorf("side must be buy or sell, have %q", side)
	}
	return nil
}
