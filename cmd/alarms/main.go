// Package alarms holds the price alarm commands.
package alarms

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/SoerenFox/pytr-Modified/account"
	"github.com/SoerenFox/pytr-Modified/alarms"
)

const (
	removeFlag = "remove-current"
	removeDesc = "cancel existing alarms of the touched instruments first"
	outputFlag = "output"
	outputDesc = "write the alarms as JSON to this file instead of stdout"
)

var (
	// Cmd groups the alarm subcommands.
	Cmd = &cobra.Command{
		Use:   "alarms",
		Short: "List and set price alarms",
	}

	listCmd = &cobra.Command{
		Use:     "list [ISIN...]",
		Short:   "Show the configured price alarms",
		Example: "pytr alarms list US0378331005",
		RunE:    executeList,
	}

	setCmd = &cobra.Command{
		Use:     "set <ISIN price...> ...",
		Short:   "Create price alarms",
		Long:    "Each argument is one \"<ISIN> <price> [<price>...]\" group, ISINs may repeat.",
		Example: "pytr alarms set \"US0378331005 150 180.50\"",
		Args:    cobra.MinimumNArgs(1),
		RunE:    executeSet,
	}

	removeCurrent bool
	output        string
)

func init() {
	account.AddLoginFlags(listCmd)
	account.AddLoginFlags(setCmd)
	setCmd.Flags().BoolVar(&removeCurrent, removeFlag, true, removeDesc)
	listCmd.Flags().StringVarP(&output, outputFlag, "o", "", outputDesc)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(setCmd)
}

func executeList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	list, err := alarms.List(ctx, client, args)
	if err != nil {
		return err
	}
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		err = alarms.Print(f, list)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}
	return alarms.Print(cmd.OutOrStdout(), list)
}

func executeSet(cmd *cobra.Command, args []string) error {
	var lines []alarms.Line
	for _, arg := range args {
		line, err := alarms.ParseLine(arg)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	return alarms.Set(ctx, client, lines, removeCurrent)
}
