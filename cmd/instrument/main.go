// Package instrument holds the commands that inspect single
// instruments and the search.
package instrument

import (
	"github.com/spf13/cobra"

	"github.com/SoerenFox/pytr-Modified/account"
	"github.com/SoerenFox/pytr-Modified/details"
	"github.com/SoerenFox/pytr-Modified/utils"
)

const (
	exchangeFlag    = "exchange"
	defaultExchange = "LSX"
	exchangeDesc    = "exchange id to quote against"
	typeFlag        = "type"
	defaultType     = "stock"
	typeDesc        = "asset type filter (stock|fund|derivative|crypto)"
)

var (
	// DetailsCmd prints instrument master data.
	DetailsCmd = &cobra.Command{
		Use:     "details <ISIN>",
		Short:   "Show name, type and exchanges of an instrument",
		Example: "pytr details US0378331005",
		Args:    cobra.ExactArgs(1),
		RunE:    executeDetails,
	}

	// TickerCmd prints the current quote.
	TickerCmd = &cobra.Command{
		Use:     "ticker <ISIN>",
		Short:   "Show the current bid and ask of an instrument",
		Example: "pytr ticker US0378331005 --exchange LSX",
		Args:    cobra.ExactArgs(1),
		RunE:    executeTicker,
	}

	// PerformanceCmd prints the performance payload.
	PerformanceCmd = &cobra.Command{
		Use:   "performance <ISIN>",
		Short: "Show the price performance of an instrument",
		Args:  cobra.ExactArgs(1),
		RunE:  executePerformance,
	}

	// NewsCmd prints recent articles.
	NewsCmd = &cobra.Command{
		Use:   "news <ISIN>",
		Short: "Show recent news for an instrument",
		Args:  cobra.ExactArgs(1),
		RunE:  executeNews,
	}

	// SearchCmd searches instruments by name.
	SearchCmd = &cobra.Command{
		Use:     "search <query>",
		Short:   "Search instruments",
		Example: "pytr search apple --type stock",
		Args:    cobra.MinimumNArgs(1),
		RunE:    executeSearch,
	}

	// TagsCmd prints suggested search tags.
	TagsCmd = &cobra.Command{
		Use:   "tags <query>",
		Short: "Show suggested search tags for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE:  executeTags,
	}

	// exchange set via flag for quote commands.
	exchange string
	// assetType set via flag for the search filter.
	assetType string
)

func init() {
	for _, c := range []*cobra.Command{DetailsCmd, TickerCmd, PerformanceCmd, NewsCmd, SearchCmd, TagsCmd} {
		account.AddLoginFlags(c)
	}
	TickerCmd.Flags().StringVar(&exchange, exchangeFlag, defaultExchange, exchangeDesc)
	PerformanceCmd.Flags().StringVar(&exchange, exchangeFlag, defaultExchange, exchangeDesc)
	SearchCmd.Flags().StringVar(&assetType, typeFlag, defaultType, typeDesc)
}

func executeDetails(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	return details.Show(ctx, client, args[0], cmd.OutOrStdout())
}

func executeTicker(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	resp, err := client.Ticker(ctx, args[0], exchange)
	if err != nil {
		return err
	}
	return utils.DumpJSON(cmd.OutOrStdout(), resp)
}

func executePerformance(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	resp, err := client.Performance(ctx, args[0], exchange)
	if err != nil {
		return err
	}
	return utils.DumpJSON(cmd.OutOrStdout(), resp)
}

func executeNews(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	return details.PrintNews(ctx, client, args[0], cmd.OutOrStdout())
}

func executeSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	resp, err := client.Search(ctx, joinQuery(args), assetType)
	if err != nil {
		return err
	}
	return utils.DumpJSON(cmd.OutOrStdout(), resp)
}

func executeTags(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	resp, err := client.SearchSuggestedTags(ctx, joinQuery(args))
	if err != nil {
		return err
	}
	return utils.DumpJSON(cmd.OutOrStdout(), resp)
}

func joinQuery(args []string) string {
	q := args[0]
	for _, a := range args[1:] {
		q += " " + a
	}
	return q
}
