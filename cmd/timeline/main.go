// Package timeline holds the timeline inspection commands.
package timeline

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SoerenFox/pytr-Modified/account"
	"github.com/SoerenFox/pytr-Modified/timeline"
	"github.com/SoerenFox/pytr-Modified/utils"
)

const (
	sinceFlag = "since"
	sinceDesc = "only show events after this date (YYYY-MM-DD)"
)

var (
	// Cmd is the timeline command.
	Cmd = &cobra.Command{
		Use:     "timeline",
		Short:   "Dump all timeline events as JSON",
		Example: "pytr timeline --since 2024-01-01",
		RunE:    executeTimeline,
	}

	// DetailCmd fetches the detail of one event.
	DetailCmd = &cobra.Command{
		Use:   "detail <event id>",
		Short: "Show the detail payload of a timeline event",
		Args:  cobra.ExactArgs(1),
		RunE:  executeDetail,
	}

	// since set via flag to bound the collected events.
	since string
)

func init() {
	account.AddLoginFlags(Cmd)
	account.AddLoginFlags(DetailCmd)
	Cmd.Flags().StringVar(&since, sinceFlag, "", sinceDesc)
}

func executeTimeline(cmd *cobra.Command, args []string) error {
	var sinceTime time.Time
	if since != "" {
		t, err := time.Parse("2006-01-02", since)
		if err != nil {
			return fmt.Errorf("bad --since date %q: %w", since, err)
		}
		sinceTime = t
	}

	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()

	res, err := timeline.Collect(ctx, client, sinceTime)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, ev := range res.Events() {
		if err := utils.DumpJSON(w, ev.Raw); err != nil {
			return err
		}
	}
	return nil
}

func executeDetail(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	resp, err := client.TimelineDetail(ctx, args[0])
	if err != nil {
		return err
	}
	return utils.DumpJSON(cmd.OutOrStdout(), resp)
}
