// Package connect implements the raw websocket console.
package connect

import (
	"github.com/spf13/cobra"

	"github.com/SoerenFox/pytr-Modified/account"
	"github.com/SoerenFox/pytr-Modified/cmd/connect/session"
	"github.com/SoerenFox/pytr-Modified/utils/log"
)

const (
	// Command
	// -------------.
	usage   = "connect"
	short   = "Open an interactive session on the websocket"
	long    = "This command opens an interactive console that sends raw subscribe payloads " +
		"and prints every resolved message"
	example = "pytr connect"
)

// Cmd is the connect command.
var Cmd = &cobra.Command{
	Use:        usage,
	Short:      short,
	Long:       long,
	SuggestFor: []string{"console", "repl", "conn"},
	Example:    example,
	RunE:       executeConnect,
}

func init() {
	account.AddLoginFlags(Cmd)
}

// executeConnect implements the connect command.
func executeConnect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := account.Login(ctx, account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()

	// Enter command loop.
	c := session.NewConsole(client)
	if err := c.Read(ctx); err != nil {
		return err
	}

	log.Info("closed connection")
	return nil
}
