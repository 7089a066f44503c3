package login

import (
	"github.com/spf13/cobra"

	"github.com/SoerenFox/pytr-Modified/account"
	"github.com/SoerenFox/pytr-Modified/utils/log"
)

const (
	usage   = "login"
	short   = "Log in and store the session for later commands"
	long    = "This command runs the 2FA login flow and stores the session so later commands can resume it"
	example = "pytr login --phone-no +4912345678 --store-credentials"
)

// Cmd is the login command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
	RunE:    executeLogin,
}

func init() {
	account.AddLoginFlags(Cmd)
}

func executeLogin(cmd *cobra.Command, args []string) error {
	client, err := account.Login(cmd.Context(), account.OptionsFromFlags(cmd))
	if err != nil {
		return err
	}
	defer client.Close()
	log.Info("session established")
	return nil
}
