// Package account handles credential storage and the interactive login
// flow shared by every command that talks to the backend.
package account

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/SoerenFox/pytr-Modified/api"
	"github.com/SoerenFox/pytr-Modified/utils"
	"github.com/SoerenFox/pytr-Modified/utils/log"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

// Options configure a login. Empty credential fields fall back to the
// stored credentials file, then to interactive prompts.
type Options struct {
	PhoneNo string
	PIN     string
	Locale  string
	// AppLogin selects the paired-device login over the web login.
	AppLogin bool
	// Store persists entered credentials for the next run.
	Store bool
	// Dir overrides the config directory, used in tests.
	Dir string
}

// flag names shared by all commands that need a login.
const (
	flagPhoneNo  = "phone-no"
	flagPIN      = "pin"
	flagAppLogin = "applogin"
	flagStore    = "store-credentials"
	flagLocale   = "lang"
)

// AddLoginFlags registers the common login flags on cmd.
func AddLoginFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(flagPhoneNo, "n", "", "account phone number (international format)")
	cmd.Flags().StringP(flagPIN, "p", "", "account pin")
	cmd.Flags().Bool(flagAppLogin, false, "use app login (device key) instead of web login")
	cmd.Flags().Bool(flagStore, false, "store credentials for the next run")
	cmd.Flags().StringP(flagLocale, "l", "en", "two letter language code")
}

// OptionsFromFlags builds Options from the flags registered by
// AddLoginFlags.
func OptionsFromFlags(cmd *cobra.Command) Options {
	phoneNo, _ := cmd.Flags().GetString(flagPhoneNo)
	pin, _ := cmd.Flags().GetString(flagPIN)
	appLogin, _ := cmd.Flags().GetBool(flagAppLogin)
	store, _ := cmd.Flags().GetBool(flagStore)
	locale, _ := cmd.Flags().GetString(flagLocale)
	return Options{
		PhoneNo:  phoneNo,
		PIN:      pin,
		Locale:   locale,
		AppLogin: appLogin,
		Store:    store,
	}
}

// Login resolves credentials, resumes a stored session if possible and
// otherwise runs the 2FA flow. The returned client is ready for
// subscriptions.
func Login(ctx context.Context, opts Options) (*api.Client, error) {
	dir := opts.Dir
	if dir == "" {
		dir = utils.ConfigDir()
	}

	if opts.PhoneNo == "" || opts.PIN == "" {
		settings, err := utils.LoadSettings(dir)
		switch {
		case err == nil:
			if opts.PhoneNo == "" {
				opts.PhoneNo = settings.PhoneNo
			}
			if opts.PIN == "" {
				opts.PIN = settings.PIN
			}
		case errors.Is(err, os.ErrNotExist):
			if err := promptCredentials(&opts); err != nil {
				return nil, err
			}
			if opts.Store {
				s := &utils.Settings{PhoneNo: opts.PhoneNo, PIN: opts.PIN, Locale: opts.Locale}
				if err := s.Save(dir); err != nil {
					return nil, err
				}
			}
		default:
			return nil, err
		}
	}

	client, err := api.NewClient(api.Config{
		PhoneNo: opts.PhoneNo,
		PIN:     opts.PIN,
		Locale:  opts.Locale,
		Web:     !opts.AppLogin,
		Dir:     dir,
	})
	if err != nil {
		return nil, err
	}

	if err := client.ResumeSession(ctx); err == nil {
		log.Debug("resumed stored session")
		return client, nil
	} else if !errors.Is(err, api.ErrNoSession) {
		return nil, err
	}

	countdown, err := client.InitiateLogin(ctx)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	code, err := promptCode(countdown)
	if err != nil {
		return nil, err
	}
	if err := client.CompleteLogin(ctx, code); err != nil {
		return nil, fmt.Errorf("2fa code rejected: %w", err)
	}
	log.Info("logged in")
	return client, nil
}

func promptCredentials(opts *Options) error {
	rl, err := readline.New("Phone number (international format): ")
	if err != nil {
		return err
	}
	defer rl.Close()

	if opts.PhoneNo == "" {
		line, err := rl.Readline()
		if err != nil {
			return err
		}
		opts.PhoneNo = strings.TrimSpace(line)
	}
	if !strings.HasPrefix(opts.PhoneNo, "+") {
		return fmt.Errorf("phone number %q not in international format (+49...)", opts.PhoneNo)
	}
	if opts.PIN == "" {
		pin, err := rl.ReadPassword("PIN: ")
		if err != nil {
			return err
		}
		opts.PIN = strings.TrimSpace(string(pin))
	}
	return nil
}

func promptCode(countdown int) (string, error) {
	prompt := "Enter the SMS code: "
	if countdown > 0 {
		prompt = fmt.Sprintf("Enter the SMS code (valid for %ds): ", countdown)
	}
	rl, err := readline.New(prompt)
	if err != nil {
		return "", err
	}
	defer rl.Close()
	line, err := rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
