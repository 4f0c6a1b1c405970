package cmd

import (
	"os"

	fmt "github.com/jhunt/go-ansi"

	"github.com/genesis-community/genesis/app"
	"github.com/genesis-community/genesis/rc"
)

func registerAuthCommands(r *app.Runner, opt *Options) {
	r.Dispatch("auth", &app.Help{
		Summary: "Authenticate to the current target",
		Usage:   "genesis auth --token TOKEN | --role-id ID --secret-id ID | --username USER",
		Type:    app.AdministrativeCommand,
		Description: `
genesis never talks to the store's auth API directly: a --token is
saved for the current target in ~/.genesisrc, while role-id/secret-id,
username and github-token credentials are only exported as
GENESIS_STORE_* variables for this invocation and are not saved. The
actual login exchange is left to the external store CLI, the same way
every other verb shells out rather than reimplementing the store's
protocol.
`,
	}, func(command string, args ...string) error {
		cfg := rc.Read()
		if cfg.Current == "" {
			return fmt.Errorf("No target selected; try 'genesis target'")
		}

		token := opt.Auth.Token
		switch {
		case token != "":
		case opt.Auth.RoleID != "" && opt.Auth.SecretID != "":
			os.Setenv("GENESIS_STORE_ROLE_ID", opt.Auth.RoleID)
			os.Setenv("GENESIS_STORE_SECRET_ID", opt.Auth.SecretID)
		case opt.Auth.Username != "":
			os.Setenv("GENESIS_STORE_USERNAME", opt.Auth.Username)
		case opt.Auth.GithubToken != "":
			os.Setenv("GENESIS_STORE_GITHUB_TOKEN", opt.Auth.GithubToken)
		default:
			r.ExitWithUsage("auth")
		}

		if token != "" {
			if err := cfg.SetToken(token); err != nil {
				return err
			}
			if err := cfg.Write(); err != nil {
				return err
			}
		}

		client := app.Connect(true)
		who := app.WhoAmIFor(client)
		fmt.Printf("%s", who.String())
		return nil
	})

	r.Dispatch("logout", &app.Help{
		Summary: "Forget the current target's saved token",
		Usage:   "genesis logout",
		Type:    app.DestructiveCommand,
	}, func(command string, args ...string) error {
		cfg := rc.Read()
		if cfg.Current == "" {
			return nil
		}
		if t, ok := cfg.Targets[cfg.Current]; ok {
			t.Token = ""
		}
		return cfg.Write()
	})
}
