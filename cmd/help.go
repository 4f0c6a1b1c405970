package cmd

import (
	"os"
	"strings"

	fmt "github.com/jhunt/go-ansi"

	"github.com/genesis-community/genesis/app"
)

func registerHelpCommands(r *app.Runner, opt *Options, version string) {
	r.Dispatch("version", &app.Help{
		Summary: "Print the version of genesis",
		Usage:   "genesis version",
		Type:    app.AdministrativeCommand,
	}, func(command string, args ...string) error {
		if version != "" {
			fmt.Fprintf(os.Stderr, "genesis v%s\n", version)
		} else {
			fmt.Fprintf(os.Stderr, "genesis (development build)\n")
		}
		return nil
	})

	r.Dispatch("help", nil, func(command string, args ...string) error {
		if len(args) == 0 {
			args = append(args, "commands")
		}
		r.Help(os.Stderr, strings.Join(args, " "))
		return nil
	})

	r.HelpTopic("envvars", `
@G{[TARGETING]}
  @B{GENESIS_STORE_TARGET}  The secret-store alias requests are sent to.
  @B{GENESIS_KIT_METADATA}  Path to the merged kit.yml to parse (default kit.yml).
  @B{GENESIS_ROOT_CA_PATH}  Explicit root CA path for x509 resolution (unset: implicit self-sign).

@G{[AUTHENTICATION]}
  @B{GENESIS_STORE_TOKEN}         A pre-authenticated token for the target.
  @B{GENESIS_STORE_ROLE_ID}       AppRole role_id.
  @B{GENESIS_STORE_SECRET_ID}     AppRole secret_id.
  @B{GENESIS_STORE_USERNAME}      Userpass username.
  @B{GENESIS_STORE_PASSWORD}      Userpass password.
  @B{GENESIS_STORE_GITHUB_TOKEN}  GitHub personal access token.

@G{[LIFECYCLE]}
  @B{GENESIS_RENEW_SUBJECT}             Overrides the subject CN asserted during renew.
  @B{GENESIS_HIDE_PROBLEMATIC_SECRETS}  Suppresses better-than-worst validate notes.
  @B{GENESIS_SAFE_BINARY}               Overrides the external store CLI binary name (default safe).
`)
}
