package app

import (
	"os"

	fmt "github.com/jhunt/go-ansi"

	"github.com/genesis-community/genesis/rc"
	"github.com/genesis-community/genesis/store"
)

// Connect builds a store.Client bound to the currently-targeted store
// (§4.A, §6). When auth is true and no credential of any kind is
// configured, it exits rather than handing the caller a Client doomed to
// fail its first call, matching the teacher's connect-time auth check.
func Connect(auth bool) *store.Client {
	target, err := rc.CurrentTarget()
	if err != nil {
		fmt.Fprintf(os.Stderr, "@R{!! %s}\n", err)
		fmt.Fprintf(os.Stderr, "Try @C{genesis target <url> <alias>}\n")
		os.Exit(1)
	}

	cfg := store.Config{
		URL:         target.URL,
		Binary:      firstNonEmpty(os.Getenv("GENESIS_SAFE_BINARY"), target.Binary),
		Token:       firstNonEmpty(os.Getenv("GENESIS_STORE_TOKEN"), target.Token),
		RoleID:      os.Getenv("GENESIS_STORE_ROLE_ID"),
		SecretID:    os.Getenv("GENESIS_STORE_SECRET_ID"),
		Username:    os.Getenv("GENESIS_STORE_USERNAME"),
		Password:    os.Getenv("GENESIS_STORE_PASSWORD"),
		GithubToken: os.Getenv("GENESIS_STORE_GITHUB_TOKEN"),
		SkipVerify:  target.SkipVerify,
	}

	if auth && cfg.Token == "" && cfg.RoleID == "" && cfg.Username == "" && cfg.GithubToken == "" {
		fmt.Fprintf(os.Stderr, "@R{You are not authenticated to a store.}\n")
		fmt.Fprintf(os.Stderr, "Try @C{genesis auth}\n")
		os.Exit(1)
	}

	c, err := store.NewClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "@R{!! %s}\n", err)
		os.Exit(1)
	}
	return c
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
