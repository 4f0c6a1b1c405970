package store

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
)

// Config pins everything a Client needs to target one secret store: the
// store's own network address plus however the external CLI authenticates
// to it. It deliberately carries no ambient/global state — every Client
// built from a Config is independently addressable, replacing the
// teacher's module-level `@current_vault` idiom with an explicit value.
type Config struct {
	// URL is the store's base address, e.g. "https://vault.example.com:8200".
	URL string
	// Binary is the external secret CLI to invoke. Defaults to "safe".
	Binary string
	// Token, RoleID/SecretID, Username/Password, GithubToken mirror the
	// auth variables §6 lists, tried by the caller in that order; Client
	// does not choose between them, it just forwards whichever is set.
	Token       string
	RoleID      string
	SecretID    string
	Username    string
	Password    string
	GithubToken string
	SkipVerify  bool
}

// Client drives an external secret-CLI subprocess. It never shells out
// through a composed string — every call builds an argv slice and invokes
// it directly, per the Design Notes' guidance against shell interpolation.
type Client struct {
	cfg Config
	url *url.URL
}

// NewClient validates and normalizes cfg, defaulting the binary to "safe"
// and the URL's port the way the teacher's NewVault defaults Vault's port
// when the caller's URL omits one.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Binary == "" {
		cfg.Binary = "safe"
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("store: no target URL configured")
	}
	u, err := url.Parse(strings.TrimSuffix(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("store: could not parse target URL: %s", err)
	}
	if u.Port() == "" {
		port := ":80"
		if strings.EqualFold(u.Scheme, "https") {
			port = ":443"
		}
		u.Host = u.Host + port
	}
	return &Client{cfg: cfg, url: u}, nil
}

// URL returns the normalized target address this client pins every call to.
func (c *Client) URL() string {
	return c.url.String()
}

func shouldDebug() bool {
	return os.Getenv("GENESIS_DEBUG") != "" || os.Getenv("DEBUG") != ""
}

// env builds the child process's complete environment — never the
// inherited ambient env — forcing VAULT_ADDR and the configured auth
// variables explicitly and omitting DEBUG/SAFE_DEBUG so the external CLI
// never emits its own trace output onto genesis's captured streams.
func (c *Client) env() []string {
	keep := map[string]bool{
		"PATH": true, "HOME": true, "TMPDIR": true, "TERM": true,
	}
	var out []string
	for _, kv := range os.Environ() {
		k := strings.SplitN(kv, "=", 2)[0]
		if keep[k] {
			out = append(out, kv)
		}
	}
	out = append(out, "VAULT_ADDR="+c.url.String())
	out = append(out, "SAFE_TARGET="+c.url.String())
	if c.cfg.Token != "" {
		out = append(out, "VAULT_AUTH_TOKEN="+c.cfg.Token)
	}
	if c.cfg.RoleID != "" {
		out = append(out, "VAULT_ROLE_ID="+c.cfg.RoleID)
	}
	if c.cfg.SecretID != "" {
		out = append(out, "VAULT_SECRET_ID="+c.cfg.SecretID)
	}
	if c.cfg.Username != "" {
		out = append(out, "VAULT_USERNAME="+c.cfg.Username)
	}
	if c.cfg.Password != "" {
		out = append(out, "VAULT_PASSWORD="+c.cfg.Password)
	}
	if c.cfg.GithubToken != "" {
		out = append(out, "VAULT_GITHUB_TOKEN="+c.cfg.GithubToken)
	}
	if c.cfg.SkipVerify {
		out = append(out, "VAULT_SKIP_VERIFY=1")
	}
	return out
}

// Run invokes the external CLI with argv, never a composed shell string,
// and captures its structured result — the typed `run` primitive §4.A asks
// for.
func (c *Client) Run(args ...string) (stdout, stderr string, rc int, err error) {
	cmd := exec.Command(c.cfg.Binary, args...)
	cmd.Env = c.env()

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if shouldDebug() {
		fmt.Fprintf(os.Stderr, "+ %s %s\n", c.cfg.Binary, strings.Join(args, " "))
	}

	runErr := cmd.Run()
	stdout, stderr = outBuf.String(), errBuf.String()

	if exitErr, ok := runErr.(*exec.ExitError); ok {
		return stdout, stderr, exitErr.ExitCode(), nil
	}
	if runErr != nil {
		return stdout, stderr, -1, NewStoreError(Protocol, "failed to invoke "+c.cfg.Binary, runErr)
	}
	return stdout, stderr, 0, nil
}
