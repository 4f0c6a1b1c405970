// Package rc persists the set of secret-store targets genesis knows about
// (~/.genesisrc) and tracks which one is current, the same role the
// teacher's .saferc plays for the safe CLI.
package rc

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// Target is one named secret store a user has pointed genesis at.
type Target struct {
	URL        string `yaml:"url"`
	Token      string `yaml:"token,omitempty"`
	SkipVerify bool   `yaml:"skip_verify,omitempty"`
	Namespace  string `yaml:"namespace,omitempty"`
	Binary     string `yaml:"binary,omitempty"`
}

// Config is the full ~/.genesisrc document: every known target plus which
// one is current.
type Config struct {
	Version int                `yaml:"version"`
	Current string             `yaml:"current,omitempty"`
	Targets map[string]*Target `yaml:"targets,omitempty"`
}

func rcPath() string {
	return filepath.Join(os.Getenv("HOME"), ".genesisrc")
}

// Read loads ~/.genesisrc, returning a fresh default Config if it does not
// exist or cannot be parsed, so a first-run caller never has to special-case
// a missing rc file.
func Read() Config {
	c := Config{Version: 1}
	b, err := ioutil.ReadFile(rcPath())
	if err != nil {
		return c
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{Version: 1}
	}
	return c
}

// Write persists c to ~/.genesisrc.
func (c *Config) Write() error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(rcPath(), b, 0600)
}

// SetTarget records alias -> t and makes it current. If alias already
// names a target at the same URL, its token is preserved (re-targeting an
// alias you're already authenticated to shouldn't log you out); a URL
// change clears it, since the token almost certainly doesn't apply to the
// new store.
func (c *Config) SetTarget(alias string, t Target) error {
	if c.Targets == nil {
		c.Targets = map[string]*Target{}
	}
	if existing, ok := c.Targets[alias]; ok && existing.URL == t.URL {
		t.Token = existing.Token
	}
	c.Targets[alias] = &t
	c.Current = alias
	return nil
}

// SetCurrent switches the current target to alias, optionally resetting
// its SkipVerify flag.
func (c *Config) SetCurrent(alias string, reskip bool) error {
	t, ok, err := c.Find(alias)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("Unknown target '%s'", alias)
	}
	if reskip {
		t.SkipVerify = true
	}
	c.Current = alias
	return nil
}

// SetToken sets the auth token on the current target.
func (c *Config) SetToken(token string) error {
	if c.Current == "" {
		return fmt.Errorf("No target selected; cannot set a token")
	}
	t, ok := c.Targets[c.Current]
	if !ok {
		return fmt.Errorf("Unknown target '%s'", c.Current)
	}
	t.Token = token
	return nil
}

// Find resolves aliasOrURL to a target, matching by alias key first and
// then by URL (with a trailing slash tolerated), the same two-step lookup
// `safe target` uses. It errors, rather than guessing, when more than one
// alias shares the URL.
func (c *Config) Find(aliasOrURL string) (*Target, bool, error) {
	if t, ok := c.Targets[aliasOrURL]; ok {
		return t, true, nil
	}
	want := strings.TrimSuffix(aliasOrURL, "/")
	var found *Target
	var matches int
	for _, t := range c.Targets {
		if strings.TrimSuffix(t.URL, "/") == want {
			found = t
			matches++
		}
	}
	if matches > 1 {
		return nil, false, fmt.Errorf("More than one target matches URL '%s'", aliasOrURL)
	}
	if matches == 1 {
		return found, true, nil
	}
	return nil, false, nil
}

// Target returns the named target, or the current one when which is
// empty. A Config with no current target returns (nil, nil) rather than
// an error, since "nothing targeted yet" is routine at startup.
func (c *Config) Target(which string) (*Target, error) {
	if which == "" {
		which = c.Current
	}
	if which == "" {
		return nil, nil
	}
	t, ok, err := c.Find(which)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("target '%s' not found", which)
	}
	return t, nil
}

// URL returns the current target's URL, or "" if none is set.
func (c *Config) URL() string {
	t, err := c.Target("")
	if err != nil || t == nil {
		return ""
	}
	return t.URL
}

// Apply exports which (or the current target, if which is empty) as the
// GENESIS_STORE_* environment variables the rest of the process reads,
// mirroring the teacher's VAULT_ADDR/VAULT_TOKEN exports.
func (c *Config) Apply(which string) error {
	t, err := c.Target(which)
	if err != nil {
		return err
	}
	if t == nil {
		return nil
	}
	os.Setenv("GENESIS_STORE_ADDR", t.URL)
	os.Setenv("GENESIS_STORE_TOKEN", t.Token)
	if t.SkipVerify {
		os.Setenv("GENESIS_STORE_SKIP_VERIFY", "1")
	}
	if t.Namespace != "" {
		os.Setenv("GENESIS_STORE_NAMESPACE", t.Namespace)
	}
	return nil
}

// CurrentTarget is the Read-then-Target("") convenience Connect uses.
func CurrentTarget() (*Target, error) {
	c := Read()
	t, err := c.Target("")
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("no target selected")
	}
	return t, nil
}
