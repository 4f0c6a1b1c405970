package cmd

import "github.com/genesis-community/genesis/rc"

// applyTarget exports which (or the current target) as the process's
// GENESIS_STORE_* environment, the cmd-package-local wrapper around
// rc.Config.Apply every verb calls before connecting.
func applyTarget(which string) error {
	cfg := rc.Read()
	return cfg.Apply(which)
}
