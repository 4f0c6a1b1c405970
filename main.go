package main

import (
	"os"
	"strings"

	fmt "github.com/jhunt/go-ansi"
	"github.com/jhunt/go-cli"
	env "github.com/jhunt/go-envirotron"

	"github.com/genesis-community/genesis/app"
	"github.com/genesis-community/genesis/cmd"
)

// Version is set at build time via -ldflags.
var Version string

func main() {
	opt := cmd.NewOptions()

	go app.TrapSignals()

	r := app.NewRunner()
	cmd.RegisterAll(r, opt, Version)

	env.Override(opt)
	p, err := cli.NewParser(opt, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "@R{!! %s}\n", err)
		os.Exit(1)
	}

	if opt.Version {
		r.Execute("version")
		return
	}
	if opt.Help {
		r.Execute("help")
		return
	}

	for p.Next() {
		if opt.Version {
			r.Execute("version")
			return
		}
		if p.Command == "" {
			r.Execute("help")
			return
		}
		if opt.Help {
			r.Execute("help", p.Command)
			continue
		}

		os.Unsetenv("GENESIS_STORE_SKIP_VERIFY")
		if opt.Insecure {
			os.Setenv("GENESIS_STORE_SKIP_VERIFY", "1")
		}

		if err := r.Execute(p.Command, p.Args...); err != nil {
			if strings.HasPrefix(err.Error(), "USAGE") {
				fmt.Fprintf(os.Stderr, "@Y{%s}\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "@R{!! %s}\n", err)
			}
			os.Exit(1)
		}
	}

	if p.Command == "" {
		r.Execute("help")
	}

	if err := p.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "@R{!! %s}\n", err)
		os.Exit(2)
	}
}
