package cmd

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	fmt "github.com/jhunt/go-ansi"

	"github.com/genesis-community/genesis/app"
	"github.com/genesis-community/genesis/rc"
)

func registerTargetCommands(r *app.Runner, opt *Options) {
	r.Dispatch("target", &app.Help{
		Summary: "Show or change the current secret store target",
		Usage:   "genesis target [-k] URL ALIAS | genesis target ALIAS | genesis target",
		Type:    app.AdministrativeCommand,
		Description: `
With no arguments, prints the current target. With one argument, switches
to the named target. With two, records a new target (URL then alias) and
makes it current.
`,
	}, func(command string, args ...string) error {
		cfg := rc.Read()

		if len(args) == 0 {
			t, err := cfg.Target("")
			if err != nil {
				return err
			}
			if t == nil {
				fmt.Fprintf(os.Stderr, "@Y{No target currently selected.}\n")
				return nil
			}
			fmt.Fprintf(os.Stderr, "Currently targeting @C{%s} at @C{%s}\n", cfg.Current, t.URL)
			return nil
		}

		if len(args) == 1 {
			if err := cfg.SetCurrent(args[0], opt.Target.SkipVerify); err != nil {
				return err
			}
			return cfg.Write()
		}

		if len(args) != 2 {
			r.ExitWithUsage("target")
		}

		url, alias := args[0], args[1]
		if err := cfg.SetTarget(alias, rc.Target{URL: url, SkipVerify: opt.Target.SkipVerify}); err != nil {
			return err
		}
		if err := cfg.Write(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Now targeting @C{%s} at @C{%s}\n", alias, url)
		return nil
	})

	r.Dispatch("target delete", &app.Help{
		Summary: "Forget a secret store target",
		Usage:   "genesis target delete ALIAS",
		Type:    app.DestructiveCommand,
	}, func(command string, args ...string) error {
		if len(args) != 1 {
			r.ExitWithUsage("target delete")
		}
		cfg := rc.Read()
		delete(cfg.Targets, args[0])
		if cfg.Current == args[0] {
			cfg.Current = ""
		}
		return cfg.Write()
	})

	r.Dispatch("targets", &app.Help{
		Summary: "List every known secret store target",
		Usage:   "genesis targets",
		Type:    app.AdministrativeCommand,
	}, func(command string, args ...string) error {
		cfg := rc.Read()

		if opt.Targets.JSON {
			type target struct {
				Name   string `json:"name"`
				URL    string `json:"url"`
				Verify bool   `json:"verify"`
			}
			out := make([]target, 0, len(cfg.Targets))
			for name, t := range cfg.Targets {
				out = append(out, target{Name: name, URL: t.URL, Verify: !t.SkipVerify})
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", string(b))
			return nil
		}

		names := make([]string, 0, len(cfg.Targets))
		for name := range cfg.Targets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			t := cfg.Targets[name]
			marker := " "
			if name == cfg.Current {
				marker = "*"
			}
			verify := ""
			if t.SkipVerify {
				verify = " (noverify)"
			}
			fmt.Fprintf(os.Stderr, "%s @G{%s}\t@C{%s}%s\n", marker, name, t.URL, verify)
		}
		return nil
	})

	r.Dispatch("status", &app.Help{
		Summary: "Report the current target's reachability",
		Usage:   "genesis status",
		Type:    app.AdministrativeCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		client := app.Connect(false)
		fmt.Printf("%s\n", client.Status())
		return nil
	})

	r.Dispatch("whoami", &app.Help{
		Summary: "Report what the current target believes you're authenticated as",
		Usage:   "genesis whoami",
		Type:    app.NonDestructiveCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		client := app.Connect(false)
		who := app.WhoAmIFor(client)

		if opt.WhoAmI.JSON {
			b, err := json.Marshal(&who)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", string(b))
			return nil
		}
		fmt.Printf("%s", who.String())
		return nil
	})

	r.Dispatch("store-paths", &app.Help{
		Summary: "List every path currently present in the store",
		Usage:   "genesis store-paths [PREFIX ...]",
		Type:    app.NonDestructiveCommand,
		Description: `
Unlike 'genesis paths', which lists the kit's declared secret paths,
store-paths asks the store itself what's actually present, including
secrets the kit never declared.
`,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		client := app.Connect(true)
		paths, err := client.Paths(args...)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", strings.Join(paths, "\n"))
		return nil
	})

	r.Dispatch("tree", &app.Help{
		Summary: "Print a tree view of the store's paths",
		Usage:   "genesis tree [PREFIX ...]",
		Type:    app.NonDestructiveCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		client := app.Connect(true)
		out, err := client.Tree(args...)
		if err != nil {
			return err
		}
		fmt.Printf("%s", out)
		return nil
	})
}
