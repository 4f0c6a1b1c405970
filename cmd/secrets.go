package cmd

import (
	fmt "github.com/jhunt/go-ansi"

	"github.com/genesis-community/genesis/app"
	"github.com/genesis-community/genesis/store"
)

// registerSecretCommands wires the teacher's raw get/set/delete CRUD
// surface: operations against arbitrary store paths, independent of
// anything a kit declares.
func registerSecretCommands(r *app.Runner, opt *Options) {
	r.Dispatch("get", &app.Help{
		Summary: "Read a secret, or one key of it",
		Usage:   "genesis get PATH[:KEY]",
		Type:    app.NonDestructiveCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		if len(args) != 1 {
			r.ExitWithUsage("get")
		}

		client := app.Connect(true)
		path, key := store.ParsePath(args[0])
		if key != "" {
			v, err := client.GetKey(path, key)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", v)
			return nil
		}

		v, err := client.Get(path)
		if err != nil {
			return err
		}
		fmt.Printf("%s", v.YAML())
		return nil
	})

	r.Dispatch("set", &app.Help{
		Summary: "Write one or more key=value pairs to a secret",
		Usage:   "genesis set PATH KEY=VALUE [KEY=VALUE ...]",
		Type:    app.DestructiveCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		if len(args) < 2 {
			r.ExitWithUsage("set")
		}

		client := app.Connect(true)
		path := args[0]
		for _, kv := range args[1:] {
			key, value, prompt, err := app.ParseKeyVal(kv, opt.Quiet)
			if err != nil {
				return err
			}
			if prompt {
				return fmt.Errorf("interactive value prompts require a controlling terminal; pass KEY=VALUE instead")
			}
			if err := client.Set(path, key, value, store.SetOpts{SkipIfExists: !opt.Clobber}); err != nil {
				return err
			}
		}
		return nil
	})

	r.Dispatch("delete", &app.Help{
		Summary: "Delete a secret",
		Usage:   "genesis delete PATH",
		Type:    app.DestructiveCommand,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		if len(args) != 1 {
			r.ExitWithUsage("delete")
		}
		client := app.Connect(true)
		return client.Delete(args[0])
	})
}
