package cmd

import (
	"encoding/json"
	"os"

	fmt "github.com/jhunt/go-ansi"

	"github.com/genesis-community/genesis/app"
	"github.com/genesis-community/genesis/engine"
	"github.com/genesis-community/genesis/filter"
	"github.com/genesis-community/genesis/planset"
	"github.com/genesis-community/genesis/report"
	"github.com/genesis-community/genesis/resolve"
)

// resolvedPlans loads the kit metadata, parses it for the active feature
// set, runs the dependency resolver, and narrows the result to the
// filter expressions in args (§4.B-§4.D, end to end).
func resolvedPlans(opt *Options, args []string) ([]planset.Plan, error) {
	meta, err := loadMetadata(opt.Kit)
	if err != nil {
		return nil, fmt.Errorf("could not read kit metadata from %s: %s", opt.Kit, err)
	}

	ps := planset.Parse(meta, opt.Feature, planset.ParseOpts{Validate: true})
	ps = resolve.Resolve(ps, opt.RootCA)

	f, err := filter.Parse(args)
	if err != nil {
		return nil, err
	}
	return f.Select(ps).Plans(), nil
}

func reportErrorPlans(plans []planset.Plan) {
	for _, p := range plans {
		if ep, ok := p.(*planset.ErrorPlan); ok {
			fmt.Fprintf(os.Stderr, "@R{!! %s: %s}\n", ep.Path(), ep.Describe()["error"])
		}
	}
}

func exitForResult(res engine.Result) {
	if res.Failed > 0 {
		os.Exit(1)
	}
}

// renderValidationReport prints rep to stdout for a human reader, applying
// GENESIS_HIDE_PROBLEMATIC_SECRETS at this render step only — the Report
// Validate returned always carries every check, so --json output (and any
// other consumer of the structured Report) never loses data to this flag.
func renderValidationReport(rep engine.Report, hideProblematic bool) {
	for _, result := range rep.Results {
		fmt.Printf("@W{%s}  @C{%s}\n", result.Path, result.Outcome)
		for _, c := range engine.FilterChecks(result.Checks, hideProblematic) {
			switch c.Outcome {
			case planset.OutcomeWarn:
				fmt.Printf("  @Y{%s}: %s", c.Name, c.Outcome)
			case planset.OutcomeMissing, planset.OutcomeError:
				fmt.Printf("  @R{%s}: %s", c.Name, c.Outcome)
			default:
				fmt.Printf("  @G{%s}: %s", c.Name, c.Outcome)
			}
			if c.Detail != "" {
				fmt.Printf(" @K{(%s)}", c.Detail)
			}
			fmt.Printf("\n")
		}
	}
}

func registerLifecycleCommands(r *app.Runner, opt *Options) {
	r.Dispatch("add", &app.Help{
		Summary: "Generate any declared secrets that don't already exist",
		Usage:   "genesis add [-f FILTER ...]",
		Type:    app.DestructiveCommand,
		Description: `
Walks the kit's declared secrets, resolving x509 signing order, and
generates any that are missing from the store. Existing secrets are left
untouched — add is idempotent by contract.
`,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		plans, err := resolvedPlans(opt, args)
		if err != nil {
			return err
		}
		reportErrorPlans(plans)

		client := app.Connect(true)
		sink := report.NewTerminalSink()
		exec := engine.NewExecutor(client, sink)
		res := exec.Run(engine.Add, plans, engine.Options{Interactive: !opt.Add.NoPrompt, NoPrompt: opt.Add.NoPrompt})
		exitForResult(res)
		return nil
	})

	r.Dispatch("recreate", &app.Help{
		Summary: "Regenerate declared secrets, preserving fixed values",
		Usage:   "genesis recreate [-f FILTER ...]",
		Type:    app.DestructiveCommand,
		Description: `
Like add, but overwrites existing secrets unless they're declared fixed,
in which case the stored value is left unchanged.
`,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		plans, err := resolvedPlans(opt, args)
		if err != nil {
			return err
		}
		reportErrorPlans(plans)

		client := app.Connect(true)
		sink := report.NewTerminalSink()
		exec := engine.NewExecutor(client, sink)
		res := exec.Run(engine.Recreate, plans, engine.Options{Interactive: !opt.Recreate.NoPrompt, NoPrompt: opt.Recreate.NoPrompt})
		exitForResult(res)
		return nil
	})

	r.Dispatch("renew", &app.Help{
		Summary: "Renew x509 certificates in place",
		Usage:   "genesis renew [-f FILTER ...] [-s SUBJECT]",
		Type:    app.DestructiveCommand,
		Description: `
Only touches Renewable plans (x509 certificates); every other declared
secret kind is silently skipped.
`,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		plans, err := resolvedPlans(opt, args)
		if err != nil {
			return err
		}
		reportErrorPlans(plans)

		subject := opt.Renew.Subject
		if subject == "" {
			subject = os.Getenv("GENESIS_RENEW_SUBJECT")
		}

		client := app.Connect(true)
		sink := report.NewTerminalSink()
		exec := engine.NewExecutor(client, sink)
		res := exec.Run(engine.Renew, plans, engine.Options{
			Interactive:  !opt.Renew.NoPrompt,
			NoPrompt:     opt.Renew.NoPrompt,
			RenewSubject: subject,
		})
		exitForResult(res)
		return nil
	})

	r.Dispatch("remove", &app.Help{
		Summary: "Delete declared secrets from the store",
		Usage:   "genesis remove [-f FILTER ...]",
		Type:    app.DestructiveCommand,
		Description: `
Removes every matched plan's secret from the store. Missing paths are
tolerated, not an error.
`,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		plans, err := resolvedPlans(opt, args)
		if err != nil {
			return err
		}
		reportErrorPlans(plans)

		client := app.Connect(true)
		sink := report.NewTerminalSink()
		exec := engine.NewExecutor(client, sink)
		res := exec.Run(engine.Remove, plans, engine.Options{Interactive: !opt.Remove.NoPrompt, NoPrompt: opt.Remove.NoPrompt})
		exitForResult(res)
		return nil
	})

	r.Dispatch("validate", &app.Help{
		Summary: "Check declared secrets against their invariants",
		Usage:   "genesis validate [-f FILTER ...] [--json]",
		Type:    app.NonDestructiveCommand,
		Description: `
Exports the matched plans' secrets once, then checks each one's
declared invariants (key agreement, CA chain, size, format). The run
exits 1 if any plan's worst check is 'error'.
`,
	}, func(command string, args ...string) error {
		applyTarget(opt.UseTarget)
		plans, err := resolvedPlans(opt, args)
		if err != nil {
			return err
		}
		reportErrorPlans(plans)

		client := app.Connect(true)
		paths := make([]string, 0, len(plans))
		for _, p := range plans {
			paths = append(paths, p.Path())
		}

		sink := report.NewTerminalSink()
		sink.Wait(len(paths))
		snap, err := client.Export(paths...)
		sink.WaitDone()
		if err != nil {
			return err
		}

		v := engine.NewValidator(sink)
		rep := v.Validate(plans, snap)

		if opt.Validate.JSON {
			b, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", string(b))
		} else {
			switch rep.Worst() {
			case planset.OutcomeError:
				sink.Notify(report.Error, "one or more plans failed validation")
			case planset.OutcomeMissing:
				sink.Notify(report.Warn, "one or more plans are missing declared secrets")
			case planset.OutcomeWarn:
				sink.Notify(report.Warn, "one or more plans raised non-fatal warnings")
			}
			renderValidationReport(rep, opt.Validate.HideProblematic)
		}
		if rep.Worst() == planset.OutcomeError {
			os.Exit(1)
		}
		return nil
	})

	r.Dispatch("paths", &app.Help{
		Summary: "List the paths of declared secrets",
		Usage:   "genesis paths [-f FILTER ...] [--json]",
		Type:    app.NonDestructiveCommand,
	}, func(command string, args ...string) error {
		plans, err := resolvedPlans(opt, args)
		if err != nil {
			return err
		}
		reportErrorPlans(plans)

		paths := make([]string, 0, len(plans))
		for _, p := range plans {
			paths = append(paths, p.Path())
		}

		if opt.Paths.JSON {
			b, err := json.MarshalIndent(paths, "", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", string(b))
			return nil
		}
		for _, p := range paths {
			fmt.Printf("%s\n", p)
		}
		return nil
	})
}
