// Package engine implements the Action Executor (§4.E) and Validator
// (§4.F): the two components that drive plans against a live store.Client
// and report their outcome.
package engine

import (
	"fmt"

	"github.com/genesis-community/genesis/planset"
	"github.com/genesis-community/genesis/report"
	"github.com/genesis-community/genesis/store"
)

// Action names the four verbs the executor drives.
type Action string

const (
	Add      Action = "add"
	Recreate Action = "recreate"
	Renew    Action = "renew"
	Remove   Action = "remove"
)

// Options tunes a Run call.
type Options struct {
	Interactive bool
	NoPrompt    bool
	// RenewSubject, when set, re-asserts the subject CN during renew
	// (GENESIS_RENEW_SUBJECT).
	RenewSubject string
}

// Result tallies a completed run for the caller and the final `completed`
// event.
type Result struct {
	Succeeded int
	Failed    int
	Skipped   int
	Errors    map[string]error
}

// Executor drives add/recreate/renew/remove for a plan sequence, reporting
// every step through a report.Sink so it never writes to standard streams
// itself (§4.G).
type Executor struct {
	Client *store.Client
	Sink   report.Sink
}

// NewExecutor builds an Executor bound to client and sink.
func NewExecutor(client *store.Client, sink report.Sink) *Executor {
	return &Executor{Client: client, Sink: sink}
}

// Run drives action across plans, linearly (one plan at a time, per §4.E's
// "guaranteed visible to their signees" ordering requirement) and returns
// the aggregate Result once done or aborted.
func (e *Executor) Run(action Action, plans []planset.Plan, opts Options) Result {
	work := e.worklist(action, plans)
	res := Result{Errors: map[string]error{}}

	if len(work) == 0 {
		e.Sink.Empty(fmt.Sprintf("no plans to %s", action))
		return res
	}

	e.Sink.Init(len(work))
	for _, plan := range work {
		item := report.Item{Path: plan.Path(), Action: string(action)}
		e.Sink.StartItem(item)

		outcome, err := e.apply(action, plan, opts)
		item.Detail = outcome
		e.Sink.DoneItem(item, err)

		switch {
		case err == nil && outcome == "skipped":
			res.Skipped++
		case err == nil:
			res.Succeeded++
		case isAbort(err):
			res.Skipped += len(work) - res.Succeeded - res.Failed - res.Skipped
			e.Sink.Abort("aborted by user")
			e.Sink.Completed(res.Succeeded, res.Failed, res.Skipped)
			return res
		default:
			res.Failed++
			res.Errors[plan.Path()] = err
			if !opts.Interactive {
				e.Sink.Completed(res.Succeeded, res.Failed, res.Skipped)
				return res
			}
		}
	}

	e.Sink.Completed(res.Succeeded, res.Failed, res.Skipped)
	return res
}

// worklist filters plans to the ones action actually touches: renew only
// ever sees Renewable plans, and does so silently (§4.E — "all other plan
// types filtered out silently").
func (e *Executor) worklist(action Action, plans []planset.Plan) []planset.Plan {
	if action != Renew {
		return plans
	}
	var out []planset.Plan
	for _, p := range plans {
		if _, ok := p.(planset.Renewable); ok {
			out = append(out, p)
		}
	}
	return out
}

var errAbort = fmt.Errorf("aborted")

func isAbort(err error) bool { return err == errAbort }

func (e *Executor) apply(action Action, plan planset.Plan, opts Options) (string, error) {
	switch action {
	case Add:
		return e.add(plan)
	case Recreate:
		return e.recreate(plan, opts)
	case Renew:
		return e.renew(plan, opts)
	case Remove:
		return e.remove(plan, opts)
	}
	return "", fmt.Errorf("unknown action %q", action)
}

func (e *Executor) add(plan planset.Plan) (string, error) {
	g, ok := plan.(planset.Generatable)
	if !ok {
		return "skipped", nil
	}
	if e.allKeysPresent(plan, g) {
		return "skipped", nil
	}
	if err := g.Generate(e.Client, planset.GenOpts{NoClobber: true, Sink: e.Sink}); err != nil {
		return "", err
	}
	return "generated", nil
}

func (e *Executor) recreate(plan planset.Plan, opts Options) (string, error) {
	g, ok := plan.(planset.Generatable)
	if !ok {
		return "skipped", nil
	}
	if !opts.NoPrompt {
		confirmed, err := e.confirm(plan)
		if err != nil {
			return "", err
		}
		if !confirmed {
			return "skipped", nil
		}
	}
	err := g.Generate(e.Client, planset.GenOpts{NoClobber: plan.Fixed(), Sink: e.Sink})
	if err != nil {
		return "", err
	}
	return "recreated", nil
}

func (e *Executor) renew(plan planset.Plan, opts Options) (string, error) {
	r, ok := plan.(planset.Renewable)
	if !ok {
		return "skipped", nil
	}
	expiry, err := r.Renew(e.Client, opts.RenewSubject)
	if err != nil {
		return "", err
	}
	return "renewed, expires " + expiry, nil
}

func (e *Executor) remove(plan planset.Plan, opts Options) (string, error) {
	rm, ok := plan.(planset.Removable)
	if !ok {
		return "skipped", nil
	}
	if !opts.NoPrompt {
		confirmed, err := e.confirm(plan)
		if err != nil {
			return "", err
		}
		if !confirmed {
			return "skipped", nil
		}
	}
	for _, path := range rm.RemovePaths() {
		if err := e.Client.Delete(path); err != nil {
			return "", err
		}
	}
	return "removed", nil
}

// confirm runs the interactive y/n/q prompt §4.E describes; a non-TTY
// caller that still asked for confirmation gets ErrNoTTY surfaced by the
// sink's InlinePrompt implementation.
func (e *Executor) confirm(plan planset.Plan) (bool, error) {
	key, err := e.Sink.InlinePrompt(fmt.Sprintf("%s? [y/n/q] ", plan.Path()))
	if err != nil {
		return false, err
	}
	switch key {
	case 'y', 'Y':
		return true, nil
	case 'q', 'Q':
		return false, errAbort
	default:
		return false, nil
	}
}

// allKeysPresent checks whether every key g expects already exists at
// plan's base path, the idempotence short-circuit `add` applies to
// `provided` plans (§4.E) and, by extension, to every other Generatable
// kind.
func (e *Executor) allKeysPresent(plan planset.Plan, g planset.Generatable) bool {
	path := basePath(plan)
	for _, k := range g.ExpectedKeys() {
		if !e.Client.Has(path, k) {
			return false
		}
	}
	return true
}

// basePath strips the ":key" suffix plans in P:K notation carry, since
// ExpectedKeys already names the bare keys under it.
func basePath(plan planset.Plan) string {
	switch plan.Kind() {
	case planset.KindProvided, planset.KindRandom, planset.KindUUID:
		path, _ := store.ParsePath(plan.Path())
		return path
	default:
		return plan.Path()
	}
}
