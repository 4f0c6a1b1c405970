package engine

import (
	"sort"

	"github.com/genesis-community/genesis/planset"
	"github.com/genesis-community/genesis/report"
	"github.com/genesis-community/genesis/store"
)

// PlanResult is one plan's aggregated validation outcome: the worst of its
// individual Checks (§4.F).
type PlanResult struct {
	Path    string
	Outcome planset.Outcome
	Checks  []planset.Check
}

// Report is a completed Validate run: one PlanResult per plan, sorted by
// plan path.
type Report struct {
	Results []PlanResult
}

// Worst returns the report's overall outcome, the worst across every plan.
func (r Report) Worst() planset.Outcome {
	worst := planset.OutcomeOK
	for _, res := range r.Results {
		if severity(res.Outcome) > severity(worst) {
			worst = res.Outcome
		}
	}
	return worst
}

var severityOrder = map[planset.Outcome]int{
	planset.OutcomeOK:      0,
	planset.OutcomeWarn:    1,
	planset.OutcomeMissing: 2,
	planset.OutcomeError:   3,
}

func severity(o planset.Outcome) int { return severityOrder[o] }

// Validator reads a SecretSnapshot once and checks each plan's invariants
// against it (§4.F).
type Validator struct {
	Sink report.Sink
}

// NewValidator builds a Validator bound to sink.
func NewValidator(sink report.Sink) *Validator {
	return &Validator{Sink: sink}
}

// Validate checks every plan against snap, reporting per-item progress
// through the sink exactly as the executor does.
func (v *Validator) Validate(plans []planset.Plan, snap store.Snapshot) Report {
	rep := Report{}
	if len(plans) == 0 {
		v.Sink.Empty("no plans to validate")
		return rep
	}

	v.Sink.Init(len(plans))
	var ok, warn int
	for _, plan := range plans {
		item := report.Item{Path: plan.Path(), Action: "validate"}
		v.Sink.StartItem(item)

		checks := v.checksFor(plan, snap)
		outcome := worstOf(checks)
		result := PlanResult{Path: plan.Path(), Outcome: outcome, Checks: checks}
		rep.Results = append(rep.Results, result)

		var err error
		if outcome == planset.OutcomeError || outcome == planset.OutcomeMissing {
			err = &validationError{outcome: outcome}
		}
		item.Detail = string(outcome)
		v.Sink.DoneItem(item, err)

		switch outcome {
		case planset.OutcomeOK:
			ok++
		case planset.OutcomeWarn:
			warn++
		}
	}

	sort.Slice(rep.Results, func(i, j int) bool { return rep.Results[i].Path < rep.Results[j].Path })
	// Completed's (succeeded, failed, skipped) vocabulary is the executor's;
	// reused here as (ok, error|missing, warn).
	v.Sink.Completed(ok, len(plans)-ok-warn, warn)
	return rep
}

func (v *Validator) checksFor(plan planset.Plan, snap store.Snapshot) []planset.Check {
	validatable, ok := plan.(planset.Validatable)
	if !ok {
		return []planset.Check{{Name: "validate", Outcome: planset.OutcomeWarn, Detail: "plan kind has no declared invariants to check"}}
	}
	return validatable.Validate(snap)
}

// FilterChecks drops a PlanResult's better-than-worst check notes for
// display when hide is set (GENESIS_HIDE_PROBLEMATIC_SECRETS) — applied at
// render time only, so the structured Report Validate returns always
// carries every check a consuming script might need.
func FilterChecks(checks []planset.Check, hide bool) []planset.Check {
	worst := worstOf(checks)
	if !hide || worst == planset.OutcomeOK {
		return checks
	}
	var out []planset.Check
	for _, c := range checks {
		if severity(c.Outcome) >= severity(worst) {
			out = append(out, c)
		}
	}
	return out
}

func worstOf(checks []planset.Check) planset.Outcome {
	worst := planset.OutcomeOK
	for _, c := range checks {
		if severity(c.Outcome) > severity(worst) {
			worst = c.Outcome
		}
	}
	return worst
}

type validationError struct {
	outcome planset.Outcome
}

func (e *validationError) Error() string { return "validation outcome: " + string(e.outcome) }
