// Package planset implements the Plan Parser: it turns a kit's merged
// metadata for an active feature set into a flat, ordered map of
// path -> Plan, capturing every parse failure as an `error` plan instead
// of aborting (§4.B).
package planset

import (
	"github.com/genesis-community/genesis/report"
	"github.com/genesis-community/genesis/store"
)

// Kind tags which concrete secret shape a Plan describes.
type Kind string

const (
	KindX509     Kind = "x509"
	KindRSA      Kind = "rsa"
	KindSSH      Kind = "ssh"
	KindDHParam  Kind = "dhparams"
	KindRandom   Kind = "random"
	KindUUID     Kind = "uuid"
	KindProvided Kind = "provided"
	KindError    Kind = "error"
)

// Outcome is a single check's verdict, the vocabulary §4.F's Validator
// aggregates to a plan-level result.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeWarn    Outcome = "warn"
	OutcomeError   Outcome = "error"
	OutcomeMissing Outcome = "missing"
)

// Check is one named invariant a Validatable plan reports on (size, CN,
// modulus agreement, and so on).
type Check struct {
	Name    string
	Outcome Outcome
	Detail  string
}

// Plan is the capability-set interface every secret kind implements,
// selected by its tagged Kind rather than dispatched on a type-name
// string — the Design Notes' replacement for per-type `_validate_<type>`
// dispatch.
type Plan interface {
	Path() string
	Kind() Kind
	// Fixed reports whether `recreate` must leave this plan's existing
	// value untouched.
	Fixed() bool
	// Describe renders the plan's declared attributes as a structured map,
	// the same hook the filter engine's key=value atoms query and the
	// round-trip parse property re-parses from.
	Describe() map[string]interface{}
}

// GenOpts parameterizes a Generate call.
type GenOpts struct {
	// NoClobber requests --no-clobber style idempotence (the `add` policy).
	NoClobber bool
	// Sink receives prompts for `provided` plans; other kinds ignore it.
	Sink report.Sink
}

// Generatable plans can realize themselves against a store.Client via
// `add`/`recreate`.
type Generatable interface {
	Plan
	ExpectedKeys() []string
	Generate(c *store.Client, opts GenOpts) error
}

// Validatable plans can check their own invariants against the values the
// store actually holds. snap is the full environment snapshot rather than
// just the plan's own path, since an x509 leaf's signage check needs its
// signer's certificate too (§4.F).
type Validatable interface {
	Plan
	Validate(snap store.Snapshot) []Check
}

// Removable plans know every store path/key `remove` must delete,
// including derived siblings (e.g. a random plan's formatted key).
type Removable interface {
	Plan
	RemovePaths() []string
}

// Renewable is implemented only by x509 plans; `renew` filters every other
// kind out silently per §4.E.
type Renewable interface {
	Plan
	Renew(c *store.Client, subject string) (expiry string, err error)
}

// ErrorPlan carries a parse or resolution failure through the pipeline so
// it surfaces in reports instead of aborting the run (§3, §7 BadRequest).
type ErrorPlan struct {
	path  string
	Err   string
}

// NewErrorPlan builds an ErrorPlan for path with the given diagnostic.
func NewErrorPlan(path, message string) *ErrorPlan {
	return &ErrorPlan{path: path, Err: message}
}

func (p *ErrorPlan) Path() string { return p.path }
func (p *ErrorPlan) Kind() Kind   { return KindError }
func (p *ErrorPlan) Fixed() bool  { return false }
func (p *ErrorPlan) Describe() map[string]interface{} {
	return map[string]interface{}{"path": p.path, "type": string(KindError), "error": p.Err}
}
