package planset

import (
	"errors"

	"github.com/genesis-community/genesis/store"
)

// ProvidedPlan is one key of a `provided[feature][path].keys` submap — generic
// user-supplied input (§3, §4.B). Its Path is always "P:K" notation.
type ProvidedPlan struct {
	BasePath  string
	Key       string
	Subtype   string
	Sensitive bool
	Multiline bool
	Prompt    string
	fixed     bool
}

func (p *ProvidedPlan) Path() string { return store.EncodePath(p.BasePath, p.Key) }
func (p *ProvidedPlan) Kind() Kind   { return KindProvided }
func (p *ProvidedPlan) Fixed() bool  { return p.fixed }

func (p *ProvidedPlan) Describe() map[string]interface{} {
	return map[string]interface{}{
		"path":      p.Path(),
		"type":      string(KindProvided),
		"subtype":   p.Subtype,
		"sensitive": p.Sensitive,
		"multiline": p.Multiline,
		"prompt":    p.Prompt,
		"fixed":     p.fixed,
	}
}

func (p *ProvidedPlan) ExpectedKeys() []string { return []string{p.Key} }

// Generate asks the executor's progress sink for the value (the sink owns
// the actual terminal interaction, per §4.E/§4.G's rule that the executor
// never touches standard streams directly) and stores it with a plain
// `set`. Sensitive and Multiline are not consulted here: every value is
// one line read through Sink.Prompt, with no hidden entry and no
// multiline file capture.
func (p *ProvidedPlan) Generate(c *store.Client, opts GenOpts) error {
	if opts.Sink == nil {
		return errors.New("provided plan requires an interactive progress sink")
	}
	question := p.Prompt
	if question == "" {
		question = p.Key + ": "
	}
	value, err := opts.Sink.Prompt(question)
	if err != nil {
		return err
	}
	return c.Set(p.BasePath, p.Key, value, store.SetOpts{SkipIfExists: opts.NoClobber})
}

func (p *ProvidedPlan) RemovePaths() []string {
	return []string{store.EncodePath(p.BasePath, p.Key)}
}

// Validate implements Validatable (§4.F): provided secrets carry no shape
// of their own, so the only thing to check is that a value was actually
// captured.
func (p *ProvidedPlan) Validate(snap store.Snapshot) []Check {
	values := snap[p.BasePath]
	if values == nil || !values.Has(p.Key) {
		return []Check{{Name: "existence", Outcome: OutcomeMissing, Detail: "no value found at " + p.Path()}}
	}
	return []Check{{Name: "existence", Outcome: OutcomeOK}}
}
