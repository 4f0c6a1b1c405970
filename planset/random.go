package planset

import (
	"fmt"
	"strings"

	"github.com/genesis-community/genesis/store"
)

// RandomPlan is the `random <N> [fmt <F> [at <K>]] [allowed-chars <S>]
// [fixed]` cred-line kind. Its Path is always the "P:K" notation (§3).
type RandomPlan struct {
	BasePath    string
	Key         string
	Size        int
	Format      string
	Destination string
	ValidChars  string
	fixed       bool
}

func (p *RandomPlan) Path() string { return store.EncodePath(p.BasePath, p.Key) }
func (p *RandomPlan) Kind() Kind   { return KindRandom }
func (p *RandomPlan) Fixed() bool  { return p.fixed }

func (p *RandomPlan) Describe() map[string]interface{} {
	return map[string]interface{}{
		"path":        p.Path(),
		"type":        string(KindRandom),
		"size":        p.Size,
		"format":      p.Format,
		"destination": p.destinationKey(),
		"valid_chars": p.ValidChars,
		"fixed":       p.fixed,
	}
}

func (p *RandomPlan) ExpectedKeys() []string {
	keys := []string{p.Key}
	if p.Format != "" {
		keys = append(keys, p.destinationKey())
	}
	return keys
}

// destinationKey resolves the formatted sibling's key name: the explicit
// `at <K>` destination if given, else "<key>-<format>" (§4.E's `remove`
// rule and §4.F's expected-keys rule both reuse this).
func (p *RandomPlan) destinationKey() string {
	if p.Format == "" {
		return ""
	}
	if p.Destination != "" {
		return p.Destination
	}
	return p.Key + "-" + p.Format
}

func (p *RandomPlan) Generate(c *store.Client, opts GenOpts) error {
	if err := c.GenRandom(p.BasePath, p.Key, p.Size, p.ValidChars, opts.NoClobber); err != nil {
		return err
	}
	if p.Format == "" {
		return nil
	}
	v, err := c.Get(p.BasePath)
	if err != nil {
		return err
	}
	if err := v.Format(p.Key, p.destinationKey(), p.Format, opts.NoClobber); err != nil {
		return err
	}
	return c.Set(p.BasePath, p.destinationKey(), v.Get(p.destinationKey()), store.SetOpts{SkipIfExists: opts.NoClobber})
}

// RemovePaths deletes both P:K and, when a format destination exists, its
// formatted sibling, matching §4.E's `remove` rule and end-to-end scenario 6.
func (p *RandomPlan) RemovePaths() []string {
	paths := []string{store.EncodePath(p.BasePath, p.Key)}
	if p.Format != "" {
		paths = append(paths, store.EncodePath(p.BasePath, p.destinationKey()))
	}
	return paths
}

// Validate implements Validatable (§4.F): the string's length matches the
// declared size, every character lies in valid_chars when declared, and
// the formatted sibling exists when a format was declared.
func (p *RandomPlan) Validate(snap store.Snapshot) []Check {
	values := snap[p.BasePath]
	if values == nil || !values.Has(p.Key) {
		return []Check{{Name: "existence", Outcome: OutcomeMissing, Detail: "no value found at " + p.Path()}}
	}

	var checks []Check
	raw := values.Get(p.Key)
	if len(raw) != p.Size {
		checks = append(checks, Check{Name: "size", Outcome: OutcomeWarn, Detail: fmt.Sprintf("value is %d characters, declared %d", len(raw), p.Size)})
	} else {
		checks = append(checks, Check{Name: "size", Outcome: OutcomeOK})
	}

	if p.ValidChars != "" {
		allowed := expandCharRanges(p.ValidChars)
		if strings.IndexFunc(raw, func(r rune) bool { return !strings.ContainsRune(allowed, r) }) >= 0 {
			checks = append(checks, Check{Name: "alphabet", Outcome: OutcomeError, Detail: "value contains characters outside valid_chars"})
		} else {
			checks = append(checks, Check{Name: "alphabet", Outcome: OutcomeOK})
		}
	}

	if p.Format != "" {
		if values.Has(p.destinationKey()) {
			checks = append(checks, Check{Name: "formatted_sibling", Outcome: OutcomeOK})
		} else {
			checks = append(checks, Check{Name: "formatted_sibling", Outcome: OutcomeMissing, Detail: "formatted sibling " + p.destinationKey() + " not found"})
		}
	}

	return checks
}

// expandCharRanges mirrors the store's own policy-string expansion
// (`a-zA-Z0-9`-style ranges) so the validator can check alphabet
// membership without the store's --no-clobber-write path.
func expandCharRanges(policy string) string {
	var out []rune
	runes := []rune(policy)
	for i := 0; i < len(runes); i++ {
		if i+2 < len(runes) && runes[i+1] == '-' {
			for c := runes[i]; c <= runes[i+2]; c++ {
				out = append(out, c)
			}
			i += 2
			continue
		}
		out = append(out, runes[i])
	}
	return string(out)
}
