// Package filter implements the Path-Filter Engine (§4.D): it narrows a
// PlanSet by a list of user-supplied filter elements, each either a
// literal path or a `||`-joined set of key/regex atoms.
package filter

import (
	"strings"

	"github.com/genesis-community/genesis/planset"
)

// Filter is a parsed, ready-to-apply filter list.
type Filter struct {
	empty    bool
	literals map[string]bool
	elements [][]Atom
}

// Parse compiles a filter list. Each element is either an exact plan path
// or one or more `||`-joined atoms; see atom.go for the atom grammar.
// Malformed atom syntax returns a *BadFilterError.
func Parse(exprs []string) (*Filter, error) {
	f := &Filter{literals: map[string]bool{}}
	if len(exprs) == 0 {
		f.empty = true
		return f, nil
	}

	for _, expr := range exprs {
		parts := strings.Split(expr, "||")
		atoms := make([]Atom, 0, len(parts))
		literal := len(parts) == 1
		for _, part := range parts {
			atom, ok, err := parseAtom(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			if !ok {
				if len(parts) > 1 {
					return nil, &BadFilterError{Atom: part, Reason: "not a valid filter atom"}
				}
				literal = true
				break
			}
			literal = false
			atoms = append(atoms, atom)
		}
		if literal {
			f.literals[expr] = true
			continue
		}
		f.elements = append(f.elements, atoms)
	}
	return f, nil
}

// Select returns the subset of ps that the filter admits, preserving ps's
// order: every literal-path inclusion, unioned with every plan that
// satisfies all non-literal elements (each element itself an OR across
// its atoms).
func (f *Filter) Select(ps *planset.PlanSet) *planset.PlanSet {
	out := planset.NewPlanSet()
	if f.empty {
		for _, p := range ps.Plans() {
			out.Add(p)
		}
		return out
	}

	for _, path := range ps.Paths() {
		plan, _ := ps.Get(path)
		if f.literals[path] {
			out.Add(plan)
			continue
		}
		if len(f.elements) == 0 {
			continue
		}
		if f.matchesAllElements(plan) {
			out.Add(plan)
		}
	}
	return out
}

func (f *Filter) matchesAllElements(plan planset.Plan) bool {
	for _, atoms := range f.elements {
		if !anyAtomMatches(atoms, plan) {
			return false
		}
	}
	return true
}

func anyAtomMatches(atoms []Atom, plan planset.Plan) bool {
	for _, a := range atoms {
		if a.Matches(plan) {
			return true
		}
	}
	return false
}
