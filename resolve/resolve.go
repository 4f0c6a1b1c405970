// Package resolve implements the Dependency Resolver (§4.C): it converts
// x509 plans into a build order that honors signer -> signee edges,
// detects cycles, and assigns a root CA or self-signed status to any plan
// that left its signer unspecified.
package resolve

import (
	"sort"

	"github.com/genesis-community/genesis/planset"
)

// Resolve orders ps's x509 plans into a valid signing sequence and appends
// every other plan afterward in lexicographic path order. It never
// returns an error: every failure becomes an ErrorPlan in place, so a
// single pass can render the whole report (§7's recovery policy).
func Resolve(ps *planset.PlanSet, rootCAPath string) *planset.PlanSet {
	byPath := map[string]*planset.X509Plan{}
	groupsByBase := map[string][]*planset.X509Plan{}
	for _, p := range ps.X509Plans() {
		byPath[p.Path()] = p
		groupsByBase[p.BasePath] = append(groupsByBase[p.BasePath], p)
	}

	assignDefaultSigners(ps, byPath, groupsByBase, rootCAPath)
	order := emitTopological(ps, byPath)

	nonX509 := ps.NonX509Plans()
	var nonX509Paths []string
	for _, p := range nonX509 {
		nonX509Paths = append(nonX509Paths, p.Path())
	}
	sort.Strings(nonX509Paths)

	ps.SetOrder(append(order, nonX509Paths...))
	return ps
}

// inferGroupCA picks the base-path's CA among its leaves: the sole
// is_ca/`ca`-named leaf, or — when more than one qualifies — the one
// literally named "<base>/ca". Any other shape is ambiguous.
func inferGroupCA(base string, group []*planset.X509Plan) string {
	var candidates []*planset.X509Plan
	for _, p := range group {
		if p.IsCA {
			candidates = append(candidates, p)
		}
	}
	switch len(candidates) {
	case 1:
		return candidates[0].Path()
	case 0:
		return ""
	default:
		literal := base + "/ca"
		for _, c := range candidates {
			if c.Path() == literal {
				return literal
			}
		}
		return ""
	}
}

func assignDefaultSigners(ps *planset.PlanSet, byPath map[string]*planset.X509Plan, groups map[string][]*planset.X509Plan, rootCAPath string) {
	for base, group := range groups {
		caPath := inferGroupCA(base, group)
		for _, p := range group {
			if p.SignedBy != "" || p.Self != planset.NotSelfSigned {
				continue
			}
			if caPath == "" {
				ps.Add(planset.NewErrorPlan(p.Path(), "Ambiguous or missing signing CA"))
				delete(byPath, p.Path())
				continue
			}
			if p.Path() == caPath {
				if rootCAPath != "" {
					p.SignedBy = rootCAPath
					p.SignedByAbsPath = true
				} else {
					p.Self = planset.ImplicitSelf
				}
				continue
			}
			p.SignedBy = caPath
		}
	}
}

// emitTopological performs the signer-grouped DFS emission (§4.C step 3)
// and the orphan/cycle sweep (step 4), returning the final path order.
func emitTopological(ps *planset.PlanSet, byPath map[string]*planset.X509Plan) []string {
	signerGroups := map[string][]string{}
	for path, p := range byPath {
		key := p.SignedBy
		switch {
		case p.Self != planset.NotSelfSigned || p.SignedByAbsPath:
			key = ""
		case p.SignedBy == path:
			// Explicit self-reference: signer == signee in the declared
			// metadata, distinct from the "left unsigned" case above.
			p.Self = planset.ExplicitSelf
			p.IsCA = true
			p.SignedBy = ""
			key = ""
		}
		signerGroups[key] = append(signerGroups[key], path)
	}
	for k := range signerGroups {
		sort.Strings(signerGroups[k])
	}

	visited := map[string]bool{}
	var order []string
	var emit func(path string)
	emit = func(path string) {
		if visited[path] {
			ps.Add(planset.NewErrorPlan(path, "Cyclical CA signage detected"))
			return
		}
		visited[path] = true
		order = append(order, path)
		for _, dep := range signerGroups[path] {
			emit(dep)
		}
	}
	for _, root := range signerGroups[""] {
		emit(root)
	}

	labelUnreached(ps, byPath, visited)
	return order
}

// labelUnreached distinguishes plans caught in a genuine signer cycle that
// never touches a root (A signed by B, B signed by A, neither self-signed)
// from plans whose declared signer simply doesn't resolve to anything in
// the plan set — the two distinct diagnostics §4.C step 4 and the
// cyclical check both describe.
func labelUnreached(ps *planset.PlanSet, byPath map[string]*planset.X509Plan, visited map[string]bool) {
	const (
		white = iota
		gray
		black
	)
	color := map[string]int{}
	cyclic := map[string]bool{}

	var dfs func(path string) bool
	dfs = func(path string) bool {
		color[path] = gray
		defer func() { color[path] = black }()

		p, ok := byPath[path]
		if !ok || visited[path] {
			return false
		}
		next := p.SignedBy
		if next == "" {
			return false
		}
		if _, isX509 := byPath[next]; !isX509 || visited[next] {
			return false
		}
		switch color[next] {
		case gray:
			cyclic[path] = true
			cyclic[next] = true
			return true
		case white:
			if dfs(next) {
				cyclic[path] = true
				return true
			}
		}
		return cyclic[path]
	}

	for path := range byPath {
		if visited[path] || color[path] != white {
			continue
		}
		dfs(path)
	}

	for path := range byPath {
		if visited[path] {
			continue
		}
		if cyclic[path] {
			ps.Add(planset.NewErrorPlan(path, "Cyclical CA signage detected"))
		} else {
			ps.Add(planset.NewErrorPlan(path, "Could not find associated signing CA"))
		}
	}
}
