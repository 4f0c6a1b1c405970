package planset

import "sort"

// PlanSet is an ordered, path-keyed collection of Plans (§3). Before
// resolution the order is insertion order (parse order); the Dependency
// Resolver replaces it with the emitted topological order.
type PlanSet struct {
	byPath map[string]Plan
	order  []string
}

// NewPlanSet returns an empty PlanSet.
func NewPlanSet() *PlanSet {
	return &PlanSet{byPath: map[string]Plan{}}
}

// Add appends plan, keyed by its own Path(). A duplicate path replaces the
// prior plan in place without disturbing its position in Order.
func (ps *PlanSet) Add(plan Plan) {
	path := plan.Path()
	if _, exists := ps.byPath[path]; !exists {
		ps.order = append(ps.order, path)
	}
	ps.byPath[path] = plan
}

// Get returns the plan at path, if any.
func (ps *PlanSet) Get(path string) (Plan, bool) {
	p, ok := ps.byPath[path]
	return p, ok
}

// Len reports how many plans are in the set.
func (ps *PlanSet) Len() int { return len(ps.order) }

// Plans returns every plan in the set's current order.
func (ps *PlanSet) Plans() []Plan {
	out := make([]Plan, 0, len(ps.order))
	for _, path := range ps.order {
		out = append(out, ps.byPath[path])
	}
	return out
}

// Paths returns the set's current path ordering.
func (ps *PlanSet) Paths() []string {
	return append([]string{}, ps.order...)
}

// SetOrder replaces the iteration order wholesale — used by the resolver
// once it has computed the topological emission order for x509 plans.
func (ps *PlanSet) SetOrder(order []string) {
	ps.order = order
}

// SortLexicographic reorders the set by path, the fallback ordering §4.C
// specifies for non-x509 plans appended after the x509 sequence.
func (ps *PlanSet) SortLexicographic() {
	sort.Strings(ps.order)
}

// X509Plans returns every x509-kind plan, in set order.
func (ps *PlanSet) X509Plans() []*X509Plan {
	var out []*X509Plan
	for _, path := range ps.order {
		if x, ok := ps.byPath[path].(*X509Plan); ok {
			out = append(out, x)
		}
	}
	return out
}

// NonX509Plans returns every plan that isn't x509-kind, in set order.
func (ps *PlanSet) NonX509Plans() []Plan {
	var out []Plan
	for _, path := range ps.order {
		if _, ok := ps.byPath[path].(*X509Plan); !ok {
			out = append(out, ps.byPath[path])
		}
	}
	return out
}
