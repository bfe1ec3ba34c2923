package role

import "fmt"

// Graph is the static dependency graph between roles. It is built once at
// startup and read-only afterwards; every coordinator receives the same
// value. Edges point upstream: ups[r] lists the roles whose completion
// triggers r.
type Graph struct {
	ups map[Role][]Role
}

// DefaultGraph returns the pipeline dependency graph:
// business feeds architecture feeds developer feeds qa; audit consumes
// developer and qa; documentation consumes everything.
func DefaultGraph() *Graph {
	return &Graph{ups: map[Role][]Role{
		Business:      {},
		Architecture:  {Business},
		Developer:     {Architecture},
		QA:            {Developer},
		Audit:         {Developer, QA},
		Documentation: {Business, Architecture, Developer, QA, Audit},
	}}
}

// Upstreams returns the roles whose completion should trigger r, in
// declaration order.
func (g *Graph) Upstreams(r Role) []Role {
	ups := g.ups[r]
	out := make([]Role, len(ups))
	copy(out, ups)
	return out
}

// Dependents returns every role that lists r as an upstream, in pipeline
// order. Used for broadcast fan-out.
func (g *Graph) Dependents(r Role) []Role {
	var out []Role
	for _, candidate := range All {
		if g.DependsOn(candidate, r) {
			out = append(out, candidate)
		}
	}
	return out
}

// DependsOn reports whether r lists upstream among its dependencies.
func (g *Graph) DependsOn(r, upstream Role) bool {
	for _, u := range g.ups[r] {
		if u == upstream {
			return true
		}
	}
	return false
}

// Check verifies that every role has a graph entry and that no role depends
// on itself or on an unknown role. Called once at startup; a failure here is
// a configuration bug, not a runtime condition.
func (g *Graph) Check() error {
	for _, r := range All {
		ups, ok := g.ups[r]
		if !ok {
			return fmt.Errorf("graph: role %q has no entry", r)
		}
		for _, u := range ups {
			if u == r {
				return fmt.Errorf("graph: role %q depends on itself", r)
			}
			if _, ok := g.ups[u]; !ok {
				return fmt.Errorf("graph: role %q depends on unknown role %q", r, u)
			}
		}
	}
	return nil
}
