package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/cascade/pkg/domain"
)

// CycleError reports one cycle found in the rule graph.
type CycleError struct {
	Path   []string        // Entity names; the first name is repeated at the end
	States []domain.Status // State held by each entity of Path along the cycle
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return domain.ErrCycle }

// stateNode is one entity holding one state.
type stateNode struct {
	entity *domain.Entity
	state  domain.Status
}

// Validate checks the rule graph for cycles. Nodes are (entity, state) pairs and
// each rule contributes an edge from every (source, triggering state) to
// (target, target state). A workflow that a task sets back to a state nothing
// listens for is therefore not a cycle.
//
// A cycle is not necessarily divergent (a merge may never be satisfied again), so
// Apply never calls Validate. Hosts use it to warn about configurations that may
// not terminate.
func (e *Engine) Validate() error {
	adj := make(map[stateNode][]stateNode)
	var order []stateNode
	for _, r := range e.rules {
		to := stateNode{r.Target(), r.TargetState()}
		for _, src := range r.Sources() {
			from := stateNode{src, triggerState(r)}
			if _, ok := adj[from]; !ok {
				order = append(order, from)
			}
			adj[from] = append(adj[from], to)
		}
	}

	const (
		white = iota
		grey
		black
	)
	color := make(map[stateNode]int)
	var path []stateNode
	var found []stateNode

	var visit func(n stateNode) bool
	visit = func(n stateNode) bool {
		color[n] = grey
		path = append(path, n)
		for _, next := range adj[n] {
			switch color[next] {
			case grey:
				for i, p := range path {
					if p == next {
						found = append(append([]stateNode(nil), path[i:]...), next)
						return true
					}
				}
			case white:
				if visit(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[n] = black
		return false
	}

	for _, n := range order {
		if color[n] == white && visit(n) {
			cycle := &CycleError{
				Path:   make([]string, len(found)),
				States: make([]domain.Status, len(found)),
			}
			for i, sn := range found {
				cycle.Path[i] = sn.entity.Name()
				cycle.States[i] = sn.state
			}
			return cycle
		}
	}
	return nil
}

func triggerState(r domain.Rule) domain.Status {
	switch rule := r.(type) {
	case *domain.Link:
		return rule.SourceState()
	case *domain.Merge:
		return rule.RequiredState()
	}
	return ""
}
