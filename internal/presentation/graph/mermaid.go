package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/cascade/pkg/domain"
)

// GraphOverlay contains live entity state to visualize on the graph.
type GraphOverlay struct {
	States domain.Snapshot
}

// GenerateMermaid produces a Mermaid flowchart of entities and the rules between them.
// It applies semantic styling:
// - Workflow: ((Circle))
// - Task: [Rectangle]
// - Merge junction: {{Hexagon}}
// Entities referenced only by rules are appended after the registered ones.
// Node IDs are positional (n0, n1, ...) so distinct entities never share a node,
// whatever their names; names appear only in labels.
// With an overlay, each node shows its current status and is classed by it.
func GenerateMermaid(entities []*domain.Entity, rules []domain.Rule, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	nodes := collectNodes(entities, rules)
	ids := make(map[*domain.Entity]string, len(nodes))
	for i, e := range nodes {
		ids[e] = fmt.Sprintf("n%d", i)
	}

	for _, e := range nodes {
		opener, closer := "[", "]"
		if e.Role() == domain.RoleWorkflow {
			opener, closer = "((", "))"
		}

		label := e.Name()
		if overlay != nil {
			if st, ok := overlay.States.Get(e.Name()); ok {
				label = fmt.Sprintf("%s<br/>%s", e.Name(), st.String())
			}
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", ids[e], opener, escapeLabel(label), closer)
	}

	merges := 0
	for _, r := range rules {
		target := ids[r.Target()]
		switch rule := r.(type) {
		case *domain.Link:
			fmt.Fprintf(&sb, "    %s -- \"%s: set %s\" --> %s\n",
				ids[rule.Source()], rule.SourceState(), rule.TargetState(), target)
		case *domain.Merge:
			merges++
			junction := fmt.Sprintf("merge%d", merges)
			fmt.Fprintf(&sb, "    %s{{\"all %s\"}}\n", junction, rule.RequiredState())
			for _, src := range rule.Sources() {
				fmt.Fprintf(&sb, "    %s --> %s\n", ids[src], junction)
			}
			fmt.Fprintf(&sb, "    %s -- \"set %s\" --> %s\n", junction, rule.TargetState(), target)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		used := make(map[domain.Status][]string)
		for _, e := range nodes {
			if st, ok := overlay.States.Get(e.Name()); ok {
				used[st] = append(used[st], ids[e])
			}
		}
		for _, st := range domain.Statuses() {
			ids, ok := used[st]
			if !ok {
				continue
			}
			class := strings.ToLower(string(st))
			fmt.Fprintf(&sb, "    classDef %s %s;\n", class, statusStyle(st))
			fmt.Fprintf(&sb, "    class %s %s;\n", strings.Join(ids, ","), class)
		}
	}

	return sb.String()
}

func collectNodes(entities []*domain.Entity, rules []domain.Rule) []*domain.Entity {
	seen := make(map[*domain.Entity]bool, len(entities))
	nodes := make([]*domain.Entity, 0, len(entities))
	add := func(e *domain.Entity) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true
		nodes = append(nodes, e)
	}
	for _, e := range entities {
		add(e)
	}
	for _, r := range rules {
		for _, src := range r.Sources() {
			add(src)
		}
		add(r.Target())
	}
	return nodes
}

// Force black text (color:#000) for contrast on light fills regardless of theme.
func statusStyle(s domain.Status) string {
	switch s {
	case domain.StatusInProgress:
		return "fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000"
	case domain.StatusCompleted, domain.StatusSuccessful:
		return "fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000"
	case domain.StatusFailed:
		return "fill:#ffcdd2,stroke:#c62828,stroke-width:2px,color:#000"
	case domain.StatusGuestUser, domain.StatusRegisteredUser:
		return "fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000"
	default:
		return "fill:#eeeeee,stroke:#9e9e9e,stroke-width:1px,color:#000"
	}
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
