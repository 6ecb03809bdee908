// Package graph renders action manifests as Mermaid flowcharts.
package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/actionpack/internal/compiler"
)

// Overlay marks actions on the chart, such as the ones a run dispatched.
type Overlay struct {
	Dispatched []string
	Current    string
}

// GenerateMermaid produces a Mermaid flowchart of the actions in m and the
// chains between them. It applies semantic styling:
// - Middleware: ((Circle)), linked to every action with a dotted arrow
// - Pure dispatcher (no steps, only chains): [[Subroutine]]
// - Default: [Rectangle]
// Chains are arrows, labelled when their props are computed.
func GenerateMermaid(m *compiler.Manifest, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	names := slices.Sorted(maps.Keys(m.Actions))

	if len(m.Middleware) > 0 {
		fmt.Fprintf(&sb, "    _middleware((\"middleware (%d)\"))\n", len(m.Middleware))
	}

	for _, name := range names {
		spec := m.Actions[name]
		safeID := sanitizeMermaidID(name)

		opener, closer := "[", "]"
		if len(spec.Steps) == 0 && len(spec.Then) > 0 {
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, name, closer)

		if len(m.Middleware) > 0 {
			fmt.Fprintf(&sb, "    _middleware -.-> %s\n", safeID)
		}

		for _, then := range spec.Then {
			arrow := "-->"
			if then.Expr != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", strings.ReplaceAll(then.Expr, "\"", "'"))
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(then.Action))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef dispatched fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Dispatched {
			safeID := sanitizeMermaidID(name)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s dispatched;\n", safeID)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
