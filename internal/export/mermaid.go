package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/lemma/internal/lemma"
)

// GenerateMermaid produces a Mermaid graph TD diagram of the dependency
// graph. Records are grouped into subgraphs by category; dependency edges
// become arrows. Edges pointing at deleted records are drawn dashed toward
// a placeholder node so dangling references stay visible in the diagram.
func GenerateMermaid(records []lemma.LemmaRecord) string {
	// Build record → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	exists := make(map[string]bool, len(records))
	byCategory := make(map[string][]lemma.LemmaRecord)
	for _, r := range records {
		exists[r.ID] = true
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	// Emit category subgraphs.
	for _, c := range categories {
		members := byCategory[c]
		sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

		sb.WriteString(fmt.Sprintf("  subgraph %s[\"%.40s\"]\n", getID(c+"_category"), c))
		for _, r := range members {
			sb.WriteString(fmt.Sprintf("    %s[\"%s: %s\"]\n", getID(r.ID), r.ID, shortStatement(r.Statement)))
		}
		sb.WriteString("  end\n")
	}

	// Emit dependency edges, id order for reproducible output.
	sorted := make([]lemma.LemmaRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, r := range sorted {
		for _, dep := range r.Dependencies {
			if exists[dep] {
				sb.WriteString(fmt.Sprintf("  %s --> %s\n", getID(r.ID), getID(dep)))
				continue
			}
			// Dangling target: placeholder node, dashed edge.
			phantom := getID(dep + "_missing")
			sb.WriteString(fmt.Sprintf("  %s[\"%s (missing)\"]\n", phantom, dep))
			sb.WriteString(fmt.Sprintf("  %s -.-> %s\n", getID(r.ID), phantom))
		}
	}

	return sb.String()
}

// shortStatement truncates a statement to keep node labels readable.
func shortStatement(s string) string {
	s = strings.ReplaceAll(s, `"`, "'")
	if len(s) <= 40 {
		return s
	}
	return s[:37] + "..."
}
