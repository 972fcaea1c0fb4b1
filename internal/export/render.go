// Package export renders lemma records to plain text, Markdown, LaTeX and
// JSON. Rendering is pure string templating over records; nothing here
// mutates the store.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dusk-indust/lemma/internal/lemma"
)

// Format selects an output rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatLaTeX    Format = "latex"
	FormatJSON     Format = "json"
)

// Formats lists every supported format in a stable order.
var Formats = []Format{FormatText, FormatMarkdown, FormatLaTeX, FormatJSON}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	case FormatLaTeX:
		return FormatLaTeX, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format: %q (want text, markdown, latex or json)", s)
	}
}

// Extension returns the file extension used when writing the format to disk.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatLaTeX:
		return "tex"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// RenderRecord renders a single record in the given format.
func RenderRecord(r lemma.LemmaRecord, f Format) (string, error) {
	switch f {
	case FormatText:
		return renderText(r), nil
	case FormatMarkdown:
		return renderMarkdown(r), nil
	case FormatLaTeX:
		return renderLaTeX(r), nil
	case FormatJSON:
		data, err := json.MarshalIndent(map[string]lemma.LemmaRecord{r.ID: r}, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	default:
		return renderText(r), nil
	}
}

// RenderCollection renders the whole snapshot. JSON output is the
// persistence payload itself; the other formats concatenate per-record
// renderings in id order under a format-appropriate header.
func RenderCollection(snap *lemma.Snapshot, f Format, generatedAt time.Time) (string, error) {
	if f == FormatJSON {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	}

	ids := make([]string, 0, len(snap.Records))
	for id := range snap.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	switch f {
	case FormatMarkdown:
		sb.WriteString("# Codified Lemma Collection\n\n")
		fmt.Fprintf(&sb, "Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339))
		fmt.Fprintf(&sb, "Total Lemmas: %d\n\n", len(ids))
		sb.WriteString("---\n\n")
	case FormatLaTeX:
		sb.WriteString("\\documentclass{article}\n")
		sb.WriteString("\\usepackage{amsthm}\n")
		sb.WriteString("\\newtheorem{lemma}{Lemma}\n")
		sb.WriteString("\\begin{document}\n\n")
	}

	for _, id := range ids {
		rendered, err := RenderRecord(snap.Records[id], f)
		if err != nil {
			return "", err
		}
		sb.WriteString(rendered)
		sb.WriteString("\n")
	}

	if f == FormatLaTeX {
		sb.WriteString("\\end{document}\n")
	}
	return sb.String(), nil
}

func renderText(r lemma.LemmaRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Code: %s\n", r.ID)
	fmt.Fprintf(&sb, "Category: %s\n", r.Category)
	fmt.Fprintf(&sb, "Statement: %s\n", r.Statement)
	if r.Proof != "" {
		fmt.Fprintf(&sb, "Proof: %s\n", r.Proof)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	if r.Notes != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", r.Notes)
	}
	if len(r.Dependencies) > 0 {
		fmt.Fprintf(&sb, "Depends on: %s\n", strings.Join(r.Dependencies, ", "))
	}
	fmt.Fprintf(&sb, "Created: %s\n", r.Created.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Modified: %s\n", r.Modified.Format(time.RFC3339))
	return sb.String()
}

func renderMarkdown(r lemma.LemmaRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", r.ID)
	fmt.Fprintf(&sb, "**Category:** %s\n\n", r.Category)
	fmt.Fprintf(&sb, "**Statement:** %s\n\n", r.Statement)
	if r.Proof != "" {
		fmt.Fprintf(&sb, "**Proof:**\n\n%s\n\n", r.Proof)
	}
	if len(r.Tags) > 0 {
		quoted := make([]string, len(r.Tags))
		for i, t := range r.Tags {
			quoted[i] = "`" + t + "`"
		}
		fmt.Fprintf(&sb, "**Tags:** %s\n\n", strings.Join(quoted, ", "))
	}
	if r.Notes != "" {
		fmt.Fprintf(&sb, "**Notes:** %s\n\n", r.Notes)
	}
	if len(r.Dependencies) > 0 {
		links := make([]string, len(r.Dependencies))
		for i, dep := range r.Dependencies {
			links[i] = fmt.Sprintf("[%s](#%s)", dep, dep)
		}
		fmt.Fprintf(&sb, "**Dependencies:** %s\n\n", strings.Join(links, ", "))
	}
	fmt.Fprintf(&sb, "*Created: %s*\n\n", r.Created.Format(time.RFC3339))
	fmt.Fprintf(&sb, "*Modified: %s*\n\n", r.Modified.Format(time.RFC3339))
	return sb.String()
}

func renderLaTeX(r lemma.LemmaRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\\begin{lemma}[%s]\n", r.ID)
	fmt.Fprintf(&sb, "\\label{lemma:%s}\n", r.ID)
	fmt.Fprintf(&sb, "%s\n", r.Statement)
	sb.WriteString("\\end{lemma}\n\n")
	if r.Proof != "" {
		sb.WriteString("\\begin{proof}\n")
		fmt.Fprintf(&sb, "%s\n", r.Proof)
		sb.WriteString("\\end{proof}\n\n")
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(&sb, "%% Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	if r.Notes != "" {
		fmt.Fprintf(&sb, "%% Notes: %s\n", r.Notes)
	}
	return sb.String()
}
