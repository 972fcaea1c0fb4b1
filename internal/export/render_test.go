package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dusk-indust/lemma/internal/lemma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() lemma.LemmaRecord {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return lemma.LemmaRecord{
		ID:           "L1002",
		Statement:    "Sum of first n natural numbers = n(n+1)/2",
		Proof:        "By mathematical induction",
		Tags:         []string{"series", "induction"},
		Category:     "number_theory",
		Notes:        "classic result",
		Dependencies: []string{"L1000", "L1001"},
		Created:      created,
		Modified:     created,
	}
}

func testSnapshot(t *testing.T) *lemma.Snapshot {
	t.Helper()
	ctx := context.Background()
	s := lemma.NewMemStore()

	a, err := s.Add(ctx, lemma.Draft{Statement: "n + 0 = n", Proof: "identity", Category: "algebra"})
	require.NoError(t, err)
	b, err := s.Add(ctx, lemma.Draft{Statement: "a + b = b + a", Category: "algebra"})
	require.NoError(t, err)
	require.NoError(t, s.AddDependency(ctx, b, a))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	return snap
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "Markdown", "LATEX", "json"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.NotEmpty(t, f.Extension())
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestRenderRecord_Text(t *testing.T) {
	out, err := RenderRecord(testRecord(), FormatText)
	require.NoError(t, err)

	assert.Contains(t, out, "Code: L1002")
	assert.Contains(t, out, "Category: number_theory")
	assert.Contains(t, out, "Statement: Sum of first n natural numbers")
	assert.Contains(t, out, "Proof: By mathematical induction")
	assert.Contains(t, out, "Tags: series, induction")
	assert.Contains(t, out, "Depends on: L1000, L1001")
}

func TestRenderRecord_Text_OmitsEmptyFields(t *testing.T) {
	r := testRecord()
	r.Proof = ""
	r.Notes = ""
	r.Dependencies = nil

	out, err := RenderRecord(r, FormatText)
	require.NoError(t, err)
	assert.NotContains(t, out, "Proof:")
	assert.NotContains(t, out, "Notes:")
	assert.NotContains(t, out, "Depends on:")
}

func TestRenderRecord_Markdown(t *testing.T) {
	out, err := RenderRecord(testRecord(), FormatMarkdown)
	require.NoError(t, err)

	assert.Contains(t, out, "## L1002")
	assert.Contains(t, out, "**Statement:** Sum of first n natural numbers")
	assert.Contains(t, out, "`series`, `induction`")
	assert.Contains(t, out, "[L1000](#L1000)")
}

func TestRenderRecord_LaTeX(t *testing.T) {
	out, err := RenderRecord(testRecord(), FormatLaTeX)
	require.NoError(t, err)

	assert.Contains(t, out, "\\begin{lemma}[L1002]")
	assert.Contains(t, out, "\\label{lemma:L1002}")
	assert.Contains(t, out, "\\begin{proof}")
	assert.Contains(t, out, "% Tags: series, induction")
}

func TestRenderCollection_Markdown(t *testing.T) {
	snap := testSnapshot(t)

	out, err := RenderCollection(snap, FormatMarkdown, time.Now())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Codified Lemma Collection\n"))
	assert.Contains(t, out, "Total Lemmas: 2")
	assert.Contains(t, out, "## L1000")
	assert.Contains(t, out, "## L1001")
	// Records appear in id order.
	assert.Less(t, strings.Index(out, "## L1000"), strings.Index(out, "## L1001"))
}

func TestRenderCollection_LaTeXDocument(t *testing.T) {
	snap := testSnapshot(t)

	out, err := RenderCollection(snap, FormatLaTeX, time.Now())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "\\documentclass{article}\n"))
	assert.Contains(t, out, "\\usepackage{amsthm}")
	assert.True(t, strings.HasSuffix(out, "\\end{document}\n"))
}

func TestRenderCollection_JSONIsPayload(t *testing.T) {
	snap := testSnapshot(t)

	out, err := RenderCollection(snap, FormatJSON, time.Now())
	require.NoError(t, err)

	var reloaded lemma.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &reloaded))
	assert.Equal(t, snap.IDCounter, reloaded.IDCounter)
	assert.Len(t, reloaded.Records, 2)
}

func TestGenerateMermaid(t *testing.T) {
	snap := testSnapshot(t)
	records := make([]lemma.LemmaRecord, 0, len(snap.Records))
	for _, r := range snap.Records {
		records = append(records, r)
	}

	out := GenerateMermaid(records)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, "subgraph")
	assert.Contains(t, out, "algebra")
	assert.Contains(t, out, "-->")
}

func TestGenerateMermaid_DanglingEdgeDashed(t *testing.T) {
	records := []lemma.LemmaRecord{
		{ID: "L1000", Statement: "depends on a ghost", Category: "algebra", Dependencies: []string{"L0999"}},
	}

	out := GenerateMermaid(records)

	assert.Contains(t, out, "(missing)")
	assert.Contains(t, out, "-.->")
}

func TestWriteFormats(t *testing.T) {
	dir := t.TempDir()
	snap := testSnapshot(t)

	require.NoError(t, WriteFormats(context.Background(), dir, Formats, snap))

	for _, f := range Formats {
		path := filepath.Join(dir, "lemmas."+f.Extension())
		data, err := os.ReadFile(path)
		require.NoError(t, err, "expected output file for %s", f)
		assert.NotEmpty(t, data)
	}
}
