package mcptools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dusk-indust/lemma/internal/lemma"
	"github.com/dusk-indust/lemma/internal/persist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newTestService creates a LemmaService over a fresh in-memory store.
func newTestService(t *testing.T) *LemmaService {
	t.Helper()
	store := lemma.NewMemStore()
	require.NoError(t, store.InitSchema(context.Background()))
	t.Cleanup(func() { store.Close() })
	return NewLemmaService(store)
}

// seedChain adds three lemmas with C -> B -> A edges and returns their ids.
func seedChain(t *testing.T, svc *LemmaService) (a, b, c string) {
	t.Helper()
	ctx := context.Background()

	_, outA, err := svc.AddLemma(ctx, nil, AddLemmaInput{
		Statement: "n + 0 = n",
		Proof:     "by the additive identity axiom",
		Tags:      []string{"algebra", "identity"},
		Category:  "algebra",
	})
	require.NoError(t, err)
	_, outB, err := svc.AddLemma(ctx, nil, AddLemmaInput{
		Statement: "a + b = b + a",
		Tags:      []string{"algebra"},
		Category:  "algebra",
	})
	require.NoError(t, err)
	_, outC, err := svc.AddLemma(ctx, nil, AddLemmaInput{
		Statement: "Sum of first n natural numbers = n(n+1)/2",
		Proof:     "by induction",
		Category:  "number_theory",
	})
	require.NoError(t, err)

	a, b, c = outA.Record.ID, outB.Record.ID, outC.Record.ID
	_, _, err = svc.AddDependency(ctx, nil, AddDependencyInput{ID: b, DependsOn: a})
	require.NoError(t, err)
	_, _, err = svc.AddDependency(ctx, nil, AddDependencyInput{ID: c, DependsOn: b})
	require.NoError(t, err)
	return a, b, c
}

// ---------------------------------------------------------------------------
// add_lemma / get_lemma
// ---------------------------------------------------------------------------

func TestAddLemma_AssignsSequentialIDs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, out1, err := svc.AddLemma(ctx, nil, AddLemmaInput{Statement: "first"})
	require.NoError(t, err)
	_, out2, err := svc.AddLemma(ctx, nil, AddLemmaInput{Statement: "second"})
	require.NoError(t, err)

	assert.Equal(t, "L1000", out1.Record.ID)
	assert.Equal(t, "L1001", out2.Record.ID)
	assert.Equal(t, "general", out1.Record.Category)
}

func TestAddLemma_BlankStatementRejected(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.AddLemma(context.Background(), nil, AddLemmaInput{Statement: "   "})
	require.Error(t, err)

	var verr *lemma.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGetLemma(t *testing.T) {
	svc := newTestService(t)
	a, _, _ := seedChain(t, svc)

	_, out, err := svc.GetLemma(context.Background(), nil, GetLemmaInput{ID: a})
	require.NoError(t, err)
	require.True(t, out.Found)
	assert.Equal(t, "n + 0 = n", out.Record.Statement)
}

func TestGetLemma_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.GetLemma(context.Background(), nil, GetLemmaInput{ID: "L9999"})
	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Nil(t, out.Record)
}

func TestGetLemma_RequiresID(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.GetLemma(context.Background(), nil, GetLemmaInput{})
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// search_lemmas
// ---------------------------------------------------------------------------

func TestSearchLemmas_Conjunction(t *testing.T) {
	svc := newTestService(t)
	a, _, _ := seedChain(t, svc)
	ctx := context.Background()

	proven := true
	_, out, err := svc.SearchLemmas(ctx, nil, SearchLemmasInput{
		Tags:     []string{"algebra"},
		HasProof: &proven,
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, a, out.Records[0].ID)
}

func TestSearchLemmas_SortedByID(t *testing.T) {
	svc := newTestService(t)
	a, b, c := seedChain(t, svc)

	_, out, err := svc.SearchLemmas(context.Background(), nil, SearchLemmasInput{})
	require.NoError(t, err)
	require.Equal(t, 3, out.Total)
	assert.Equal(t, []string{a, b, c}, []string{out.Records[0].ID, out.Records[1].ID, out.Records[2].ID})
}

func TestSearchLemmas_BadRegex(t *testing.T) {
	svc := newTestService(t)
	seedChain(t, svc)

	_, _, err := svc.SearchLemmas(context.Background(), nil, SearchLemmasInput{
		Text:  "[unclosed",
		Regex: true,
	})
	require.Error(t, err)

	var perr *lemma.PatternError
	assert.ErrorAs(t, err, &perr)
}

// ---------------------------------------------------------------------------
// dependencies
// ---------------------------------------------------------------------------

func TestAddDependency_SelfLoopRejected(t *testing.T) {
	svc := newTestService(t)
	a, _, _ := seedChain(t, svc)

	_, _, err := svc.AddDependency(context.Background(), nil, AddDependencyInput{ID: a, DependsOn: a})
	require.Error(t, err)

	var serr *lemma.SelfLoopError
	assert.ErrorAs(t, err, &serr)
}

func TestGetDependencies_Upstream(t *testing.T) {
	svc := newTestService(t)
	a, b, c := seedChain(t, svc)

	_, out, err := svc.GetDependencies(context.Background(), nil, GetDependenciesInput{ID: c})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, out.IDs)
}

func TestGetDependencies_Downstream(t *testing.T) {
	svc := newTestService(t)
	a, b, c := seedChain(t, svc)

	_, out, err := svc.GetDependencies(context.Background(), nil, GetDependenciesInput{
		ID:        a,
		Direction: "downstream",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{b, c}, out.IDs)
}

func TestGetDependencies_UnknownID(t *testing.T) {
	svc := newTestService(t)
	seedChain(t, svc)

	_, _, err := svc.GetDependencies(context.Background(), nil, GetDependenciesInput{ID: "L9999"})
	require.Error(t, err)

	var uerr *lemma.UnknownRecordError
	assert.ErrorAs(t, err, &uerr)
}

// ---------------------------------------------------------------------------
// diagnostics and stats
// ---------------------------------------------------------------------------

func TestFindDangling_AfterDelete(t *testing.T) {
	svc := newTestService(t)
	a, b, _ := seedChain(t, svc)
	ctx := context.Background()

	deleted, err := svc.store.Delete(ctx, a)
	require.NoError(t, err)
	require.True(t, deleted)

	_, out, err := svc.FindDangling(ctx, nil, FindDanglingInput{})
	require.NoError(t, err)
	require.Len(t, out.Refs, 1)
	assert.Equal(t, b, out.Refs[0].ReferencingID)
	assert.Equal(t, a, out.Refs[0].MissingID)
}

func TestCollectionStats(t *testing.T) {
	svc := newTestService(t)
	seedChain(t, svc)

	_, out, err := svc.CollectionStats(context.Background(), nil, CollectionStatsInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Stats.TotalLemmas)
	assert.Equal(t, 2, out.Stats.WithProof)
	assert.Equal(t, 1, out.Stats.WithoutProof)
	assert.Equal(t, 2, out.Stats.WithDependencies)
	assert.Equal(t, 2, out.Stats.Categories["algebra"])
}

// ---------------------------------------------------------------------------
// persistence after mutation
// ---------------------------------------------------------------------------

func TestPersistAfterMutation_SavesDataFile(t *testing.T) {
	svc := newTestService(t)
	dataFile := filepath.Join(t.TempDir(), "lemmas.json")
	svc.SetDataFile(dataFile)
	ctx := context.Background()

	_, out, err := svc.AddLemma(ctx, nil, AddLemmaInput{Statement: "persisted"})
	require.NoError(t, err)

	snap, err := persist.Load(dataFile)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Contains(t, snap.Records, out.Record.ID)
}

// ---------------------------------------------------------------------------
// server wiring
// ---------------------------------------------------------------------------

func TestNewLemmaMCPServer(t *testing.T) {
	svc := newTestService(t)
	server := NewLemmaMCPServer(svc)
	assert.NotNil(t, server)
}
