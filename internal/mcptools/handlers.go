package mcptools

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dusk-indust/lemma/internal/lemma"
	"github.com/dusk-indust/lemma/internal/persist"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// LemmaService holds the collection store used by MCP tool handlers.
type LemmaService struct {
	store    lemma.Store
	dataFile string // JSON file the collection is saved to after mutations
	graphDir string // file-based KuzuDB mirror for offline graph queries
}

// NewLemmaService creates a LemmaService around the given store.
func NewLemmaService(store lemma.Store) *LemmaService {
	return &LemmaService{store: store}
}

// SetDataFile sets the JSON file path the collection is persisted to.
func (s *LemmaService) SetDataFile(path string) {
	s.dataFile = path
}

// SetGraphDir sets the KuzuDB directory the collection is mirrored to.
func (s *LemmaService) SetGraphDir(dir string) {
	s.graphDir = dir
}

// AddLemma creates a new record and persists the collection.
func (s *LemmaService) AddLemma(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddLemmaInput,
) (*mcp.CallToolResult, AddLemmaOutput, error) {
	id, err := s.store.Add(ctx, lemma.Draft{
		Statement: input.Statement,
		Proof:     input.Proof,
		Tags:      input.Tags,
		Category:  input.Category,
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, AddLemmaOutput{}, fmt.Errorf("add lemma: %w", err)
	}

	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, AddLemmaOutput{}, fmt.Errorf("get lemma %s: %w", id, err)
	}

	s.persistAfterMutation(ctx)
	return nil, AddLemmaOutput{Record: *record}, nil
}

// GetLemma looks up a single record by id.
func (s *LemmaService) GetLemma(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetLemmaInput,
) (*mcp.CallToolResult, GetLemmaOutput, error) {
	if input.ID == "" {
		return nil, GetLemmaOutput{}, fmt.Errorf("id is required")
	}

	record, err := s.store.Get(ctx, input.ID)
	if err != nil {
		return nil, GetLemmaOutput{}, fmt.Errorf("get lemma %s: %w", input.ID, err)
	}

	return nil, GetLemmaOutput{Found: record != nil, Record: record}, nil
}

// SearchLemmas runs a conjunctive search over the collection.
func (s *LemmaService) SearchLemmas(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchLemmasInput,
) (*mcp.CallToolResult, SearchLemmasOutput, error) {
	matches, err := s.store.Search(ctx, lemma.Query{
		Text:     input.Text,
		Regex:    input.Regex,
		Tags:     input.Tags,
		Category: input.Category,
		HasProof: input.HasProof,
	})
	if err != nil {
		return nil, SearchLemmasOutput{}, fmt.Errorf("search: %w", err)
	}

	records := make([]lemma.LemmaRecord, 0, len(matches))
	for _, r := range matches {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	return nil, SearchLemmasOutput{Records: records, Total: len(records)}, nil
}

// AddDependency records a directed dependency edge and persists the collection.
func (s *LemmaService) AddDependency(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddDependencyInput,
) (*mcp.CallToolResult, AddDependencyOutput, error) {
	if input.ID == "" || input.DependsOn == "" {
		return nil, AddDependencyOutput{}, fmt.Errorf("id and dependsOn are required")
	}

	if err := s.store.AddDependency(ctx, input.ID, input.DependsOn); err != nil {
		return nil, AddDependencyOutput{}, fmt.Errorf("add dependency: %w", err)
	}

	s.persistAfterMutation(ctx)
	return nil, AddDependencyOutput{Added: true}, nil
}

// GetDependencies traverses the dependency graph from a record.
func (s *LemmaService) GetDependencies(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDependenciesInput,
) (*mcp.CallToolResult, GetDependenciesOutput, error) {
	if input.ID == "" {
		return nil, GetDependenciesOutput{}, fmt.Errorf("id is required")
	}

	var (
		ids []string
		err error
	)
	if strings.EqualFold(input.Direction, string(lemma.DirectionDownstream)) {
		ids, err = s.store.Dependents(ctx, input.ID)
	} else {
		ids, err = s.store.DependencyChain(ctx, input.ID)
	}
	if err != nil {
		return nil, GetDependenciesOutput{}, fmt.Errorf("get dependencies: %w", err)
	}

	return nil, GetDependenciesOutput{IDs: ids}, nil
}

// FindDangling reports dependency edges whose target no longer exists.
func (s *LemmaService) FindDangling(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ FindDanglingInput,
) (*mcp.CallToolResult, FindDanglingOutput, error) {
	refs, err := s.store.FindDangling(ctx)
	if err != nil {
		return nil, FindDanglingOutput{}, fmt.Errorf("find dangling: %w", err)
	}

	return nil, FindDanglingOutput{Refs: refs}, nil
}

// CollectionStats summarizes the collection.
func (s *LemmaService) CollectionStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CollectionStatsInput,
) (*mcp.CallToolResult, CollectionStatsOutput, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, CollectionStatsOutput{}, fmt.Errorf("stats: %w", err)
	}

	return nil, CollectionStatsOutput{Stats: *stats}, nil
}

// persistAfterMutation saves the collection to the configured data file and
// mirrors it into the file-based graph store. Failures are reported as
// warnings; the in-memory mutation already succeeded.
func (s *LemmaService) persistAfterMutation(ctx context.Context) {
	if s.dataFile == "" && s.graphDir == "" {
		return
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to snapshot collection: %v\n", err)
		return
	}

	if s.dataFile != "" {
		if err := persist.Save(s.dataFile, snap); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save collection: %v\n", err)
		}
	}

	if s.graphDir != "" {
		if err := mirrorGraph(ctx, s.graphDir, snap); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to mirror graph: %v\n", err)
		}
	}
}

// mirrorGraph copies the snapshot into a file-based KuzuDB at graphDir. This
// lets graph tooling query the collection without the MCP server running.
func mirrorGraph(ctx context.Context, graphDir string, snap *lemma.Snapshot) error {
	// Remove the old graph to avoid stale records.
	os.RemoveAll(graphDir)

	dst, err := lemma.NewKuzuFileStore(graphDir)
	if err != nil {
		return fmt.Errorf("open file store: %w", err)
	}
	defer dst.Close()

	if err := dst.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	if err := dst.Restore(ctx, snap); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	return nil
}
