package lemma

import (
	"context"
	"io"
)

// Store is the interface for a lemma collection backend.
// Implementations: MemStore (canonical, in-memory), KuzuStore (KuzuDB, cgo).
// Dependency traversal is always re-derived from current record state; no
// implementation may serve closure queries from a cache that survives an
// edge mutation.
type Store interface {
	io.Closer

	// Schema setup — called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// Record operations.
	Add(ctx context.Context, draft Draft) (string, error)
	Get(ctx context.Context, id string) (*LemmaRecord, error)
	Update(ctx context.Context, id string, patch FieldPatch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]LemmaRecord, error)

	// Dependency edge operations.
	AddDependency(ctx context.Context, id, dependsOn string) error
	RemoveDependency(ctx context.Context, id, dependsOn string) (bool, error)

	// Graph traversal. DependencyChain returns every id the record depends
	// on, directly or transitively; Dependents returns every id that depends
	// on it. Both exclude the record itself, contain no duplicates, tolerate
	// cycles, and are sorted.
	DependencyChain(ctx context.Context, id string) ([]string, error)
	Dependents(ctx context.Context, id string) ([]string, error)

	// Diagnostics.
	FindDangling(ctx context.Context) ([]DanglingRef, error)
	Stats(ctx context.Context) (*CollectionStats, error)

	// Search.
	Search(ctx context.Context, q Query) (map[string]LemmaRecord, error)

	// Persistence payload.
	Snapshot(ctx context.Context) (*Snapshot, error)
	Restore(ctx context.Context, snap *Snapshot) error
	Import(ctx context.Context, snap *Snapshot) (*ImportReport, error)
}

// Direction controls dependency traversal direction.
type Direction string

const (
	DirectionUpstream   Direction = "upstream"   // what does this depend on?
	DirectionDownstream Direction = "downstream" // what depends on this?
)
