//go:build cgo

package lemma

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the backend.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
//
// Tag and dependency lists are stored as JSON-encoded strings so that every
// query parameter stays scalar; traversal reads the dependency lists back
// into Go and reuses the same closure walk as MemStore. Dangling edges
// survive record deletion because edges live on the depending record, not in
// a relationship table.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(":memory:", cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path, so a collection survives across sessions and can be
// queried with Cypher by external tooling.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	// Ensure parent directory exists (KuzuDB creates the leaf directory).
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open file database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Lemma(
		id STRING,
		statement STRING,
		proof STRING,
		tags STRING,
		category STRING,
		notes STRING,
		dependencies STRING,
		created STRING,
		modified STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Meta(
		key STRING,
		id_counter INT64,
		created STRING,
		last_modified STRING,
		version STRING,
		PRIMARY KEY(key)
	)`,
}

// metaKey is the primary key of the single Meta row.
const metaKey = "collection"

// InitSchema creates the tables if needed and seeds the Meta row.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}

	rows, err := s.query("MATCH (m:Meta {key: $key}) RETURN m.key", map[string]any{"key": metaKey})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		now := time.Now().UTC().Format(time.RFC3339Nano)
		return s.exec(
			`CREATE (m:Meta {key: $key, id_counter: $counter, created: $now, last_modified: $now, version: $version})`,
			map[string]any{
				"key":     metaKey,
				"counter": int64(firstID),
				"now":     now,
				"version": Version,
			},
		)
	}
	return nil
}

// ---------- Record operations ----------

// Add creates a record and returns its freshly assigned id. The counter
// lives in the Meta row and only advances on success.
func (s *KuzuStore) Add(_ context.Context, draft Draft) (string, error) {
	if strings.TrimSpace(draft.Statement) == "" {
		return "", &ValidationError{Field: "statement", Reason: "must not be empty"}
	}

	meta, counter, err := s.loadMeta()
	if err != nil {
		return "", err
	}

	id := fmt.Sprintf("L%d", counter)
	category := draft.Category
	if category == "" {
		category = DefaultCategory
	}
	now := time.Now().UTC()

	err = s.exec(
		`CREATE (l:Lemma {
			id: $id,
			statement: $statement,
			proof: $proof,
			tags: $tags,
			category: $category,
			notes: $notes,
			dependencies: $deps,
			created: $now,
			modified: $now
		})`,
		map[string]any{
			"id":        id,
			"statement": draft.Statement,
			"proof":     draft.Proof,
			"tags":      encodeList(NormalizeTags(draft.Tags)),
			"category":  category,
			"notes":     draft.Notes,
			"deps":      encodeList(nil),
			"now":       now.Format(time.RFC3339Nano),
		},
	)
	if err != nil {
		return "", err
	}

	meta.LastModified = now
	if err := s.saveMeta(meta, counter+1); err != nil {
		return "", err
	}
	return id, nil
}

// Get retrieves a record by id, or returns nil when absent.
func (s *KuzuStore) Get(_ context.Context, id string) (*LemmaRecord, error) {
	rows, err := s.query(
		`MATCH (l:Lemma {id: $id})
		 RETURN l.id, l.statement, l.proof, l.tags, l.category, l.notes,
		        l.dependencies, l.created, l.modified`,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToRecord(rows[0]), nil
}

// Update applies the non-nil patch fields. Returns false when the id is
// unknown.
func (s *KuzuStore) Update(ctx context.Context, id string, patch FieldPatch) (bool, error) {
	if patch.Statement != nil && strings.TrimSpace(*patch.Statement) == "" {
		return false, &ValidationError{Field: "statement", Reason: "must not be empty"}
	}

	r, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if r == nil {
		return false, nil
	}

	if patch.Statement != nil {
		r.Statement = *patch.Statement
	}
	if patch.Proof != nil {
		r.Proof = *patch.Proof
	}
	if patch.Tags != nil {
		r.Tags = NormalizeTags(*patch.Tags)
	}
	if patch.Category != nil {
		r.Category = *patch.Category
	}
	if patch.Notes != nil {
		r.Notes = *patch.Notes
	}

	now := time.Now().UTC()
	err = s.exec(
		`MATCH (l:Lemma {id: $id})
		 SET l.statement = $statement, l.proof = $proof, l.tags = $tags,
		     l.category = $category, l.notes = $notes, l.modified = $now`,
		map[string]any{
			"id":        id,
			"statement": r.Statement,
			"proof":     r.Proof,
			"tags":      encodeList(r.Tags),
			"category":  r.Category,
			"notes":     r.Notes,
			"now":       now.Format(time.RFC3339Nano),
		},
	)
	if err != nil {
		return false, err
	}
	return true, s.touchMeta(now)
}

// Delete removes the record without touching other records' dependency
// lists. Returns false when the id is unknown.
func (s *KuzuStore) Delete(ctx context.Context, id string) (bool, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if r == nil {
		return false, nil
	}
	if err := s.exec("MATCH (l:Lemma {id: $id}) DELETE l", map[string]any{"id": id}); err != nil {
		return false, err
	}
	return true, s.touchMeta(time.Now().UTC())
}

// List returns all records, sorted by id.
func (s *KuzuStore) List(_ context.Context) ([]LemmaRecord, error) {
	rows, err := s.query(
		`MATCH (l:Lemma)
		 RETURN l.id, l.statement, l.proof, l.tags, l.category, l.notes,
		        l.dependencies, l.created, l.modified`,
		nil,
	)
	if err != nil {
		return nil, err
	}
	out := make([]LemmaRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToRecord(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---------- Dependency edge operations ----------

// AddDependency records that id depends on dependsOn, with the same
// validation and idempotence as MemStore.
func (s *KuzuStore) AddDependency(ctx context.Context, id, dependsOn string) error {
	exists, err := s.existsFn()
	if err != nil {
		return err
	}
	if err := validateEdge(id, dependsOn, exists); err != nil {
		return err
	}

	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if r.DependsOn(dependsOn) {
		return nil
	}
	return s.setDependencies(id, append(r.Dependencies, dependsOn))
}

// RemoveDependency removes the edge id -> dependsOn. Returns false, without
// error, when the record or the edge is absent.
func (s *KuzuStore) RemoveDependency(ctx context.Context, id, dependsOn string) (bool, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if r == nil || !r.DependsOn(dependsOn) {
		return false, nil
	}

	deps := make([]string, 0, len(r.Dependencies)-1)
	for _, d := range r.Dependencies {
		if d != dependsOn {
			deps = append(deps, d)
		}
	}
	if err := s.setDependencies(id, deps); err != nil {
		return false, err
	}
	return true, nil
}

func (s *KuzuStore) setDependencies(id string, deps []string) error {
	now := time.Now().UTC()
	err := s.exec(
		"MATCH (l:Lemma {id: $id}) SET l.dependencies = $deps, l.modified = $now",
		map[string]any{
			"id":   id,
			"deps": encodeList(deps),
			"now":  now.Format(time.RFC3339Nano),
		},
	)
	if err != nil {
		return err
	}
	return s.touchMeta(now)
}

// ---------- Graph traversal ----------

// DependencyChain walks outgoing edges from id over a full record scan.
func (s *KuzuStore) DependencyChain(ctx context.Context, id string) ([]string, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := indexByID(records)
	if _, ok := byID[id]; !ok {
		return nil, &UnknownRecordError{ID: id}
	}
	return closure(id, func(cur string) []string {
		return byID[cur].Dependencies
	}), nil
}

// Dependents walks the inverted edge relation from id.
func (s *KuzuStore) Dependents(ctx context.Context, id string) ([]string, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := indexByID(records)[id]; !ok {
		return nil, &UnknownRecordError{ID: id}
	}
	rev := reverseAdjacency(records)
	return closure(id, func(cur string) []string {
		return rev[cur]
	}), nil
}

// FindDangling reports dependency edges whose target no longer exists.
func (s *KuzuStore) FindDangling(ctx context.Context) ([]DanglingRef, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := indexByID(records)
	return danglingRefs(records, func(id string) bool {
		_, ok := byID[id]
		return ok
	}), nil
}

// ---------- Search & stats ----------

// Search applies the query's conjunctive filters over a full record scan.
func (s *KuzuStore) Search(ctx context.Context, q Query) (map[string]LemmaRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return searchRecords(records, q)
}

// Stats summarizes the collection.
func (s *KuzuStore) Stats(ctx context.Context) (*CollectionStats, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	meta, _, err := s.loadMeta()
	if err != nil {
		return nil, err
	}
	return collectionStats(records, meta), nil
}

// ---------- Persistence payload ----------

// Snapshot returns the full persistence payload.
func (s *KuzuStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	meta, counter, err := s.loadMeta()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]LemmaRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	return &Snapshot{Metadata: meta, IDCounter: counter, Records: byID}, nil
}

// Restore replaces the store's entire state with the snapshot's.
func (s *KuzuStore) Restore(_ context.Context, snap *Snapshot) error {
	if snap == nil {
		return &ValidationError{Field: "snapshot", Reason: "must not be nil"}
	}

	if err := s.exec("MATCH (l:Lemma) DELETE l", nil); err != nil {
		return err
	}

	ids := make([]string, 0, len(snap.Records))
	for id := range snap.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		r := snap.Records[id]
		r.ID = id
		if err := s.insertRecord(r); err != nil {
			return err
		}
	}

	counter := snap.IDCounter
	if counter < firstID {
		counter = firstID
	}
	meta := snap.Metadata
	if meta.Version == "" {
		meta.Version = Version
	}
	return s.saveMeta(meta, counter)
}

// Import merges records from an external snapshot, skipping colliding ids
// and advancing the counter past imported numeric ids.
func (s *KuzuStore) Import(ctx context.Context, snap *Snapshot) (*ImportReport, error) {
	if snap == nil {
		return nil, &ValidationError{Field: "snapshot", Reason: "must not be nil"}
	}

	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := indexByID(existing)

	meta, counter, err := s.loadMeta()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(snap.Records))
	for id := range snap.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	report := &ImportReport{}
	for _, id := range ids {
		if _, ok := byID[id]; ok {
			report.Skipped = append(report.Skipped, id)
			continue
		}
		r := snap.Records[id]
		r.ID = id
		r.Tags = NormalizeTags(r.Tags)
		if err := s.insertRecord(r); err != nil {
			return nil, err
		}
		report.Imported = append(report.Imported, id)

		if n, ok := numericSuffix(id); ok && n >= counter {
			counter = n + 1
		}
	}

	if len(report.Imported) > 0 {
		meta.LastModified = time.Now().UTC()
	}
	if err := s.saveMeta(meta, counter); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *KuzuStore) insertRecord(r LemmaRecord) error {
	return s.exec(
		`CREATE (l:Lemma {
			id: $id,
			statement: $statement,
			proof: $proof,
			tags: $tags,
			category: $category,
			notes: $notes,
			dependencies: $deps,
			created: $created,
			modified: $modified
		})`,
		map[string]any{
			"id":        r.ID,
			"statement": r.Statement,
			"proof":     r.Proof,
			"tags":      encodeList(r.Tags),
			"category":  r.Category,
			"notes":     r.Notes,
			"deps":      encodeList(r.Dependencies),
			"created":   r.Created.UTC().Format(time.RFC3339Nano),
			"modified":  r.Modified.UTC().Format(time.RFC3339Nano),
		},
	)
}

// ---------- Meta row ----------

func (s *KuzuStore) loadMeta() (Metadata, int, error) {
	rows, err := s.query(
		"MATCH (m:Meta {key: $key}) RETURN m.id_counter, m.created, m.last_modified, m.version",
		map[string]any{"key": metaKey},
	)
	if err != nil {
		return Metadata{}, 0, err
	}
	if len(rows) == 0 {
		return Metadata{}, 0, fmt.Errorf("kuzu: meta row missing; InitSchema not run")
	}
	r := rows[0]
	return Metadata{
		Created:      parseTime(toString(r[1])),
		LastModified: parseTime(toString(r[2])),
		Version:      toString(r[3]),
	}, toInt(r[0]), nil
}

func (s *KuzuStore) saveMeta(meta Metadata, counter int) error {
	return s.exec(
		`MATCH (m:Meta {key: $key})
		 SET m.id_counter = $counter, m.created = $created,
		     m.last_modified = $lastModified, m.version = $version`,
		map[string]any{
			"key":          metaKey,
			"counter":      int64(counter),
			"created":      meta.Created.UTC().Format(time.RFC3339Nano),
			"lastModified": meta.LastModified.UTC().Format(time.RFC3339Nano),
			"version":      meta.Version,
		},
	)
}

func (s *KuzuStore) touchMeta(now time.Time) error {
	meta, counter, err := s.loadMeta()
	if err != nil {
		return err
	}
	meta.LastModified = now
	return s.saveMeta(meta, counter)
}

// existsFn returns a presence predicate backed by one record scan.
func (s *KuzuStore) existsFn() (func(string) bool, error) {
	rows, err := s.query("MATCH (l:Lemma) RETURN l.id", nil)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(rows))
	for _, r := range rows {
		set[toString(r[0])] = true
	}
	return func(id string) bool { return set[id] }, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	if len(params) == 0 {
		res, err := s.conn.Query(cypher)
		if err != nil {
			return fmt.Errorf("kuzu: execute: %w", err)
		}
		res.Close()
		return nil
	}

	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// rowToRecord converts a 9-column result row into a LemmaRecord.
// Column order: id, statement, proof, tags, category, notes, dependencies,
// created, modified.
func rowToRecord(r []any) *LemmaRecord {
	return &LemmaRecord{
		ID:           toString(r[0]),
		Statement:    toString(r[1]),
		Proof:        toString(r[2]),
		Tags:         decodeList(toString(r[3])),
		Category:     toString(r[4]),
		Notes:        toString(r[5]),
		Dependencies: decodeList(toString(r[6])),
		Created:      parseTime(toString(r[7])),
		Modified:     parseTime(toString(r[8])),
	}
}

func indexByID(records []LemmaRecord) map[string]LemmaRecord {
	byID := make(map[string]LemmaRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	return byID
}

// encodeList JSON-encodes a string list for storage in a STRING column.
// A nil list encodes as "[]" so decode always yields a non-nil slice.
func encodeList(list []string) string {
	if list == nil {
		list = []string{}
	}
	data, _ := json.Marshal(list)
	return string(data)
}

func decodeList(s string) []string {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
