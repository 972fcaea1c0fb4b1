package lemma

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// firstID is the starting value of the id counter. Ids are "L" + counter;
// the counter only ever increases, so ids are never reused, even after
// deletion.
const firstID = 1000

// MemStore is the canonical Store: a Go map guarded by sync.RWMutex. It is
// the exclusive owner of its record set; the dependency graph is re-derived
// from the records on every traversal.
type MemStore struct {
	mu      sync.RWMutex
	records map[string]LemmaRecord
	counter int
	meta    Metadata
}

// NewMemStore returns an initialized, empty MemStore.
func NewMemStore() *MemStore {
	now := time.Now().UTC()
	return &MemStore{
		records: make(map[string]LemmaRecord),
		counter: firstID,
		meta: Metadata{
			Created:      now,
			LastModified: now,
			Version:      Version,
		},
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error { return nil }

// Add creates a record from the draft and returns its freshly assigned id.
// A blank statement is a ValidationError and does not advance the counter.
func (m *MemStore) Add(_ context.Context, draft Draft) (string, error) {
	if strings.TrimSpace(draft.Statement) == "" {
		return "", &ValidationError{Field: "statement", Reason: "must not be empty"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := fmt.Sprintf("L%d", m.counter)
	m.counter++

	category := draft.Category
	if category == "" {
		category = DefaultCategory
	}

	now := time.Now().UTC()
	m.records[id] = LemmaRecord{
		ID:           id,
		Statement:    draft.Statement,
		Proof:        draft.Proof,
		Tags:         NormalizeTags(draft.Tags),
		Category:     category,
		Notes:        draft.Notes,
		Dependencies: []string{},
		Created:      now,
		Modified:     now,
	}
	m.meta.LastModified = now
	return id, nil
}

// Get returns a copy of the record, or nil if the id is unknown.
func (m *MemStore) Get(_ context.Context, id string) (*LemmaRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	out := copyRecord(r)
	return &out, nil
}

// Update applies the non-nil patch fields and refreshes the modified
// timestamp. Returns false when the id is unknown. Id and created are
// immutable; patching the statement to blank is a ValidationError.
func (m *MemStore) Update(_ context.Context, id string, patch FieldPatch) (bool, error) {
	if patch.Statement != nil && strings.TrimSpace(*patch.Statement) == "" {
		return false, &ValidationError{Field: "statement", Reason: "must not be empty"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
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
	r.Modified = now
	m.records[id] = r
	m.meta.LastModified = now
	return true, nil
}

// Delete removes the record. Returns false when the id is unknown. Other
// records' dependency lists are left untouched: edges pointing at the
// deleted id become dangling and are reported by FindDangling.
func (m *MemStore) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	m.meta.LastModified = time.Now().UTC()
	return true, nil
}

// List returns copies of all records, sorted by id.
func (m *MemStore) List(_ context.Context) ([]LemmaRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(), nil
}

// AddDependency records that id depends on dependsOn. Both endpoints must
// exist and self-loops are rejected. Re-adding an existing edge is a no-op
// success and does not touch timestamps.
func (m *MemStore) AddDependency(_ context.Context, id, dependsOn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := validateEdge(id, dependsOn, m.existsLocked); err != nil {
		return err
	}

	r := m.records[id]
	if r.DependsOn(dependsOn) {
		return nil
	}
	r.Dependencies = append(r.Dependencies, dependsOn)

	now := time.Now().UTC()
	r.Modified = now
	m.records[id] = r
	m.meta.LastModified = now
	return nil
}

// RemoveDependency removes the edge id -> dependsOn. Returns false, without
// error, when the record or the edge is absent.
func (m *MemStore) RemoveDependency(_ context.Context, id, dependsOn string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok || !r.DependsOn(dependsOn) {
		return false, nil
	}

	deps := make([]string, 0, len(r.Dependencies)-1)
	for _, d := range r.Dependencies {
		if d != dependsOn {
			deps = append(deps, d)
		}
	}
	r.Dependencies = deps

	now := time.Now().UTC()
	r.Modified = now
	m.records[id] = r
	m.meta.LastModified = now
	return true, nil
}

// DependencyChain returns every id the record depends on, directly or
// transitively. Dangling targets are included: they are declared
// dependencies even though the records are gone.
func (m *MemStore) DependencyChain(_ context.Context, id string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.existsLocked(id) {
		return nil, &UnknownRecordError{ID: id}
	}
	return closure(id, func(cur string) []string {
		return m.records[cur].Dependencies
	}), nil
}

// Dependents returns every id that depends on the record, directly or
// transitively, by inverting the edge relation over a full record scan.
func (m *MemStore) Dependents(_ context.Context, id string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.existsLocked(id) {
		return nil, &UnknownRecordError{ID: id}
	}
	rev := reverseAdjacency(m.listLocked())
	return closure(id, func(cur string) []string {
		return rev[cur]
	}), nil
}

// FindDangling reports dependency edges whose target no longer exists.
func (m *MemStore) FindDangling(_ context.Context) ([]DanglingRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return danglingRefs(m.listLocked(), m.existsLocked), nil
}

// Search applies the query's conjunctive filters over the full record set.
func (m *MemStore) Search(_ context.Context, q Query) (map[string]LemmaRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return searchRecords(m.listLocked(), q)
}

// Stats summarizes the collection.
func (m *MemStore) Stats(_ context.Context) (*CollectionStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return collectionStats(m.listLocked(), m.meta), nil
}

// Snapshot returns the full persistence payload as a deep copy.
func (m *MemStore) Snapshot(_ context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make(map[string]LemmaRecord, len(m.records))
	for id, r := range m.records {
		records[id] = copyRecord(r)
	}
	return &Snapshot{
		Metadata:  m.meta,
		IDCounter: m.counter,
		Records:   records,
	}, nil
}

// Restore replaces the store's entire state with the snapshot's. Record ids
// are taken from the map keys, so payloads written without the embedded id
// field reload correctly.
func (m *MemStore) Restore(_ context.Context, snap *Snapshot) error {
	if snap == nil {
		return &ValidationError{Field: "snapshot", Reason: "must not be nil"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	records := make(map[string]LemmaRecord, len(snap.Records))
	for id, r := range snap.Records {
		r.ID = id
		if r.Tags == nil {
			r.Tags = []string{}
		}
		if r.Dependencies == nil {
			r.Dependencies = []string{}
		}
		records[id] = copyRecord(r)
	}

	m.records = records
	m.counter = snap.IDCounter
	if m.counter < firstID {
		m.counter = firstID
	}
	m.meta = snap.Metadata
	if m.meta.Version == "" {
		m.meta.Version = Version
	}
	return nil
}

// Import merges records from an external snapshot. Colliding ids are
// skipped, never overwritten. The counter advances past every imported
// numeric id so future ids cannot collide with imported ones.
func (m *MemStore) Import(_ context.Context, snap *Snapshot) (*ImportReport, error) {
	if snap == nil {
		return nil, &ValidationError{Field: "snapshot", Reason: "must not be nil"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(snap.Records))
	for id := range snap.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	report := &ImportReport{}
	for _, id := range ids {
		if m.existsLocked(id) {
			report.Skipped = append(report.Skipped, id)
			continue
		}
		r := snap.Records[id]
		r.ID = id
		r.Tags = NormalizeTags(r.Tags)
		if r.Dependencies == nil {
			r.Dependencies = []string{}
		}
		m.records[id] = copyRecord(r)
		report.Imported = append(report.Imported, id)

		if n, ok := numericSuffix(id); ok && n >= m.counter {
			m.counter = n + 1
		}
	}

	if len(report.Imported) > 0 {
		m.meta.LastModified = time.Now().UTC()
	}
	return report, nil
}

// numericSuffix extracts N from an "L<N>" id.
func numericSuffix(id string) (int, bool) {
	if !strings.HasPrefix(id, "L") {
		return 0, false
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// existsLocked reports record presence. Callers must hold at least a read
// lock.
func (m *MemStore) existsLocked(id string) bool {
	_, ok := m.records[id]
	return ok
}

// listLocked returns id-sorted record copies. Callers must hold at least a
// read lock.
func (m *MemStore) listLocked() []LemmaRecord {
	out := make([]LemmaRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, copyRecord(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
