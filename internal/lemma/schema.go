package lemma

import (
	"strings"
	"time"
)

// Version is the payload schema version written into snapshot metadata.
const Version = "1.0.0"

// DefaultCategory is assigned when a record is created without a category.
const DefaultCategory = "general"

// --- Models ---

// LemmaRecord is a single tracked mathematical statement with metadata.
// Proof, Category and Notes use the empty string to mean "absent";
// Dependencies holds the ids of records this one depends on, in the order
// the edges were added.
type LemmaRecord struct {
	ID           string    `json:"id"`
	Statement    string    `json:"statement"`
	Proof        string    `json:"proof"`
	Tags         []string  `json:"tags"`
	Category     string    `json:"category"`
	Notes        string    `json:"notes"`
	Dependencies []string  `json:"dependencies"`
	Created      time.Time `json:"created"`
	Modified     time.Time `json:"modified"`
}

// HasProof reports whether the record carries a proof.
func (r *LemmaRecord) HasProof() bool {
	return r.Proof != ""
}

// DependsOn reports whether the record has a direct dependency edge to id.
func (r *LemmaRecord) DependsOn(id string) bool {
	for _, d := range r.Dependencies {
		if d == id {
			return true
		}
	}
	return false
}

// Draft holds the caller-supplied fields for a new record. Statement is
// required; everything else is optional.
type Draft struct {
	Statement string
	Proof     string
	Tags      []string
	Category  string
	Notes     string
}

// FieldPatch is a partial update: only non-nil fields overwrite the stored
// value. ID and Created cannot be patched.
type FieldPatch struct {
	Statement *string
	Proof     *string
	Tags      *[]string
	Category  *string
	Notes     *string
}

// Query describes a conjunctive search over the record set. Zero-value
// fields are not applied; Tags requires ALL listed tags to be present.
type Query struct {
	Text     string
	Tags     []string
	Category string
	HasProof *bool
	Regex    bool
}

// DanglingRef is a dependency edge whose target id no longer exists.
type DanglingRef struct {
	ReferencingID string `json:"referencingId"`
	MissingID     string `json:"missingId"`
}

// CollectionStats summarizes a lemma collection.
type CollectionStats struct {
	TotalLemmas      int            `json:"totalLemmas"`
	WithProof        int            `json:"withProof"`
	WithoutProof     int            `json:"withoutProof"`
	WithDependencies int            `json:"withDependencies"`
	Categories       map[string]int `json:"categories"`
	Tags             map[string]int `json:"tags"`
	Created          time.Time      `json:"created"`
	LastModified     time.Time      `json:"lastModified"`
	Version          string         `json:"version"`
}

// Metadata is the collection-level bookkeeping persisted with the records.
type Metadata struct {
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"last_modified"`
	Version      string    `json:"version"`
}

// Snapshot is the full persistence payload: reloading a snapshot yields a
// record set equal, field by field, to the one it was taken from.
type Snapshot struct {
	Metadata  Metadata               `json:"metadata"`
	IDCounter int                    `json:"id_counter"`
	Records   map[string]LemmaRecord `json:"records"`
}

// ImportReport describes the outcome of merging an external snapshot.
// Colliding ids are never overwritten; they are listed under Skipped.
type ImportReport struct {
	Imported []string `json:"imported"`
	Skipped  []string `json:"skipped"`
}

// NormalizeTags lowercases and trims tags, drops empties, and removes
// duplicates while preserving first-seen order. Tag matching is exact-match
// on this normalized form everywhere.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
