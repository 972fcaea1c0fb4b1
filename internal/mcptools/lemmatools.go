package mcptools

import "github.com/dusk-indust/lemma/internal/lemma"

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// AddLemmaInput is the input for the add_lemma MCP tool.
type AddLemmaInput struct {
	Statement string   `json:"statement" jsonschema:"the mathematical statement to record (required, must be non-blank)"`
	Proof     string   `json:"proof,omitempty" jsonschema:"proof text; omit while the lemma is unproven"`
	Tags      []string `json:"tags,omitempty" jsonschema:"tags for filtering; normalized to lowercase and deduplicated"`
	Category  string   `json:"category,omitempty" jsonschema:"category name (default: general)"`
	Notes     string   `json:"notes,omitempty" jsonschema:"free-form notes"`
}

// AddLemmaOutput is the result of the add_lemma MCP tool.
type AddLemmaOutput struct {
	Record lemma.LemmaRecord `json:"record"`
}

// GetLemmaInput is the input for the get_lemma MCP tool.
type GetLemmaInput struct {
	ID string `json:"id" jsonschema:"the lemma id, e.g. L1000"`
}

// GetLemmaOutput is the result of the get_lemma MCP tool.
type GetLemmaOutput struct {
	Found  bool               `json:"found"`
	Record *lemma.LemmaRecord `json:"record,omitempty"`
}

// SearchLemmasInput is the input for the search_lemmas MCP tool. All given
// criteria must match (conjunction); omitted criteria are not applied.
type SearchLemmasInput struct {
	Text     string   `json:"text,omitempty" jsonschema:"case-insensitive substring matched against statement, proof and notes"`
	Regex    bool     `json:"regex,omitempty" jsonschema:"interpret text as a regular expression instead of a substring"`
	Tags     []string `json:"tags,omitempty" jsonschema:"tags that must ALL be present on a record"`
	Category string   `json:"category,omitempty" jsonschema:"exact category to filter by"`
	HasProof *bool    `json:"hasProof,omitempty" jsonschema:"true for proven lemmas only, false for unproven only"`
}

// SearchLemmasOutput is the result of the search_lemmas MCP tool.
type SearchLemmasOutput struct {
	Records []lemma.LemmaRecord `json:"records"`
	Total   int                 `json:"total"`
}

// AddDependencyInput is the input for the add_dependency MCP tool.
type AddDependencyInput struct {
	ID        string `json:"id" jsonschema:"the lemma that depends on another"`
	DependsOn string `json:"dependsOn" jsonschema:"the lemma being depended on"`
}

// AddDependencyOutput is the result of the add_dependency MCP tool.
type AddDependencyOutput struct {
	Added bool `json:"added"`
}

// GetDependenciesInput is the input for the get_dependencies MCP tool.
type GetDependenciesInput struct {
	ID        string `json:"id" jsonschema:"the lemma id to traverse from"`
	Direction string `json:"direction,omitempty" jsonschema:"upstream (everything it depends on) or downstream (everything that depends on it). Default: upstream"`
}

// GetDependenciesOutput is the result of the get_dependencies MCP tool.
type GetDependenciesOutput struct {
	IDs []string `json:"ids"`
}

// FindDanglingInput is the input for the find_dangling MCP tool.
type FindDanglingInput struct{}

// FindDanglingOutput is the result of the find_dangling MCP tool.
type FindDanglingOutput struct {
	Refs []lemma.DanglingRef `json:"refs"`
}

// CollectionStatsInput is the input for the collection_stats MCP tool.
type CollectionStatsInput struct{}

// CollectionStatsOutput is the result of the collection_stats MCP tool.
type CollectionStatsOutput struct {
	Stats lemma.CollectionStats `json:"stats"`
}
