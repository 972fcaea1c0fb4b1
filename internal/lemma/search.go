package lemma

import (
	"regexp"
	"strings"
)

// compileMatcher turns a Query into a predicate over records. Filters are
// conjunctive; an unset filter always passes. Returns a PatternError when
// regex mode is requested with a malformed pattern — a bad pattern must
// surface, never produce a silent empty result.
func compileMatcher(q Query) (func(*LemmaRecord) bool, error) {
	var re *regexp.Regexp
	if q.Regex && q.Text != "" {
		compiled, err := regexp.Compile("(?i)" + q.Text)
		if err != nil {
			return nil, &PatternError{Pattern: q.Text, Err: err}
		}
		re = compiled
	}

	loweredText := strings.ToLower(q.Text)
	wantTags := NormalizeTags(q.Tags)

	return func(r *LemmaRecord) bool {
		if q.Category != "" && r.Category != q.Category {
			return false
		}
		if q.HasProof != nil && r.HasProof() != *q.HasProof {
			return false
		}
		for _, want := range wantTags {
			if !containsTag(r.Tags, want) {
				return false
			}
		}
		if q.Text != "" {
			// A match in any one of statement, proof or notes suffices.
			if !matchesText(r.Statement, re, loweredText) &&
				!matchesText(r.Proof, re, loweredText) &&
				!matchesText(r.Notes, re, loweredText) {
				return false
			}
		}
		return true
	}, nil
}

func matchesText(field string, re *regexp.Regexp, lowered string) bool {
	if re != nil {
		return re.MatchString(field)
	}
	return strings.Contains(strings.ToLower(field), lowered)
}

func containsTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

// searchRecords applies a compiled query over a record scan. Shared by both
// Store implementations.
func searchRecords(records []LemmaRecord, q Query) (map[string]LemmaRecord, error) {
	match, err := compileMatcher(q)
	if err != nil {
		return nil, err
	}
	results := make(map[string]LemmaRecord)
	for _, r := range records {
		if match(&r) {
			results[r.ID] = copyRecord(r)
		}
	}
	return results, nil
}

// copyRecord returns a deep copy so callers can never alias store-owned
// slices.
func copyRecord(r LemmaRecord) LemmaRecord {
	out := r
	out.Tags = append([]string(nil), r.Tags...)
	out.Dependencies = append([]string(nil), r.Dependencies...)
	return out
}
