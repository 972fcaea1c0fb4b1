package lemma

import "sort"

// validateEdge checks an edge mutation before it touches any record: both
// endpoints must exist and a record may not depend on itself. Shared by
// every Store implementation so the rules cannot drift between backends.
func validateEdge(from, to string, exists func(string) bool) error {
	if from == to {
		return &SelfLoopError{ID: from}
	}
	if !exists(from) {
		return &UnknownRecordError{ID: from}
	}
	if !exists(to) {
		return &UnknownRecordError{ID: to}
	}
	return nil
}

// danglingRefs scans every dependency edge and reports those whose target no
// longer exists. Deletion does not cascade, so these accumulate until a
// caller repairs them explicitly; they are a diagnostic, not an error.
func danglingRefs(records []LemmaRecord, exists func(string) bool) []DanglingRef {
	var refs []DanglingRef
	for _, r := range records {
		for _, dep := range r.Dependencies {
			if !exists(dep) {
				refs = append(refs, DanglingRef{ReferencingID: r.ID, MissingID: dep})
			}
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].ReferencingID != refs[j].ReferencingID {
			return refs[i].ReferencingID < refs[j].ReferencingID
		}
		return refs[i].MissingID < refs[j].MissingID
	})
	return refs
}
