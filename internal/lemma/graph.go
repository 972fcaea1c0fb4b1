package lemma

import "sort"

// closure walks the relation given by neighbors from start and returns every
// reachable id except start itself, sorted. The visited set makes the walk
// safe on cyclic edge sets: no id is expanded twice, and start never appears
// in its own closure even when a cycle leads back to it.
func closure(start string, neighbors func(string) []string) []string {
	visited := map[string]bool{start: true}
	stack := []string{start}
	var out []string

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, nb := range neighbors(cur) {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			out = append(out, nb)
			stack = append(stack, nb)
		}
	}

	sort.Strings(out)
	return out
}

// reverseAdjacency inverts the dependency relation over a full record scan:
// the result maps each id to the ids that directly depend on it.
func reverseAdjacency(records []LemmaRecord) map[string][]string {
	rev := make(map[string][]string, len(records))
	for _, r := range records {
		for _, dep := range r.Dependencies {
			rev[dep] = append(rev[dep], r.ID)
		}
	}
	return rev
}

// collectionStats computes summary statistics over a record scan.
func collectionStats(records []LemmaRecord, meta Metadata) *CollectionStats {
	stats := &CollectionStats{
		TotalLemmas:  len(records),
		Categories:   make(map[string]int),
		Tags:         make(map[string]int),
		Created:      meta.Created,
		LastModified: meta.LastModified,
		Version:      meta.Version,
	}
	for _, r := range records {
		if r.HasProof() {
			stats.WithProof++
		}
		if len(r.Dependencies) > 0 {
			stats.WithDependencies++
		}
		if r.Category != "" {
			stats.Categories[r.Category]++
		}
		for _, t := range r.Tags {
			stats.Tags[t]++
		}
	}
	stats.WithoutProof = stats.TotalLemmas - stats.WithProof
	return stats
}
