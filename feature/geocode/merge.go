package geocode

import (
	"sort"
	"strings"
)

// providerPriority ranks sources when neither hit matches the query
// exactly. Lower is better.
var providerPriority = map[string]int{
	ProviderKakao: 0,
	ProviderNaver: 1,
}

// mergeResults combines hits from multiple providers: duplicates collapse
// on normalized title+address (first provider wins), exact title matches
// rank first, then provider priority, then title. Pure function.
func mergeResults(query string, batches ...[]Result) []Result {
	seen := make(map[string]struct{})
	var merged []Result
	for _, batch := range batches {
		for _, r := range batch {
			key := dedupeKey(r)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, r)
		}
	}

	normQuery := normalize(query)
	sort.SliceStable(merged, func(i, j int) bool {
		iExact := normalize(merged[i].Title) == normQuery
		jExact := normalize(merged[j].Title) == normQuery
		if iExact != jExact {
			return iExact
		}
		if pi, pj := providerPriority[merged[i].Source], providerPriority[merged[j].Source]; pi != pj {
			return pi < pj
		}
		return merged[i].Title < merged[j].Title
	})
	return merged
}

func dedupeKey(r Result) string {
	return normalize(r.Title) + "|" + normalize(r.Address)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
