package variantset

import "strconv"

// SearchResult is the outcome of a locus search. When Found is false,
// Index is the insertion point: the position at which the locus would be
// inserted to keep the set sorted.
type SearchResult struct {
	Index int
	Found bool
}

// Found is a hit at index i.
func Found(i int) SearchResult {
	return SearchResult{Index: i, Found: true}
}

// NotFound is a miss whose insertion point is i.
func NotFound(i int) SearchResult {
	return SearchResult{Index: i}
}

func (r SearchResult) String() string {
	if r.Found {
		return "found(" + strconv.Itoa(r.Index) + ")"
	}
	return "insert(" + strconv.Itoa(r.Index) + ")"
}
