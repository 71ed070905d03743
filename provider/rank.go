package provider

import "sort"

// Rank orders items by score descending, then type priority, then label.
// The input is never mutated; a sorted copy is returned. Ranking is stable,
// so equal items keep their relative order and re-ranking is idempotent.
func Rank(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Label < out[j].Label
	})

	return out
}
