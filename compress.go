package vocab

import (
	"fmt"

	"github.com/lwch/logging"
)

// Compress keeps only the tokens for which keep returns true and renumbers
// them contiguously, preserving their relative order. keep is called exactly
// once per id, in increasing id order, and must not touch v.
//
// The returned table has one entry per old id: the new id of a kept token, or
// Unknown for a dropped one. Use Remap or RemapIDs to fix up anything held
// outside the vocabulary.
func (v *Vocabulary[T]) Compress(keep func(id int, token T) bool) []int {
	table := make([]int, len(v.tokens))
	tokens := make([]T, 0, len(v.tokens))
	index := make(map[T]int, len(v.tokens))
	for i, tk := range v.tokens {
		if !keep(i, tk) {
			table[i] = Unknown
			continue
		}
		table[i] = len(tokens)
		index[tk] = len(tokens)
		tokens = append(tokens, tk)
	}
	v.tokens = tokens
	v.index = index
	return table
}

// Prune drops every token whose co-indexed count is below minCount.
func (v *Vocabulary[T]) Prune(counts []int, minCount int) []int {
	if len(counts) != len(v.tokens) {
		panic(fmt.Sprintf("vocab: %d counts for %d tokens", len(counts), len(v.tokens)))
	}
	before := len(v.tokens)
	table := v.Compress(func(id int, _ T) bool {
		return counts[id] >= minCount
	})
	logging.Info("prune: %d tokens kept, %d dropped, min count %d",
		len(v.tokens), before-len(v.tokens), minCount)
	return table
}

// Remap moves values indexed by old id to their new ids according to a table
// returned by Compress. Values of removed ids are discarded.
func Remap[E any](table []int, values []E) []E {
	if len(values) != len(table) {
		panic(fmt.Sprintf("vocab: remap %d values with a %d entry table", len(values), len(table)))
	}
	var n int
	for _, id := range table {
		if id != Unknown {
			n++
		}
	}
	ret := make([]E, n)
	for old, id := range table {
		if id != Unknown {
			ret[id] = values[old]
		}
	}
	return ret
}

// RemapIDs translates a list of old ids in order, dropping ids that were
// removed or fall outside the table.
func RemapIDs(table []int, ids []int) []int {
	ret := make([]int, 0, len(ids))
	for _, old := range ids {
		if old < 0 || old >= len(table) {
			continue
		}
		if id := table[old]; id != Unknown {
			ret = append(ret, id)
		}
	}
	return ret
}
