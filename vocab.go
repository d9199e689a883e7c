package vocab

import (
	"errors"
	"fmt"
)

// Unknown is returned for tokens that are not in the vocabulary and marks
// removed ids in a remapping table.
const Unknown = -1

// ErrCorrupt reports an initial or restored state whose index does not match
// its token sequence.
var ErrCorrupt = errors.New("vocab: corrupt state")

// Mode selects how Resolve treats tokens it has not seen before.
type Mode int

const (
	// LookupOnly never grows the vocabulary, unseen tokens resolve to Unknown.
	LookupOnly Mode = iota
	// LookupOrInsert appends unseen tokens.
	LookupOrInsert
)

func (m Mode) String() string {
	switch m {
	case LookupOnly:
		return "lookup-only"
	case LookupOrInsert:
		return "lookup-or-insert"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Vocabulary maps tokens to dense ids in [0, Size()). Ids follow insertion
// order. A Vocabulary is not safe for concurrent use.
type Vocabulary[T comparable] struct {
	tokens []T
	index  map[T]int
}

// New builds a vocabulary holding tokens, token i getting id i. It panics if
// tokens contains duplicates.
func New[T comparable](tokens ...T) *Vocabulary[T] {
	v, err := fromTokens(tokens)
	if err != nil {
		panic(err)
	}
	return v
}

// NewWithIndex builds a vocabulary from a token sequence and a prebuilt
// index. Both are copied. The index must satisfy index[tokens[i]] == i for
// every i and hold nothing else, otherwise ErrCorrupt is returned.
func NewWithIndex[T comparable](tokens []T, index map[T]int) (*Vocabulary[T], error) {
	if index == nil {
		return fromTokens(tokens)
	}
	if len(index) != len(tokens) {
		return nil, fmt.Errorf("%w: %d tokens but %d index entries", ErrCorrupt, len(tokens), len(index))
	}
	v := &Vocabulary[T]{
		tokens: make([]T, len(tokens)),
		index:  make(map[T]int, len(index)),
	}
	copy(v.tokens, tokens)
	for i, tk := range tokens {
		id, ok := index[tk]
		if !ok {
			return nil, fmt.Errorf("%w: token %v at %d missing from index", ErrCorrupt, tk, i)
		}
		if id != i {
			return nil, fmt.Errorf("%w: token %v at %d indexed as %d", ErrCorrupt, tk, i, id)
		}
		v.index[tk] = id
	}
	return v, nil
}

func fromTokens[T comparable](tokens []T) (*Vocabulary[T], error) {
	v := &Vocabulary[T]{
		tokens: make([]T, 0, len(tokens)),
		index:  make(map[T]int, len(tokens)),
	}
	for i, tk := range tokens {
		if id, ok := v.index[tk]; ok {
			return nil, fmt.Errorf("%w: duplicate token %v at %d and %d", ErrCorrupt, tk, id, i)
		}
		v.index[tk] = i
		v.tokens = append(v.tokens, tk)
	}
	return v, nil
}

func (v *Vocabulary[T]) Size() int {
	return len(v.tokens)
}

// Lookup returns the id of token, or Unknown.
func (v *Vocabulary[T]) Lookup(token T) int {
	return v.LookupOr(token, Unknown)
}

// LookupOr returns the id of token, or def when token is not present.
func (v *Vocabulary[T]) LookupOr(token T, def int) int {
	if id, ok := v.index[token]; ok {
		return id
	}
	return def
}

func (v *Vocabulary[T]) Contains(token T) bool {
	_, ok := v.index[token]
	return ok
}

// Ensure returns the id of token, appending it first if needed.
func (v *Vocabulary[T]) Ensure(token T) int {
	id, _ := v.Add(token)
	return id
}

// Add is Ensure that also reports whether token was inserted by this call.
func (v *Vocabulary[T]) Add(token T) (int, bool) {
	if id, ok := v.index[token]; ok {
		return id, false
	}
	if v.index == nil {
		v.index = make(map[T]int)
	}
	id := len(v.tokens)
	v.index[token] = id
	v.tokens = append(v.tokens, token)
	return id, true
}

// Resolve dispatches to Lookup or Ensure depending on mode, which lets the
// same code path run over training data (growing) and held-out data (fixed).
func (v *Vocabulary[T]) Resolve(token T, mode Mode) int {
	if mode == LookupOrInsert {
		return v.Ensure(token)
	}
	return v.Lookup(token)
}

func (v *Vocabulary[T]) EnsureAll(tokens []T) []int {
	ids := make([]int, len(tokens))
	for i, tk := range tokens {
		ids[i] = v.Ensure(tk)
	}
	return ids
}

func (v *Vocabulary[T]) LookupAll(tokens []T) []int {
	ids := make([]int, len(tokens))
	for i, tk := range tokens {
		ids[i] = v.Lookup(tk)
	}
	return ids
}

// Token returns the token with the given id.
func (v *Vocabulary[T]) Token(id int) (T, bool) {
	if id < 0 || id >= len(v.tokens) {
		var zero T
		return zero, false
	}
	return v.tokens[id], true
}

// Tokens returns a copy of all tokens in id order.
func (v *Vocabulary[T]) Tokens() []T {
	ret := make([]T, len(v.tokens))
	copy(ret, v.tokens)
	return ret
}
