package vocab

import (
	"github.com/pkg/errors"
)

//Vocabulary keeps bidirectional token <-> index mapping.
//Indexes are dense, start at 0 and are assigned in the order tokens are added.
type Vocabulary struct {
	index  map[string]int
	tokens []string
}

//New creates empty vocabulary
func New() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

//FromTokens creates vocabulary where tokens[i] gets index i
func FromTokens(tokens []string) (*Vocabulary, error) {
	res := New()
	for i, t := range tokens {
		if _, f := res.index[t]; f {
			return nil, errors.Errorf("duplicate token '%s' at %d", t, i)
		}
		res.Add(t)
	}
	return res, nil
}

//FromMap creates vocabulary from token -> index map. Indexes must be 0..len-1
func FromMap(m map[string]int) (*Vocabulary, error) {
	tokens := make([]string, len(m))
	set := make([]bool, len(m))
	for t, i := range m {
		if i < 0 || i >= len(m) {
			return nil, errors.Errorf("index %d of '%s' out of range [0, %d)", i, t, len(m))
		}
		if set[i] {
			return nil, errors.Errorf("index %d is used twice", i)
		}
		tokens[i] = t
		set[i] = true
	}
	return FromTokens(tokens)
}

//Add returns index of the token, a new index is assigned for unseen one
func (v *Vocabulary) Add(token string) int {
	if i, f := v.index[token]; f {
		return i
	}
	i := len(v.tokens)
	v.index[token] = i
	v.tokens = append(v.tokens, token)
	return i
}

//Index returns index of the token
func (v *Vocabulary) Index(token string) (int, bool) {
	i, f := v.index[token]
	return i, f
}

//Token returns token by index
func (v *Vocabulary) Token(i int) (string, bool) {
	if i < 0 || i >= len(v.tokens) {
		return "", false
	}
	return v.tokens[i], true
}

//Size returns number of tokens
func (v *Vocabulary) Size() int {
	return len(v.tokens)
}

//Tokens returns a copy of tokens in index order
func (v *Vocabulary) Tokens() []string {
	res := make([]string, len(v.tokens))
	copy(res, v.tokens)
	return res
}

//Map returns a copy of the token -> index map
func (v *Vocabulary) Map() map[string]int {
	res := make(map[string]int, len(v.index))
	for k, i := range v.index {
		res[k] = i
	}
	return res
}

//Equal checks if both vocabularies map the same tokens to the same indexes
func (v *Vocabulary) Equal(o *Vocabulary) bool {
	if v == nil || o == nil {
		return v == o
	}
	if len(v.tokens) != len(o.tokens) {
		return false
	}
	for i, t := range v.tokens {
		if o.tokens[i] != t {
			return false
		}
	}
	return true
}
