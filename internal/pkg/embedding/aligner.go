package embedding

import (
	"math/rand/v2"
	"sort"

	"bitbucket.org/airenas/textcnn/internal/pkg/cmdapp"
	apperr "bitbucket.org/airenas/textcnn/internal/pkg/err"
	"bitbucket.org/airenas/textcnn/internal/pkg/vocab"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	//ErrEmptyVocabulary is returned when there are no rows to align
	ErrEmptyVocabulary = errors.New("empty vocabulary")
	//ErrNoVectors is returned when the vector file has no vectors at all
	ErrNoVectors = errors.New("no vectors")
)

//Fallback fills rows for tokens missing in the vector table
type Fallback interface {
	Fill(row []float64)
}

//ZeroFallback leaves missing rows zero
type ZeroFallback struct{}

//Fill does nothing, rows are zero already
func (ZeroFallback) Fill(row []float64) {}

//UniformFallback draws missing rows from U(-scale, scale) with a fixed seed
type UniformFallback struct {
	dist distuv.Uniform
}

//NewUniformFallback creates seeded uniform fallback
func NewUniformFallback(scale float64, seed uint64) *UniformFallback {
	return &UniformFallback{dist: distuv.Uniform{Min: -scale, Max: scale, Src: rand.NewPCG(seed, seed)}}
}

//Fill draws values into row
func (f *UniformFallback) Fill(row []float64) {
	for i := range row {
		row[i] = f.dist.Rand()
	}
}

//Result of alignment
type Result struct {
	Matrix *mat.Dense
	//Missing are vocabulary tokens filled by the fallback, in index order
	Missing []string
}

//Aligner builds embedding initialization matrix for a vocabulary
type Aligner struct {
	fallback Fallback
	skip     string
}

//NewAligner creates aligner, ZeroFallback is used if fb is nil
func NewAligner(fb Fallback) *Aligner {
	if fb == nil {
		fb = ZeroFallback{}
	}
	return &Aligner{fallback: fb}
}

//WithZeroRowFor makes the token row always zero, used for the reserved padding token
func (a *Aligner) WithZeroRowFor(token string) *Aligner {
	a.skip = token
	return a
}

//Align returns vocab size x dim matrix where row i holds the vector of the token with index i.
//table may hold only a part of the vocabulary, dim is the width of the vector file.
func (a *Aligner) Align(v *vocab.Vocabulary, table map[string][]float64, dim int) (*Result, error) {
	if v == nil || v.Size() == 0 {
		return nil, ErrEmptyVocabulary
	}
	if dim < 1 {
		return nil, ErrNoVectors
	}
	if err := checkWidth(table, dim); err != nil {
		return nil, err
	}
	res := &Result{Matrix: mat.NewDense(v.Size(), dim, nil), Missing: make([]string, 0)}
	row := make([]float64, dim)
	for i, t := range v.Tokens() {
		if t == a.skip && a.skip != "" {
			continue
		}
		vec, f := table[t]
		if f {
			res.Matrix.SetRow(i, vec)
			continue
		}
		for j := range row {
			row[j] = 0
		}
		a.fallback.Fill(row)
		res.Matrix.SetRow(i, row)
		res.Missing = append(res.Missing, t)
	}
	cmdapp.Log.Infof("Aligned %d tokens, dim %d, missing %d", v.Size(), dim, len(res.Missing))
	return res, nil
}

// words are visited in sorted order to keep errors stable
func checkWidth(table map[string][]float64, dim int) error {
	words := make([]string, 0, len(table))
	for w := range table {
		words = append(words, w)
	}
	sort.Strings(words)
	for _, w := range words {
		if l := len(table[w]); l != dim {
			return &apperr.DimensionMismatchError{Token: w, Expected: dim, Got: l}
		}
	}
	return nil
}
