package sequence

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	//Pre pads or truncates at the start of the sequence
	Pre = "pre"
	//Post pads or truncates at the end of the sequence
	Post = "post"
)

//Options for Pad
type Options struct {
	Padding    string
	Truncating string
	Value      int32
}

//DefaultOptions are keras pad_sequences defaults
func DefaultOptions() Options {
	return Options{Padding: Pre, Truncating: Pre, Value: 0}
}

//Validate checks padding settings
func (o Options) Validate() error {
	if o.Padding != Pre && o.Padding != Post {
		return errors.Errorf("wrong padding '%s', expected %s or %s", o.Padding, Pre, Post)
	}
	if o.Truncating != Pre && o.Truncating != Post {
		return errors.Errorf("wrong truncating '%s', expected %s or %s", o.Truncating, Pre, Post)
	}
	return nil
}

//MaxLen returns the longest sequence length
func MaxLen(seqs [][]int) int {
	res := 0
	for _, s := range seqs {
		if len(s) > res {
			res = len(s)
		}
	}
	return res
}

//Pad makes all sequences maxLen wide
func Pad(seqs [][]int, maxLen int, opts Options) [][]int32 {
	res := make([][]int32, len(seqs))
	for i, s := range seqs {
		res[i] = padOne(s, maxLen, opts)
	}
	return res
}

func padOne(s []int, maxLen int, opts Options) []int32 {
	if len(s) > maxLen {
		if opts.Truncating == Post {
			s = s[:maxLen]
		} else {
			s = s[len(s)-maxLen:]
		}
	}
	res := make([]int32, maxLen)
	start := 0
	if opts.Padding != Post {
		start = maxLen - len(s)
	}
	for i := range res {
		res[i] = opts.Value
	}
	for i, v := range s {
		res[start+i] = int32(v)
	}
	return res
}

//OneHot converts class indexes into one-hot rows
func OneHot(labels []int, classes int) (*mat.Dense, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	if classes < 1 {
		return nil, errors.Errorf("wrong classes count %d", classes)
	}
	res := mat.NewDense(len(labels), classes, nil)
	for i, l := range labels {
		if l < 0 || l >= classes {
			return nil, errors.Errorf("label %d at %d is out of range [0, %d)", l, i, classes)
		}
		res.Set(i, l, 1)
	}
	return res, nil
}

//CountClasses returns number of distinct labels
func CountClasses(labels []int) int {
	m := make(map[int]bool)
	for _, l := range labels {
		m[l] = true
	}
	return len(m)
}

//ToDense converts padded rows into a matrix, nil for empty or zero width input
func ToDense(rows [][]int32) *mat.Dense {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	res := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, r := range rows {
		for j, v := range r {
			res.Set(i, j, float64(v))
		}
	}
	return res
}
