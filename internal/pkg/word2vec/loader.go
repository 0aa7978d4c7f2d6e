package word2vec

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"bitbucket.org/airenas/textcnn/internal/pkg/cmdapp"
	apperr "bitbucket.org/airenas/textcnn/internal/pkg/err"
	"github.com/pkg/errors"
)

//Vectors keeps loaded word vectors
type Vectors struct {
	Table map[string][]float64
	//Dim is the width shared by all vectors in the file, 0 if the file has no vectors
	Dim int
	//Count is the number of vectors in the file, including the filtered out ones
	Count int
}

//Load reads word2vec text format file.
//keep may be nil, otherwise only words accepted by keep are loaded.
func Load(path string, keep func(string) bool) (*Vectors, error) {
	cmdapp.Log.Infof("Loading vectors from %s", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, &apperr.FileAccessError{Path: path, Err: err}
	}
	defer f.Close()
	res, err := read(f, path, keep)
	if err != nil {
		return nil, err
	}
	cmdapp.Log.Infof("Loaded %d of %d vectors, dim %d", len(res.Table), res.Count, res.Dim)
	return res, nil
}

func read(r io.Reader, path string, keep func(string) bool) (*Vectors, error) {
	res := &Vectors{Table: make(map[string][]float64)}
	rd := bufio.NewReaderSize(r, 1024*1024)
	ln := 0
	for {
		s, err := rd.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, &apperr.FileAccessError{Path: path, Err: errors.Wrapf(err, "read failed after line %d", ln)}
		}
		if s != "" {
			ln++
			if perr := parseLine(res, s, ln, keep); perr != nil {
				var dm *apperr.DimensionMismatchError
				if errors.As(perr, &dm) {
					return nil, perr
				}
				return nil, &apperr.MalformedInputError{Path: path, Line: ln, Reason: perr.Error()}
			}
		}
		if err == io.EOF {
			break
		}
	}
	if res.Count == 0 {
		res.Dim = 0
	}
	return res, nil
}

func parseLine(res *Vectors, s string, ln int, keep func(string) bool) error {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	if ln == 1 && len(fields) == 2 {
		if dim, ok := header(fields); ok {
			if dim < 1 {
				return errors.Errorf("wrong dimension %d in header", dim)
			}
			res.Dim = dim
			return nil
		}
	}
	if len(fields) < 2 {
		return errors.Errorf("no vector for '%s'", fields[0])
	}
	w := len(fields) - 1
	if res.Dim == 0 {
		res.Dim = w
	}
	if w != res.Dim {
		return &apperr.DimensionMismatchError{Token: fields[0], Expected: res.Dim, Got: w}
	}
	res.Count++
	if keep != nil && !keep(fields[0]) {
		return nil
	}
	v := make([]float64, len(fields)-1)
	for i, fs := range fields[1:] {
		f, err := strconv.ParseFloat(fs, 64)
		if err != nil {
			return errors.Wrapf(err, "wrong component %d for '%s'", i, fields[0])
		}
		v[i] = f
	}
	res.Table[fields[0]] = v
	return nil
}

func header(fields []string) (int, bool) {
	if _, err := strconv.Atoi(fields[0]); err != nil {
		return 0, false
	}
	dim, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return dim, true
}
