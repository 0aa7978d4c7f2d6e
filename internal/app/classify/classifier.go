package classify

import (
	"strings"

	"bitbucket.org/airenas/textcnn/internal/app/classify/api"
	"bitbucket.org/airenas/textcnn/internal/pkg/cmdapp"
	"bitbucket.org/airenas/textcnn/internal/pkg/dataset"
	"bitbucket.org/airenas/textcnn/internal/pkg/sequence"
	"bitbucket.org/airenas/textcnn/internal/pkg/store"
	"bitbucket.org/airenas/textcnn/internal/pkg/vocab"
	"github.com/pkg/errors"
)

const invertedSuffix = "-1"

//DataProvider provides artifacts written by the preparation run
type DataProvider interface {
	LoadVocabulary(name string) (*vocab.Vocabulary, error)
	LoadMaxLen() (int, error)
	LoadParams() (*store.Params, error)
}

//TFWrap makes real call to tensorflow service
type TFWrap interface {
	Invoke([][]int32) ([][]float32, error)
}

//ClassifierImpl encodes feature lines the same way as training data and calls the model
type ClassifierImpl struct {
	provider *dataset.Provider
	labels   *vocab.Vocabulary
	maxLen   int
	seqOpts  sequence.Options
	tfWrap   TFWrap
}

//NewClassifierImpl creates instance
func NewClassifierImpl(d DataProvider, tfWrap TFWrap) (*ClassifierImpl, error) {
	v, err := d.LoadVocabulary(store.VocabularyFile)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot init vocabulary")
	}
	cmdapp.Log.Infof("Vocab size: %d", v.Size())
	l, err := d.LoadVocabulary(store.LabelsFile)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot init labels")
	}
	cmdapp.Log.Infof("Labels: %d", l.Size())
	if l.Size() == 0 {
		return nil, errors.New("No labels")
	}
	p, err := d.LoadParams()
	if err != nil {
		return nil, errors.Wrap(err, "Cannot load params")
	}
	res := ClassifierImpl{labels: l, tfWrap: tfWrap}
	res.maxLen, err = d.LoadMaxLen()
	if err != nil {
		return nil, errors.Wrap(err, "Cannot load max len")
	}
	if res.maxLen < 1 {
		return nil, errors.Errorf("Wrong max len %d", res.maxLen)
	}
	res.seqOpts = sequence.Options{Padding: p.Padding, Truncating: p.Truncating, Value: p.PadValue}
	if err := res.seqOpts.Validate(); err != nil {
		return nil, errors.Wrap(err, "Wrong padding params")
	}
	if p.ReservedToken != "" {
		if _, f := v.Index(p.ReservedToken); !f {
			return nil, errors.Errorf("No reserved token '%s' in vocabulary", p.ReservedToken)
		}
	}
	res.provider = dataset.FromDictionaries(v, l, dataset.WithReservedPadding(p.ReservedToken))
	return &res, nil
}

//Classify is main Classifier method
func (c *ClassifierImpl) Classify(lines []string) ([]*api.Prediction, error) {
	seqs := make([][]int, len(lines))
	for i, l := range lines {
		var err error
		seqs[i], err = c.provider.Encode(l)
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot encode line %d", i+1)
		}
	}
	padded := sequence.Pad(seqs, c.maxLen, c.seqOpts)
	scores, err := c.tfWrap.Invoke(padded)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot invoke tensorflow service")
	}
	if len(scores) != len(lines) {
		return nil, errors.Errorf("Expected %d results, got %d", len(lines), len(scores))
	}
	res := make([]*api.Prediction, len(lines))
	for i, s := range scores {
		res[i], err = c.makePrediction(s)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (c *ClassifierImpl) makePrediction(scores []float32) (*api.Prediction, error) {
	if len(scores) != c.labels.Size() {
		return nil, errors.Errorf("Expected %d scores, got %d", c.labels.Size(), len(scores))
	}
	l, _ := c.labels.Token(argmax(scores))
	res := &api.Prediction{Label: l, Scores: scores}
	if strings.HasSuffix(l, invertedSuffix) {
		res.Label = strings.TrimSuffix(l, invertedSuffix)
		res.Inverted = true
	}
	return res, nil
}

func argmax(in []float32) int {
	r := 0
	m := in[0]
	for i := 1; i < len(in); i++ {
		if m < in[i] {
			m = in[i]
			r = i
		}
	}
	return r
}
