package dataset

import (
	"bufio"
	"io"
	"os"
	"strings"

	"bitbucket.org/airenas/textcnn/internal/pkg/cmdapp"
	apperr "bitbucket.org/airenas/textcnn/internal/pkg/err"
	"bitbucket.org/airenas/textcnn/internal/pkg/liblinear"
	"bitbucket.org/airenas/textcnn/internal/pkg/vocab"
	"github.com/pkg/errors"
)

const maxLineSize = 64 * 1024 * 1024

//Data keeps the encoded training set
type Data struct {
	Examples   [][]int
	Labels     []int
	Vocabulary *vocab.Vocabulary
	LabelMap   *vocab.Vocabulary
}

//Provider converts liblinear training file into integer sequences
type Provider struct {
	vocab          *vocab.Vocabulary
	labels         *vocab.Vocabulary
	reserved       string
	dropZeroValues bool
}

//Option configures Provider
type Option func(*Provider)

//WithReservedPadding reserves index 0 for the provided token
func WithReservedPadding(token string) Option {
	return func(p *Provider) {
		p.reserved = token
	}
}

//WithDropZeroValues skips features having value 0
func WithDropZeroValues(drop bool) Option {
	return func(p *Provider) {
		p.dropZeroValues = drop
	}
}

//NewProvider creates Provider
func NewProvider(opts ...Option) *Provider {
	res := &Provider{}
	for _, o := range opts {
		o(res)
	}
	res.reset()
	return res
}

//FromDictionaries creates a provider over already built dictionaries, used at inference time
func FromDictionaries(v, l *vocab.Vocabulary, opts ...Option) *Provider {
	res := &Provider{}
	for _, o := range opts {
		o(res)
	}
	res.vocab, res.labels = v, l
	return res
}

func (p *Provider) reset() {
	p.vocab = vocab.New()
	p.labels = vocab.New()
	if p.reserved != "" {
		p.vocab.Add(p.reserved)
	}
}

//Load reads the training file and builds dictionaries from scratch.
//Any malformed line fails the whole load.
func (p *Provider) Load(path string) (*Data, error) {
	cmdapp.Log.Infof("Loading %s", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, &apperr.FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	p.reset()
	res, err := p.read(f, path)
	if err != nil {
		return nil, err
	}
	cmdapp.Log.Infof("Examples: %d, vocab size: %d, labels: %d", len(res.Examples), p.vocab.Size(), p.labels.Size())
	return res, nil
}

func (p *Provider) read(r io.Reader, path string) (*Data, error) {
	res := &Data{Examples: make([][]int, 0), Labels: make([]int, 0), Vocabulary: p.vocab, LabelMap: p.labels}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	ln := 0
	for scanner.Scan() {
		ln++
		s := scanner.Text()
		if strings.TrimSpace(s) == "" {
			continue
		}
		l, err := liblinear.ParseLine(s)
		if err != nil {
			return nil, &apperr.MalformedInputError{Path: path, Line: ln, Reason: err.Error()}
		}
		ex, err := p.add(l.Features)
		if err != nil {
			return nil, &apperr.MalformedInputError{Path: path, Line: ln, Reason: err.Error()}
		}
		if len(ex) == 0 {
			return nil, &apperr.MalformedInputError{Path: path, Line: ln, Reason: "no features left after dropping zero values"}
		}
		res.Examples = append(res.Examples, ex)
		res.Labels = append(res.Labels, p.labels.Add(l.Label))
	}
	if err := scanner.Err(); err != nil {
		return nil, &apperr.FileAccessError{Path: path, Err: errors.Wrapf(err, "read failed after line %d", ln)}
	}
	return res, nil
}

func (p *Provider) add(fs []liblinear.Feature) ([]int, error) {
	res := make([]int, 0, len(fs))
	for _, f := range fs {
		if p.dropZeroValues && f.Value == 0 {
			continue
		}
		if p.reserved != "" && f.Name == p.reserved {
			return nil, errors.Errorf("feature '%s' clashes with the reserved padding token", f.Name)
		}
		res = append(res, p.vocab.Add(f.Name))
	}
	return res, nil
}

//Encode converts a feature line using frozen dictionaries.
//Unknown tokens map to the reserved token, or are skipped if there is none.
func (p *Provider) Encode(line string) ([]int, error) {
	fs, err := liblinear.ParseFeatures(line)
	if err != nil {
		return nil, &apperr.MalformedInputError{Line: 1, Reason: err.Error()}
	}
	res := make([]int, 0, len(fs))
	for _, f := range fs {
		if p.dropZeroValues && f.Value == 0 {
			continue
		}
		i, ok := p.vocab.Index(f.Name)
		if !ok {
			if p.reserved == "" {
				continue
			}
			i, _ = p.vocab.Index(p.reserved)
		}
		res = append(res, i)
	}
	return res, nil
}
