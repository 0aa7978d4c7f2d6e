package prepare

import (
	"path/filepath"
	"time"

	"bitbucket.org/airenas/textcnn/internal/pkg/cmdapp"
	"bitbucket.org/airenas/textcnn/internal/pkg/dataset"
	"bitbucket.org/airenas/textcnn/internal/pkg/embedding"
	"bitbucket.org/airenas/textcnn/internal/pkg/metrics"
	"bitbucket.org/airenas/textcnn/internal/pkg/mongo"
	"bitbucket.org/airenas/textcnn/internal/pkg/sequence"
	"bitbucket.org/airenas/textcnn/internal/pkg/store"
	"bitbucket.org/airenas/textcnn/internal/pkg/vocab"
	"bitbucket.org/airenas/textcnn/internal/pkg/word2vec"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//ArtifactSaver persists run outputs
type ArtifactSaver interface {
	SaveVocabulary(name string, v *vocab.Vocabulary) error
	SaveMaxLen(l int) error
	SaveMatrix(name string, m *mat.Dense) error
	SaveParams(p *store.Params) error
}

//RunSaver mirrors run data to external storage
type RunSaver interface {
	Save(data *mongo.RunData) error
}

//VectorLoader loads pre-trained vectors, keep filters words
type VectorLoader func(path string, keep func(string) bool) (*word2vec.Vectors, error)

//Result keeps everything handed to the trainer
type Result struct {
	RunID   string
	Data    *dataset.Data
	MaxLen  int
	Classes int
	X       [][]int32
	Y       *mat.Dense
	Init    *embedding.Result
	Params  *store.Params
}

//Pipeline prepares training data: load -> pad -> one-hot -> align -> persist
type Pipeline struct {
	settings    *Settings
	newProvider func() *dataset.Provider
	loadVectors VectorLoader
	newSaver    func(dir string) (ArtifactSaver, error)
	runSaver    RunSaver
	newMetrics  func() (*metrics.RunMetrics, error)
	now         func() time.Time
}

//NewPipeline creates pipeline with local storage and text vector loader
func NewPipeline(s *Settings) (*Pipeline, error) {
	if s == nil {
		return nil, errors.New("no settings")
	}
	res := &Pipeline{settings: s, loadVectors: word2vec.Load, newMetrics: metrics.NewRunMetrics, now: time.Now}
	res.newProvider = func() *dataset.Provider {
		return dataset.NewProvider(dataset.WithReservedPadding(s.ReservedToken),
			dataset.WithDropZeroValues(s.DropZeroValues))
	}
	res.newSaver = func(dir string) (ArtifactSaver, error) {
		return store.NewLocalStore(dir)
	}
	return res, nil
}

//WithRunSaver sets run mirror
func (p *Pipeline) WithRunSaver(rs RunSaver) *Pipeline {
	p.runSaver = rs
	return p
}

//Run executes all steps for the working directory. Any error stops the run.
func (p *Pipeline) Run(dir string) (*Result, error) {
	start := p.now()
	res := &Result{RunID: uuid.New().String()}
	cmdapp.Log.Infof("Run %s, working dir: %s", res.RunID, dir)

	saver, err := p.newSaver(dir)
	if err != nil {
		return nil, errors.Wrap(err, "can't init storage")
	}

	provider := p.newProvider()
	res.Data, err = provider.Load(filepath.Join(dir, p.settings.DataFile))
	if err != nil {
		return nil, errors.Wrap(err, "can't load training data")
	}
	res.MaxLen = sequence.MaxLen(res.Data.Examples)
	res.Classes = sequence.CountClasses(res.Data.Labels)
	cmdapp.Log.Infof("Max len: %d, classes: %d", res.MaxLen, res.Classes)

	res.X = sequence.Pad(res.Data.Examples, res.MaxLen, p.settings.Sequence)
	res.Y, err = sequence.OneHot(res.Data.Labels, res.Classes)
	if err != nil {
		return nil, errors.Wrap(err, "can't make one-hot labels")
	}

	if err = saveDictionaries(saver, res); err != nil {
		return nil, err
	}

	vectors, err := p.loadVectors(p.settings.EmbeddingPath, inVocabulary(res.Data.Vocabulary))
	if err != nil {
		return nil, errors.Wrap(err, "can't load word vectors")
	}
	res.Init, err = p.newAligner().Align(res.Data.Vocabulary, vectors.Table, vectors.Dim)
	if err != nil {
		return nil, errors.Wrap(err, "can't align embeddings")
	}

	res.Params = p.makeParams(res)
	if err = saveTensors(saver, res); err != nil {
		return nil, err
	}
	if err = p.mirror(dir, res); err != nil {
		return nil, err
	}
	if err = p.writeMetrics(res, p.now().Sub(start)); err != nil {
		return nil, err
	}
	cmdapp.Log.Infof("Run %s done in %s", res.RunID, p.now().Sub(start).String())
	return res, nil
}

func (p *Pipeline) newAligner() *embedding.Aligner {
	var fb embedding.Fallback = embedding.ZeroFallback{}
	if p.settings.Fallback == fallbackUniform {
		fb = embedding.NewUniformFallback(p.settings.FallbackScale, p.settings.Seed)
	}
	return embedding.NewAligner(fb).WithZeroRowFor(p.settings.ReservedToken)
}

func (p *Pipeline) makeParams(r *Result) *store.Params {
	res := p.settings.Model
	res.RunID = r.RunID
	res.VocabSize = r.Data.Vocabulary.Size()
	res.MaxLen = r.MaxLen
	res.Classes = r.Classes
	res.ReservedToken = p.settings.ReservedToken
	res.Padding = p.settings.Sequence.Padding
	res.Truncating = p.settings.Sequence.Truncating
	res.PadValue = p.settings.Sequence.Value
	_, res.EmbedDim = r.Init.Matrix.Dims()
	res.Seed = p.settings.Seed
	res.Fallback = p.settings.Fallback
	res.MissingRows = len(r.Init.Missing)
	return &res
}

func saveDictionaries(s ArtifactSaver, r *Result) error {
	if err := s.SaveMaxLen(r.MaxLen); err != nil {
		return errors.Wrap(err, "can't save max len")
	}
	if err := s.SaveVocabulary(store.VocabularyFile, r.Data.Vocabulary); err != nil {
		return errors.Wrap(err, "can't save vocabulary")
	}
	if err := s.SaveVocabulary(store.LabelsFile, r.Data.LabelMap); err != nil {
		return errors.Wrap(err, "can't save labels")
	}
	return nil
}

func saveTensors(s ArtifactSaver, r *Result) error {
	if x := sequence.ToDense(r.X); x != nil {
		if err := s.SaveMatrix(store.TrainXFile, x); err != nil {
			return errors.Wrap(err, "can't save train x")
		}
	}
	if r.Y != nil {
		if err := s.SaveMatrix(store.TrainYFile, r.Y); err != nil {
			return errors.Wrap(err, "can't save train y")
		}
	}
	if err := s.SaveMatrix(store.InitVectorsFile, r.Init.Matrix); err != nil {
		return errors.Wrap(err, "can't save init vectors")
	}
	return errors.Wrap(s.SaveParams(r.Params), "can't save params")
}

func (p *Pipeline) mirror(dir string, r *Result) error {
	if p.runSaver == nil {
		return nil
	}
	err := p.runSaver.Save(&mongo.RunData{ID: r.RunID, Dir: dir, MaxLen: r.MaxLen,
		Vocabulary: r.Data.Vocabulary.Tokens(), Labels: r.Data.LabelMap.Tokens(),
		Missing: len(r.Init.Missing), Created: p.now()})
	return errors.Wrap(err, "can't mirror run")
}

func (p *Pipeline) writeMetrics(r *Result, dur time.Duration) error {
	if p.settings.MetricsFile == "" {
		return nil
	}
	m, err := p.newMetrics()
	if err != nil {
		return err
	}
	m.Examples.Set(float64(len(r.Data.Examples)))
	m.VocabSize.Set(float64(r.Data.Vocabulary.Size()))
	m.Classes.Set(float64(r.Classes))
	m.MaxLen.Set(float64(r.MaxLen))
	m.MissingRows.Set(float64(len(r.Init.Missing)))
	m.Duration.Set(dur.Seconds())
	return m.WriteTo(p.settings.MetricsFile)
}

func inVocabulary(v *vocab.Vocabulary) func(string) bool {
	return func(s string) bool {
		_, f := v.Index(s)
		return f
	}
}
