package store

import (
	"io"
	"os"
	"path/filepath"

	"bitbucket.org/airenas/textcnn/internal/pkg/cmdapp"
	apperr "bitbucket.org/airenas/textcnn/internal/pkg/err"
	"bitbucket.org/airenas/textcnn/internal/pkg/vocab"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v2"
)

// artifact names in the working directory
const (
	VocabularyFile  = "word2int.yml"
	LabelsFile      = "label2int.yml"
	MaxLenFile      = "maxlen.yml"
	ParamsFile      = "model_params.yml"
	TrainXFile      = "train_x.bin"
	TrainYFile      = "train_y.bin"
	InitVectorsFile = "init_vectors.bin"
)

//WriterCloser keeps Writer interface and close function
type WriterCloser interface {
	io.Writer
	Close() error
}

//OpenFileFunc declares function to create file by name
type OpenFileFunc func(fileName string) (WriterCloser, error)

//ReadFileFunc declares function to open file by name
type ReadFileFunc func(fileName string) (io.ReadCloser, error)

//LocalStore keeps artifacts on local disk
type LocalStore struct {
	Path         string
	OpenFileFunc OpenFileFunc
	ReadFileFunc ReadFileFunc
}

//NewLocalStore creates LocalStore instance
func NewLocalStore(path string) (*LocalStore, error) {
	cmdapp.Log.Infof("Init artifacts storage at: %s", path)
	if path == "" {
		return nil, errors.New("no path provided")
	}
	return &LocalStore{Path: path, OpenFileFunc: createFile, ReadFileFunc: openFile}, nil
}

//SaveVocabulary writes token -> index map
func (s *LocalStore) SaveVocabulary(name string, v *vocab.Vocabulary) error {
	return s.saveYaml(name, v.Map())
}

//LoadVocabulary reads token -> index map
func (s *LocalStore) LoadVocabulary(name string) (*vocab.Vocabulary, error) {
	m := make(map[string]int)
	if err := s.loadYaml(name, &m); err != nil {
		return nil, err
	}
	res, err := vocab.FromMap(m)
	if err != nil {
		return nil, errors.Wrapf(err, "wrong dictionary %s", name)
	}
	return res, nil
}

//SaveMaxLen writes sequence width
func (s *LocalStore) SaveMaxLen(l int) error {
	return s.saveYaml(MaxLenFile, l)
}

//LoadMaxLen reads sequence width
func (s *LocalStore) LoadMaxLen() (int, error) {
	var res int
	err := s.loadYaml(MaxLenFile, &res)
	return res, err
}

//SaveParams writes model parameters
func (s *LocalStore) SaveParams(p *Params) error {
	return s.saveYaml(ParamsFile, p)
}

//LoadParams reads model parameters
func (s *LocalStore) LoadParams() (*Params, error) {
	res := &Params{}
	if err := s.loadYaml(ParamsFile, res); err != nil {
		return nil, err
	}
	return res, nil
}

//SaveMatrix writes matrix in gonum binary format
func (s *LocalStore) SaveMatrix(name string, m *mat.Dense) error {
	return s.save(name, func(w io.Writer) error {
		_, err := m.MarshalBinaryTo(w)
		return err
	})
}

//LoadMatrix reads matrix in gonum binary format
func (s *LocalStore) LoadMatrix(name string) (*mat.Dense, error) {
	res := &mat.Dense{}
	err := s.load(name, func(r io.Reader) error {
		_, err := res.UnmarshalBinaryFrom(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *LocalStore) saveYaml(name string, data interface{}) error {
	return s.save(name, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	})
}

func (s *LocalStore) loadYaml(name string, data interface{}) error {
	return s.load(name, func(r io.Reader) error {
		return yaml.NewDecoder(r).Decode(data)
	})
}

func (s *LocalStore) save(name string, write func(io.Writer) error) error {
	fileName := filepath.Join(s.Path, name)
	f, err := s.OpenFileFunc(fileName)
	if err != nil {
		return &apperr.FileAccessError{Path: fileName, Err: err}
	}
	err = write(f)
	cErr := f.Close()
	if err != nil {
		return errors.Wrapf(err, "can't write %s", fileName)
	}
	if cErr != nil {
		return &apperr.FileAccessError{Path: fileName, Err: cErr}
	}
	cmdapp.Log.Debugf("Saved %s", fileName)
	return nil
}

func (s *LocalStore) load(name string, read func(io.Reader) error) error {
	fileName := filepath.Join(s.Path, name)
	f, err := s.ReadFileFunc(fileName)
	if err != nil {
		return &apperr.FileAccessError{Path: fileName, Err: err}
	}
	defer f.Close()
	if err := read(f); err != nil {
		return errors.Wrapf(err, "can't read %s", fileName)
	}
	return nil
}

func createFile(fileName string) (WriterCloser, error) {
	return os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

func openFile(fileName string) (io.ReadCloser, error) {
	return os.Open(fileName)
}
