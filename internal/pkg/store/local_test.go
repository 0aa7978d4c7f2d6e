package store

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	apperr "bitbucket.org/airenas/textcnn/internal/pkg/err"
	"bitbucket.org/airenas/textcnn/internal/pkg/vocab"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestChecksDirOnInit(t *testing.T) {
	_, err := NewLocalStore("./")
	assert.Nil(t, err)

	_, err = NewLocalStore("")
	assert.NotNil(t, err)
}

func TestVocabulary_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	v, _ := vocab.FromTokens([]string{"feat1", "feat2", "yes", "a:b", "", "3"})
	require.Nil(t, s.SaveVocabulary(VocabularyFile, v))

	l, err := s.LoadVocabulary(VocabularyFile)
	require.Nil(t, err)
	assert.True(t, v.Equal(l))
	assert.Equal(t, v.Map(), l.Map())
}

func TestVocabulary_Empty(t *testing.T) {
	s := newTestStore(t)
	require.Nil(t, s.SaveVocabulary(LabelsFile, vocab.New()))

	l, err := s.LoadVocabulary(LabelsFile)
	require.Nil(t, err)
	assert.Equal(t, 0, l.Size())
}

func TestVocabulary_Overwrites(t *testing.T) {
	s := newTestStore(t)
	v, _ := vocab.FromTokens([]string{"a", "b", "c"})
	require.Nil(t, s.SaveVocabulary(LabelsFile, v))
	v, _ = vocab.FromTokens([]string{"x"})
	require.Nil(t, s.SaveVocabulary(LabelsFile, v))

	l, err := s.LoadVocabulary(LabelsFile)
	require.Nil(t, err)
	assert.Equal(t, []string{"x"}, l.Tokens())
}

func TestVocabulary_Wrong(t *testing.T) {
	s := newTestStore(t)
	require.Nil(t, os.WriteFile(filepath.Join(s.Path, LabelsFile), []byte("a: 0\nb: 5\n"), 0644))
	_, err := s.LoadVocabulary(LabelsFile)
	assert.NotNil(t, err)
}

func TestLoad_NoFile(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadVocabulary(VocabularyFile)
	var fa *apperr.FileAccessError
	assert.True(t, errors.As(err, &fa))
}

func TestMaxLen(t *testing.T) {
	s := newTestStore(t)
	require.Nil(t, s.SaveMaxLen(17))
	l, err := s.LoadMaxLen()
	require.Nil(t, err)
	assert.Equal(t, 17, l)
}

func TestParams(t *testing.T) {
	s := newTestStore(t)
	p := &Params{VocabSize: 3, MaxLen: 2, Classes: 2, EmbedDim: 300, Dropout: 0.25, LearnRate: 0.0005, Seed: 1337,
		Padding: "pre", Truncating: "pre"}
	require.Nil(t, s.SaveParams(p))
	l, err := s.LoadParams()
	require.Nil(t, err)
	assert.Equal(t, p, l)
}

func TestMatrix(t *testing.T) {
	s := newTestStore(t)
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6.5})
	require.Nil(t, s.SaveMatrix(InitVectorsFile, m))
	l, err := s.LoadMatrix(InitVectorsFile)
	require.Nil(t, err)
	assert.True(t, mat.Equal(m, l))
}

func TestSave_Fake(t *testing.T) {
	fakeFile := fakeWriterCloser{bytes.NewBufferString(""), "", false}
	s := LocalStore{Path: "/data/",
		OpenFileFunc: func(file string) (WriterCloser, error) {
			fakeFile.Name = file
			return &fakeFile, nil
		}}
	err := s.SaveMaxLen(2)
	assert.Nil(t, err)
	assert.Equal(t, "2\n", fakeFile.String())
	assert.Equal(t, "/data/maxlen.yml", fakeFile.Name)
	assert.True(t, fakeFile.Closed)
}

func TestSave_FailsOnNoOpen(t *testing.T) {
	s := LocalStore{Path: "",
		OpenFileFunc: func(file string) (WriterCloser, error) {
			return nil, errors.New("olia")
		}}
	err := s.SaveMaxLen(2)
	assert.Equal(t, apperr.FileAccessCode, apperr.Code(err))
}

func TestLoad_ClosesFile(t *testing.T) {
	rc := &fakeReadCloser{Reader: bytes.NewBufferString("5\n")}
	s := LocalStore{Path: "",
		ReadFileFunc: func(file string) (io.ReadCloser, error) {
			return rc, nil
		}}
	l, err := s.LoadMaxLen()
	assert.Nil(t, err)
	assert.Equal(t, 5, l)
	assert.True(t, rc.Closed)
}

func newTestStore(t *testing.T) *LocalStore {
	s, err := NewLocalStore(t.TempDir())
	require.Nil(t, err)
	return s
}

type fakeWriterCloser struct {
	*bytes.Buffer
	Name   string
	Closed bool
}

func (t *fakeWriterCloser) Close() error {
	t.Closed = true
	return nil
}

type fakeReadCloser struct {
	io.Reader
	Closed bool
}

func (t *fakeReadCloser) Close() error {
	t.Closed = true
	return nil
}
