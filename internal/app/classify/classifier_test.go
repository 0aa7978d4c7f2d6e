package classify

import (
	"testing"

	"bitbucket.org/airenas/textcnn/internal/pkg/store"
	"bitbucket.org/airenas/textcnn/internal/pkg/test/mocks"
	"bitbucket.org/airenas/textcnn/internal/pkg/vocab"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testProvider struct {
	words, labels *vocab.Vocabulary
	maxLen        int
	params        *store.Params
	err           error
}

func (p *testProvider) LoadVocabulary(name string) (*vocab.Vocabulary, error) {
	if p.err != nil {
		return nil, p.err
	}
	if name == store.LabelsFile {
		return p.labels, nil
	}
	return p.words, nil
}

func (p *testProvider) LoadMaxLen() (int, error) {
	return p.maxLen, nil
}

func (p *testProvider) LoadParams() (*store.Params, error) {
	return p.params, nil
}

func newTestProvider(t *testing.T) *testProvider {
	w, err := vocab.FromTokens([]string{"feat1", "feat2", "feat3"})
	require.Nil(t, err)
	l, err := vocab.FromTokens([]string{"part_of", "part_of-1", "none"})
	require.Nil(t, err)
	return &testProvider{words: w, labels: l, maxLen: 3,
		params: &store.Params{Padding: "pre", Truncating: "pre"}}
}

func TestClassify(t *testing.T) {
	tfMock := &mocks.TFWrap{}
	tfMock.On("Invoke", mock.Anything).Return([][]float32{{0.1, 0.2, 0.7}, {0.1, 0.8, 0.1}}, nil)
	c, err := NewClassifierImpl(newTestProvider(t), tfMock)
	require.Nil(t, err)

	r, err := c.Classify([]string{"feat1:1 feat2:1", "feat3:1 unknown:1"})
	require.Nil(t, err)
	require.Equal(t, 2, len(r))
	assert.Equal(t, "none", r[0].Label)
	assert.False(t, r[0].Inverted)
	assert.Equal(t, "part_of", r[1].Label)
	assert.True(t, r[1].Inverted)
	tfMock.AssertCalled(t, "Invoke", [][]int32{{0, 0, 1}, {0, 0, 2}})
}

func TestClassify_ReservedPadding(t *testing.T) {
	p := newTestProvider(t)
	w, _ := vocab.FromTokens([]string{"<pad>", "feat1", "feat2"})
	p.words = w
	p.params.ReservedToken = "<pad>"
	tfMock := &mocks.TFWrap{}
	tfMock.On("Invoke", mock.Anything).Return([][]float32{{1, 0, 0}}, nil)
	c, err := NewClassifierImpl(p, tfMock)
	require.Nil(t, err)

	_, err = c.Classify([]string{"feat2:1 zzz:1"})
	require.Nil(t, err)
	tfMock.AssertCalled(t, "Invoke", [][]int32{{0, 2, 0}})
}

func TestClassify_TFFail(t *testing.T) {
	tfMock := &mocks.TFWrap{}
	tfMock.On("Invoke", mock.Anything).Return(nil, errors.New("olia"))
	c, _ := NewClassifierImpl(newTestProvider(t), tfMock)
	_, err := c.Classify([]string{"feat1:1"})
	assert.NotNil(t, err)
}

func TestClassify_WrongScores(t *testing.T) {
	tfMock := &mocks.TFWrap{}
	tfMock.On("Invoke", mock.Anything).Return([][]float32{{0.1, 0.9}}, nil)
	c, _ := NewClassifierImpl(newTestProvider(t), tfMock)
	_, err := c.Classify([]string{"feat1:1"})
	assert.NotNil(t, err)
}

func TestClassify_Malformed(t *testing.T) {
	tfMock := &mocks.TFWrap{}
	c, _ := NewClassifierImpl(newTestProvider(t), tfMock)
	_, err := c.Classify([]string{"feat1"})
	assert.NotNil(t, err)
	tfMock.AssertNotCalled(t, "Invoke", mock.Anything)
}

func TestNewClassifier_Fail(t *testing.T) {
	p := newTestProvider(t)
	p.err = errors.New("olia")
	_, err := NewClassifierImpl(p, &mocks.TFWrap{})
	assert.NotNil(t, err)

	p = newTestProvider(t)
	p.maxLen = 0
	_, err = NewClassifierImpl(p, &mocks.TFWrap{})
	assert.NotNil(t, err)

	p = newTestProvider(t)
	p.params.Padding = "middle"
	_, err = NewClassifierImpl(p, &mocks.TFWrap{})
	assert.NotNil(t, err)

	p = newTestProvider(t)
	p.params.ReservedToken = "<pad>"
	_, err = NewClassifierImpl(p, &mocks.TFWrap{})
	assert.NotNil(t, err)
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, 0, argmax([]float32{1}))
	assert.Equal(t, 2, argmax([]float32{0.1, 0.2, 0.7}))
	assert.Equal(t, 0, argmax([]float32{0.5, 0.5}))
}
