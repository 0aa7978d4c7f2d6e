package tf

import (
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWrapper(t *testing.T) {
	w, err := NewWrapper("localhost:8500", "textcnn", 1, time.Second)
	assert.Nil(t, err)
	assert.NotNil(t, w)
}

func TestNewWrapper_Fail(t *testing.T) {
	_, err := NewWrapper(" ", "textcnn", 1, time.Second)
	assert.NotNil(t, err)
	_, err = NewWrapper("localhost:8500", "", 1, time.Second)
	assert.NotNil(t, err)
	_, err = NewWrapper("localhost:8500", "textcnn", 1, -time.Second)
	assert.NotNil(t, err)
	_, err = NewWrapper("localhost:8500", "textcnn", -1, time.Second)
	assert.NotNil(t, err)
}

func TestNewModelSpec(t *testing.T) {
	s := newModelSpec("textcnn", 0)
	assert.Equal(t, "textcnn", s.Name)
	assert.Nil(t, s.VersionChoice)
	assert.Nil(t, s.GetVersion())

	s = newModelSpec("textcnn", 3)
	require.NotNil(t, s.GetVersion())
	assert.Equal(t, int64(3), s.GetVersion().GetValue())
}

func TestNewModelStatusRequest(t *testing.T) {
	r := newModelStatusRequest("textcnn", 2)
	assert.Equal(t, int64(2), r.ModelSpec.GetVersion().GetValue())
}

func TestMakeRes(t *testing.T) {
	r, err := makeRes([]float32{0.1, 0.9, 0.7, 0.3, 0.5, 0.5}, 3, 2)
	assert.Nil(t, err)
	assert.Equal(t, [][]float32{{0.1, 0.9}, {0.7, 0.3}, {0.5, 0.5}}, r)
}

func TestMakeRes_Fail(t *testing.T) {
	_, err := makeRes([]float32{0.1, 0.9, 0.7}, 2, 2)
	assert.NotNil(t, err)
	_, err = makeRes([]float32{}, 1, 0)
	assert.NotNil(t, err)
}

func TestNewPredictRequest(t *testing.T) {
	r, err := newPredictRequest("textcnn", 1, [][]int32{{0, 1, 2}, {0, 0, 3}})
	require.Nil(t, err)
	assert.Equal(t, "textcnn", r.ModelSpec.Name)
	assert.Equal(t, int64(1), r.ModelSpec.GetVersion().GetValue())
	in := r.Inputs[inputName]
	require.NotNil(t, in)
	assert.Equal(t, []int32{0, 1, 2, 0, 0, 3}, in.IntVal)
	d := in.TensorShape.Dim
	require.Equal(t, 2, len(d))
	assert.Equal(t, int64(2), d[0].Size)
	assert.Equal(t, int64(3), d[1].Size)
}

func TestNewPredictRequest_Ragged(t *testing.T) {
	_, err := newPredictRequest("textcnn", 1, [][]int32{{0, 1, 2}, {3}})
	assert.NotNil(t, err)
}

func TestInvoke_Empty(t *testing.T) {
	w, _ := NewWrapper("localhost:8500", "textcnn", 1, time.Second)
	r, err := w.Invoke(nil)
	assert.Nil(t, err)
	assert.Nil(t, r)
}

func TestNewBackOff(t *testing.T) {
	w, _ := NewWrapper("localhost:8500", "textcnn", 1, 0)
	assert.Equal(t, backoff.Stop, w.newBackOff().NextBackOff())
	w, _ = NewWrapper("localhost:8500", "textcnn", 1, time.Minute)
	b, ok := w.newBackOff().(*backoff.ExponentialBackOff)
	require.True(t, ok)
	assert.Equal(t, time.Minute, b.MaxElapsedTime)
}
