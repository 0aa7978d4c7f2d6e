package tf

import (
	"context"
	"strings"
	"time"

	tf_framework "github.com/airenas/go-tf-serving-protogen/tensorflow/core/framework"
	tf_serving "github.com/airenas/go-tf-serving-protogen/tensorflow_serving/apis"
	"github.com/cenkalti/backoff"

	"bitbucket.org/airenas/textcnn/internal/pkg/cmdapp"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const inputName = "word_ids"

// Wrapper structure used to call TF grpc service
type Wrapper struct {
	url        string
	name       string
	version    int
	maxElapsed time.Duration
	timeout    time.Duration
}

// NewWrapper creates Wrapper
func NewWrapper(url string, name string, version int, maxElapsed time.Duration) (*Wrapper, error) {
	res := Wrapper{}
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("No tf.url provided")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("No tf.name provided")
	}
	if version < 0 {
		return nil, errors.Errorf("Wrong tf.version %d", version)
	}
	if maxElapsed < 0 {
		return nil, errors.Errorf("Wrong tf.retry.maxElapsed %v", maxElapsed)
	}
	res.url = url
	res.name = name
	res.version = version
	res.maxElapsed = maxElapsed
	res.timeout = 10 * time.Second
	return &res, nil
}

// Healthy return nil or error is TF model is not accesible
func (w *Wrapper) Healthy() error {
	conn, err := w.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	client := tf_serving.NewModelServiceClient(conn)
	st, err := client.GetModelStatus(ctx, newModelStatusRequest(w.name, int64(w.version)))
	if err != nil {
		return err
	}
	for _, s := range st.ModelVersionStatus {
		if s.State == tf_serving.ModelVersionStatus_AVAILABLE {
			return nil
		}
	}
	return errors.New("Model is not available")
}

// Invoke sends padded rows to the model and returns class scores per row
func (w *Wrapper) Invoke(rows [][]int32) ([][]float32, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	r, err := newPredictRequest(w.name, int64(w.version), rows)
	if err != nil {
		return nil, err
	}
	var res [][]float32
	op := func() error {
		var err error
		res, err = w.predict(r)
		if err != nil {
			cmdapp.Log.Warn(err)
		}
		return err
	}
	if err := backoff.Retry(op, w.newBackOff()); err != nil {
		return nil, err
	}
	if len(res) != len(rows) {
		return nil, errors.Errorf("Expected %d rows, got %d", len(rows), len(res))
	}
	return res, nil
}

func (w *Wrapper) predict(r *tf_serving.PredictRequest) ([][]float32, error) {
	conn, err := w.dial()
	if err != nil {
		return nil, errors.Wrap(err, "Cannot connect to the grpc server")
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	client := tf_serving.NewPredictionServiceClient(conn)
	resp, err := client.Predict(ctx, r)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot invoke tf server")
	}
	for _, v := range resp.GetOutputs() {
		d := v.GetTensorShape().GetDim()
		if len(d) != 2 {
			return nil, backoff.Permanent(errors.Errorf("Expected result dimension 2, got %d", len(d)))
		}
		res, err := makeRes(v.GetFloatVal(), int(d[0].Size), int(d[1].Size))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		return res, nil
	}
	return nil, backoff.Permanent(errors.New("No result"))
}

func (w *Wrapper) dial() (*grpc.ClientConn, error) {
	return grpc.Dial(w.url, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

func (w *Wrapper) newBackOff() backoff.BackOff {
	if w.maxElapsed == 0 {
		return &backoff.StopBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = w.maxElapsed
	return b
}

func makeRes(in []float32, d1, d2 int) ([][]float32, error) {
	if d1 < 0 || d2 < 1 || len(in) != d1*d2 {
		return nil, errors.Errorf("Wrong output size %d for shape [%d, %d]", len(in), d1, d2)
	}
	result := make([][]float32, d1)
	for i := 0; i < d1; i++ {
		result[i] = in[i*d2 : (i+1)*d2]
	}
	return result, nil
}

func newPredictRequest(modelName string, modelVersion int64, rows [][]int32) (*tf_serving.PredictRequest, error) {
	res := &tf_serving.PredictRequest{
		ModelSpec: newModelSpec(modelName, modelVersion),
		Inputs:    make(map[string]*tf_framework.TensorProto),
	}
	l := len(rows[0])
	data := make([]int32, 0, len(rows)*l)
	for i, r := range rows {
		if len(r) != l {
			return nil, errors.Errorf("Row %d length %d, expected %d", i, len(r), l)
		}
		data = append(data, r...)
	}
	res.Inputs[inputName] = &tf_framework.TensorProto{
		Dtype: tf_framework.DataType_DT_INT32,
		TensorShape: &tf_framework.TensorShapeProto{
			Dim: []*tf_framework.TensorShapeProto_Dim{
				{Size: int64(len(rows))},
				{Size: int64(l)},
			},
		},
		IntVal: data,
	}
	return res, nil
}

func newModelStatusRequest(modelName string, modelVersion int64) *tf_serving.GetModelStatusRequest {
	return &tf_serving.GetModelStatusRequest{ModelSpec: newModelSpec(modelName, modelVersion)}
}

// version 0 selects the latest model version
func newModelSpec(modelName string, modelVersion int64) *tf_serving.ModelSpec {
	res := &tf_serving.ModelSpec{Name: modelName}
	if modelVersion > 0 {
		res.VersionChoice = &tf_serving.ModelSpec_Version{Version: wrapperspb.Int64(modelVersion)}
	}
	return res
}
