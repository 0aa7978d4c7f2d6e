package classify

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"bitbucket.org/airenas/textcnn/internal/app/classify/api"
	"bitbucket.org/airenas/textcnn/internal/pkg/test/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var classifierMock *mocks.Classifier

func initTest(t *testing.T) {
	classifierMock = &mocks.Classifier{}
	classifierMock.On("Classify", mock.Anything).Return([]*api.Prediction{{Label: "part_of"}}, nil)
}

func TestWrongPath(t *testing.T) {
	initTest(t)
	req := httptest.NewRequest("GET", "/invalid", nil)
	resp := httptest.NewRecorder()
	NewRouter(newData()).ServeHTTP(resp, req)
	assert.Equal(t, 404, resp.Code)
}

func TestWrongMethod(t *testing.T) {
	initTest(t)
	req := httptest.NewRequest("GET", "/classify", nil)
	resp := httptest.NewRecorder()
	NewRouter(newData()).ServeHTTP(resp, req)
	assert.Equal(t, 405, resp.Code)
}

func TestProcess(t *testing.T) {
	initTest(t)
	req := httptest.NewRequest("POST", "/classify", newInput(&Input{Features: "feat1:1 feat2:1"}))
	resp := httptest.NewRecorder()
	NewRouter(newData()).ServeHTTP(resp, req)
	assert.Equal(t, 200, resp.Code)
	classifierMock.AssertCalled(t, "Classify", []string{"feat1:1 feat2:1"})
}

func TestNoData(t *testing.T) {
	initTest(t)
	req := httptest.NewRequest("POST", "/classify", nil)
	resp := httptest.NewRecorder()
	NewRouter(newData()).ServeHTTP(resp, req)
	assert.Equal(t, 400, resp.Code)
}

func TestEmptyFeatures(t *testing.T) {
	initTest(t)
	req := httptest.NewRequest("POST", "/classify", newInput(&Input{Features: " "}))
	resp := httptest.NewRecorder()
	NewRouter(newData()).ServeHTTP(resp, req)
	assert.Equal(t, 400, resp.Code)
	classifierMock.AssertNotCalled(t, "Classify", mock.Anything)
}

func TestEmptyLineInList(t *testing.T) {
	initTest(t)
	req := httptest.NewRequest("POST", "/classify", newInput(&Input{FeaturesList: []string{"a:1", ""}}))
	resp := httptest.NewRecorder()
	NewRouter(newData()).ServeHTTP(resp, req)
	assert.Equal(t, 400, resp.Code)
}

func TestOutput(t *testing.T) {
	initTest(t)
	classifierMock.ExpectedCalls = nil
	classifierMock.On("Classify", mock.Anything).Return([]*api.Prediction{
		{Label: "located_in", Inverted: true, Scores: []float32{0.2, 0.8}}}, nil)
	req := httptest.NewRequest("POST", "/classify", newInput(&Input{Features: "feat1:1"}))
	resp := httptest.NewRecorder()
	NewRouter(newData()).ServeHTTP(resp, req)
	assert.Equal(t, 200, resp.Code)
	var output Result
	decode(t, resp.Body, &output)
	assert.Equal(t, "located_in", output.Label)
	assert.True(t, output.Inverted)
	assert.Equal(t, []float32{0.2, 0.8}, output.Scores)
}

func TestListOutput(t *testing.T) {
	initTest(t)
	classifierMock.ExpectedCalls = nil
	classifierMock.On("Classify", mock.Anything).Return([]*api.Prediction{
		{Label: "none"}, {Label: "part_of"}}, nil)
	req := httptest.NewRequest("POST", "/classify", newInput(&Input{FeaturesList: []string{"a:1", "b:1"}}))
	resp := httptest.NewRecorder()
	NewRouter(newData()).ServeHTTP(resp, req)
	assert.Equal(t, 200, resp.Code)
	var output ListOutput
	decode(t, resp.Body, &output)
	if assert.Equal(t, 2, len(output.Results)) {
		assert.Equal(t, "none", output.Results[0].Label)
		assert.Equal(t, "part_of", output.Results[1].Label)
	}
}

func TestFail(t *testing.T) {
	initTest(t)
	classifierMock.ExpectedCalls = nil
	classifierMock.On("Classify", mock.Anything).Return(nil, errors.New("olia"))
	req := httptest.NewRequest("POST", "/classify", newInput(&Input{Features: "a:1"}))
	resp := httptest.NewRecorder()
	NewRouter(newData()).ServeHTTP(resp, req)
	assert.Equal(t, 500, resp.Code)
}

func TestFail_WrongCount(t *testing.T) {
	initTest(t)
	req := httptest.NewRequest("POST", "/classify", newInput(&Input{FeaturesList: []string{"a:1", "b:1"}}))
	resp := httptest.NewRecorder()
	NewRouter(newData()).ServeHTTP(resp, req)
	assert.Equal(t, 500, resp.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	initTest(t)
	data := newData()
	assert.Nil(t, initMetrics(data))
	req := httptest.NewRequest("POST", "/classify", newInput(&Input{Features: "a:1"}))
	resp := httptest.NewRecorder()
	NewRouter(data).ServeHTTP(resp, req)
	assert.Equal(t, 200, resp.Code)

	req = httptest.NewRequest("GET", "/metrics", nil)
	resp = httptest.NewRecorder()
	NewRouter(data).ServeHTTP(resp, req)
	assert.Equal(t, 200, resp.Code)
	assert.Contains(t, resp.Body.String(), "classify_service_request_durations_seconds")
}

func newData() *ServiceData {
	return &ServiceData{classifier: classifierMock}
}

func newInput(in *Input) io.Reader {
	b := new(bytes.Buffer)
	json.NewEncoder(b).Encode(in)
	return strings.NewReader(b.String())
}

func decode(t *testing.T, r io.Reader, v interface{}) {
	t.Helper()
	assert.Nil(t, json.NewDecoder(r).Decode(v))
}
