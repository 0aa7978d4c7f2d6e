package mocks

import (
	"bitbucket.org/airenas/textcnn/internal/app/classify/api"
	"github.com/stretchr/testify/mock"
)

//Classifier is a mock
type Classifier struct {
	mock.Mock
}

//Classify is a mocked Classify function
func (m *Classifier) Classify(lines []string) ([]*api.Prediction, error) {
	args := m.Mock.Called(lines)
	res, _ := args.Get(0).([]*api.Prediction)
	return res, args.Error(1)
}
