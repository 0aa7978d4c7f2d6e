package mocks

import (
	"bitbucket.org/airenas/textcnn/internal/pkg/mongo"
	"github.com/stretchr/testify/mock"
)

//RunSaver is a mock
type RunSaver struct {
	mock.Mock
}

//Save is a mocked Save function
func (m *RunSaver) Save(data *mongo.RunData) error {
	args := m.Mock.Called(data)
	return args.Error(0)
}
