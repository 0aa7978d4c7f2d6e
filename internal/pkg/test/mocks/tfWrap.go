package mocks

import (
	"github.com/stretchr/testify/mock"
)

//TFWrap is a mock
type TFWrap struct {
	mock.Mock
}

//Invoke is a mocked Invoke function
func (m *TFWrap) Invoke(rows [][]int32) ([][]float32, error) {
	args := m.Mock.Called(rows)
	res, _ := args.Get(0).([][]float32)
	return res, args.Error(1)
}
