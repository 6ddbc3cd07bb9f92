package model

import (
	cropErrors "cropadvisor/common/errors"
	"cropadvisor/crop-advisor-service/pkg/model"

	"github.com/stretchr/testify/mock"
)

// MockTransformer is a mock implementation for the model.Transformer interface
type MockTransformer struct {
	mock.Mock
}

func (m *MockTransformer) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockTransformer) NFeatures() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockTransformer) Transform(x model.Matrix) (model.Matrix, cropErrors.CropError) {
	args := m.Called(x)
	var res model.Matrix
	switch ret := args.Get(0).(type) {
	case func(model.Matrix) model.Matrix:
		res = ret(x)
	case model.Matrix:
		res = ret
	}
	var err cropErrors.CropError
	if args.Get(1) != nil {
		err = args.Get(1).(cropErrors.CropError)
	}
	return res, err
}

// MockClassifier is a mock implementation for the model.Classifier interface
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClassifier) NFeatures() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockClassifier) Classes() []float64 {
	args := m.Called()
	var res []float64
	if args.Get(0) != nil {
		res = args.Get(0).([]float64)
	}
	return res
}

func (m *MockClassifier) Predict(x model.Matrix) ([]float64, cropErrors.CropError) {
	args := m.Called(x)
	var res []float64
	if args.Get(0) != nil {
		res = args.Get(0).([]float64)
	}
	var err cropErrors.CropError
	if args.Get(1) != nil {
		err = args.Get(1).(cropErrors.CropError)
	}
	return res, err
}

// NewPassThroughTransformer returns a MockTransformer that hands its input back unchanged.
func NewPassThroughTransformer(name string, nFeatures int) *MockTransformer {
	m := &MockTransformer{}
	m.On("Name").Return(name)
	m.On("NFeatures").Return(nFeatures)
	m.On("Transform", mock.Anything).Return(func(x model.Matrix) model.Matrix { return x }, nil)
	return m
}

// NewFixedClassifier returns a MockClassifier that always predicts class.
func NewFixedClassifier(class float64, nFeatures int) *MockClassifier {
	m := &MockClassifier{}
	m.On("Name").Return("MockClassifier")
	m.On("NFeatures").Return(nFeatures)
	m.On("Classes").Return([]float64{class})
	m.On("Predict", mock.Anything).Return([]float64{class}, nil)
	return m
}
