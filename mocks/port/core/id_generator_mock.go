package core

import (
	"github.com/stretchr/testify/mock"
)

// MockIDGenerator is a mock implementation of the IDGenerator interface
type MockIDGenerator struct {
	mock.Mock
}

// NewID mocks the NewID method
func (m *MockIDGenerator) NewID() string {
	args := m.Called()
	return args.String(0)
}
