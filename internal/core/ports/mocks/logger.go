package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/olusolaa/helm-guard/internal/core/ports"
)

// Logger is a mock of ports.Logger. Variadic arguments are recorded as one
// []any argument so a single mock.Anything matches any of them.
type Logger struct {
	mock.Mock
}

func (_m *Logger) Debugf(ctx context.Context, format string, args ...any) {
	_m.Called(ctx, format, args)
}

func (_m *Logger) Infof(ctx context.Context, format string, args ...any) {
	_m.Called(ctx, format, args)
}

func (_m *Logger) Warnf(ctx context.Context, format string, args ...any) {
	_m.Called(ctx, format, args)
}

func (_m *Logger) Errorf(ctx context.Context, err error, format string, args ...any) {
	_m.Called(ctx, err, format, args)
}

func (_m *Logger) WithFields(fields map[string]any) ports.Logger {
	ret := _m.Called(fields)
	if rf, ok := ret.Get(0).(func(map[string]any) ports.Logger); ok {
		return rf(fields)
	}
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).(ports.Logger)
}

// NewLogger returns a Logger that accepts every call.
func NewLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *Logger {
	m := &Logger{}
	m.Mock.Test(t)
	m.On("Debugf", mock.Anything, mock.Anything, mock.Anything).Maybe().Return()
	m.On("Infof", mock.Anything, mock.Anything, mock.Anything).Maybe().Return()
	m.On("Warnf", mock.Anything, mock.Anything, mock.Anything).Maybe().Return()
	m.On("Errorf", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe().Return()
	m.On("WithFields", mock.Anything).Maybe().Return(m)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
