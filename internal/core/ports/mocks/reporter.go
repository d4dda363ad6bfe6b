package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/olusolaa/helm-guard/internal/core/domain"
)

type Reporter struct {
	mock.Mock
}

func (_m *Reporter) Type() string {
	ret := _m.Called()
	return ret.String(0)
}

func (_m *Reporter) Report(ctx context.Context, report *domain.Report) error {
	ret := _m.Called(ctx, report)
	return ret.Error(0)
}

func NewReporter(t interface {
	mock.TestingT
	Cleanup(func())
}) *Reporter {
	m := &Reporter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
