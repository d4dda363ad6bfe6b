package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
)

type LiveStateProvider struct {
	mock.Mock
}

func (_m *LiveStateProvider) Type() string {
	ret := _m.Called()
	return ret.String(0)
}

func (_m *LiveStateProvider) ListResources(ctx context.Context, query ports.LiveQuery) ([]domain.Resource, error) {
	ret := _m.Called(ctx, query)
	var r0 []domain.Resource
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Resource)
	}
	return r0, ret.Error(1)
}

func NewLiveStateProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *LiveStateProvider {
	m := &LiveStateProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
