package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
)

type DesiredStateProvider struct {
	mock.Mock
}

func (_m *DesiredStateProvider) Type() string {
	ret := _m.Called()
	return ret.String(0)
}

func (_m *DesiredStateProvider) Render(ctx context.Context, req ports.RenderRequest) ([]domain.Resource, error) {
	ret := _m.Called(ctx, req)
	var r0 []domain.Resource
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Resource)
	}
	return r0, ret.Error(1)
}

func NewDesiredStateProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *DesiredStateProvider {
	m := &DesiredStateProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
