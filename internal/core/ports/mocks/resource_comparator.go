package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/olusolaa/helm-guard/internal/core/domain"
)

type ResourceComparator struct {
	mock.Mock
}

func (_m *ResourceComparator) Selection(desired []domain.Resource) domain.ReportSelection {
	ret := _m.Called(desired)
	return ret.Get(0).(domain.ReportSelection)
}

func (_m *ResourceComparator) Compare(ctx context.Context, desired, live []domain.Resource) (domain.ComparisonOutcome, error) {
	ret := _m.Called(ctx, desired, live)
	return ret.Get(0).(domain.ComparisonOutcome), ret.Error(1)
}

func NewResourceComparator(t interface {
	mock.TestingT
	Cleanup(func())
}) *ResourceComparator {
	m := &ResourceComparator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
