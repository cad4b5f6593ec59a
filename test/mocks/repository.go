// Package mocks provides testify mocks for the service-layer dependencies.
package mocks

import (
	"context"

	"github.com/UnknownOlympus/naturae/internal/models"
	"github.com/stretchr/testify/mock"
)

// Interface is a mock of repository.Interface.
type Interface struct {
	mock.Mock
}

// NewInterface creates a new repository mock and registers a cleanup hook
// asserting that every expectation was met.
func NewInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *Interface {
	m := &Interface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *Interface) FetchDueSites(ctx context.Context, limit int) ([]models.Site, error) {
	args := m.Called(ctx, limit)

	var sites []models.Site
	if args.Get(0) != nil {
		sites, _ = args.Get(0).([]models.Site)
	}

	return sites, args.Error(1)
}

func (m *Interface) RecordSpecies(
	ctx context.Context,
	siteID int,
	filter models.StatusFilter,
	records []models.SpeciesRecord,
) error {
	args := m.Called(ctx, siteID, filter, records)

	return args.Error(0)
}

func (m *Interface) MarkSurveyed(ctx context.Context, siteID int) error {
	args := m.Called(ctx, siteID)

	return args.Error(0)
}

func (m *Interface) IncrementFailureCount(ctx context.Context, siteID int, errMsg string) error {
	args := m.Called(ctx, siteID, errMsg)

	return args.Error(0)
}
