package mocks

import (
	"context"

	"github.com/UnknownOlympus/naturae/internal/models"
	"github.com/UnknownOlympus/naturae/internal/observations"
	"github.com/stretchr/testify/mock"
)

// Provider is a mock of observations.Provider.
type Provider struct {
	mock.Mock
}

// NewProvider creates a new provider mock and registers a cleanup hook
// asserting that every expectation was met.
func NewProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *Provider {
	m := &Provider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *Provider) SpeciesCounts(ctx context.Context, query observations.Query) ([]models.SpeciesRecord, error) {
	args := m.Called(ctx, query)

	var records []models.SpeciesRecord
	if args.Get(0) != nil {
		records, _ = args.Get(0).([]models.SpeciesRecord)
	}

	return records, args.Error(1)
}
