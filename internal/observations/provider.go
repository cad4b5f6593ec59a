package observations

import (
	"context"

	"github.com/UnknownOlympus/naturae/internal/models"
)

// Query holds the parameters of a species-counts request: the circular
// region to search and the optional status filters. A nil Threatened or
// Introduced pointer means the corresponding filter is not sent upstream
// at all, which is different from sending it as false.
type Query struct {
	Latitude     float64 // Latitude of the region center.
	Longitude    float64 // Longitude of the region center.
	RadiusKm     float64 // RadiusKm is the search radius around the center.
	QualityGrade string  // QualityGrade filters observations by verification level, e.g. "research".
	Threatened   *bool   // Threatened filters by conservation status when set.
	Introduced   *bool   // Introduced filters by origin status when set.
}

// Provider is an interface that defines a method for querying species
// observation counts. The SpeciesCounts method takes a context and a query
// describing a circular region plus optional filters, and returns one
// record per observed taxon. Pagination against the upstream platform is
// handled inside the provider; callers always receive the complete list.
type Provider interface {
	SpeciesCounts(ctx context.Context, query Query) ([]models.SpeciesRecord, error)
}
