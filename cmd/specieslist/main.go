// Command specieslist runs a one-shot species survey for a single
// coordinate and prints the threatened and introduced species found there,
// one name per line. It talks to the observations platform directly and
// needs no database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/UnknownOlympus/naturae/internal/geo"
	"github.com/UnknownOlympus/naturae/internal/models"
	"github.com/UnknownOlympus/naturae/internal/observations"
)

func main() {
	lat := flag.Float64("lat", 59.9139, "latitude of the region center")
	lng := flag.Float64("lng", 10.7522, "longitude of the region center")
	area := flag.Float64("area", 10, "surveyed area in square kilometers")
	quality := flag.String("quality", "research", "observation quality grade")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	provider, err := observations.NewProvider(observations.ProviderConfig{
		Type:     observations.ProviderTypeINaturalist,
		APIToken: os.Getenv("NATURAE_PROVIDER_TOKEN"),
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to create observations provider: %v", err)
	}

	radius, err := geo.AreaToRadiusKm(*area)
	if err != nil {
		log.Fatalf("Invalid area: %v", err)
	}

	ctx := context.Background()

	threatened, err := fetchSpecies(ctx, provider, *lat, *lng, radius, *quality, models.FilterThreatened)
	if err != nil {
		log.Fatalf("Failed to fetch threatened species: %v", err)
	}

	introduced, err := fetchSpecies(ctx, provider, *lat, *lng, radius, *quality, models.FilterIntroduced)
	if err != nil {
		log.Fatalf("Failed to fetch introduced species: %v", err)
	}

	fmt.Println("\nThreatened species:")
	for _, record := range threatened {
		fmt.Println(record.DisplayName())
	}

	fmt.Println("\nIntroduced species:")
	for _, record := range introduced {
		fmt.Println(record.DisplayName())
	}
}

// fetchSpecies runs one filtered species-counts query against the provider.
func fetchSpecies(
	ctx context.Context,
	provider observations.Provider,
	lat, lng, radius float64,
	quality string,
	filter models.StatusFilter,
) ([]models.SpeciesRecord, error) {
	enabled := true
	query := observations.Query{
		Latitude:     lat,
		Longitude:    lng,
		RadiusKm:     radius,
		QualityGrade: quality,
	}

	switch filter {
	case models.FilterThreatened:
		query.Threatened = &enabled
	case models.FilterIntroduced:
		query.Introduced = &enabled
	}

	return provider.SpeciesCounts(ctx, query)
}
