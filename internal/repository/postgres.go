package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/naturae/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDatabase creates a pgx connection pool for the given PostgreSQL
// instance and verifies connectivity with a ping before returning it.
func NewDatabase(host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// FetchDueSites retrieves survey sites that are due for a new species survey.
// It returns active sites whose last survey is older than their configured
// survey interval (or that have never been surveyed), have fewer than 5
// failed attempts, and carry a usable area. The results are ordered so the
// longest-unsurveyed sites come first, limited to the specified count.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - limit: The maximum number of sites to retrieve.
//
// Returns:
// - A slice of models.Site containing the sites that match the criteria.
// - An error if the query fails or if there is an issue scanning the results.
func (r *Repository) FetchDueSites(ctx context.Context, limit int) ([]models.Site, error) {
	var sites []models.Site
	query := `
		SELECT site_id, name, latitude, longitude, area_km2
		FROM public.sites
		WHERE
			is_active = true
			AND survey_failures < 5
			AND area_km2 > 0
			AND (last_surveyed_at IS NULL OR last_surveyed_at < NOW() - survey_every)
		ORDER BY last_surveyed_at ASC NULLS FIRST
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due survey sites: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var site models.Site
		if errScan := rows.Scan(
			&site.ID, &site.Name, &site.Center.Latitude, &site.Center.Longitude, &site.AreaKm2,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan due survey site: %w", errScan)
		}
		r.log.DebugContext(ctx, "A site due for a species survey has been received.",
			"ID", site.ID, "Name", site.Name)
		sites = append(sites, site)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return sites, nil
}

// RecordSpecies stores the species records obtained for a site under the
// given status filter. Records are upserted per (site, filter, taxon), so a
// repeated survey refreshes the observation counts instead of duplicating
// rows. An empty common name is stored as NULL.
func (r *Repository) RecordSpecies(
	ctx context.Context,
	siteID int,
	filter models.StatusFilter,
	records []models.SpeciesRecord,
) error {
	query := `
		INSERT INTO species_records
			(site_id, status_filter, taxon_id, scientific_name, common_name, rank, obs_count, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (site_id, status_filter, taxon_id)
		DO UPDATE SET
			scientific_name = EXCLUDED.scientific_name,
			common_name = EXCLUDED.common_name,
			rank = EXCLUDED.rank,
			obs_count = EXCLUDED.obs_count,
			recorded_at = NOW();
	`

	for _, record := range records {
		var commonName *string
		if record.CommonName != "" {
			commonName = &record.CommonName
		}

		_, err := r.db.Exec(ctx, query,
			siteID, string(filter), record.TaxonID, record.ScientificName, commonName, record.Rank, record.ObsCount,
		)
		if err != nil {
			return fmt.Errorf("failed to record species %d for site %d: %w", record.TaxonID, siteID, err)
		}
	}

	return nil
}

// MarkSurveyed stamps the site with the current time as its last successful
// survey and clears any stored survey error.
func (r *Repository) MarkSurveyed(ctx context.Context, siteID int) error {
	query := `
		UPDATE sites
		SET
			last_surveyed_at = NOW(),
			survey_error = NULL
		WHERE
			site_id = $1;
	`

	_, err := r.db.Exec(ctx, query, siteID)
	if err != nil {
		return fmt.Errorf("failed to mark site as surveyed: %w", err)
	}

	return nil
}

// IncrementFailureCount increments the survey attempt count for a specific
// site identified by siteID and updates the associated error message. If the
// update operation fails, it returns an error with additional context.
func (r *Repository) IncrementFailureCount(ctx context.Context, siteID int, errMsg string) error {
	query := `
		UPDATE sites
		SET
			survey_failures = survey_failures + 1,
			survey_error = $1
		WHERE site_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, siteID)
	if err != nil {
		return fmt.Errorf("failed to update survey error and number of attempts: %w", err)
	}

	return nil
}
