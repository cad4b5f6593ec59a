package repository_test

import (
	"context"
	"log/slog"
	"regexp"
	"testing"

	"github.com/UnknownOlympus/naturae/internal/models"
	"github.com/UnknownOlympus/naturae/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fetchDueSitesQuery = `
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

const recordSpeciesQuery = `
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

func TestFetchDueSites(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := context.Background()
	limit := 10

	t.Run("error - query due sites", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchDueSitesQuery)).
			WithArgs(limit).
			WillReturnError(assert.AnError)

		sites, err := repo.FetchDueSites(ctx, limit)

		require.Nil(t, sites)
		require.Error(t, err)
		require.ErrorContains(t, err, "failed to query due survey sites")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - scan due sites", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchDueSitesQuery)).
			WithArgs(limit).
			WillReturnRows(
				pgxmock.NewRows([]string{"site_id", "name", "latitude", "longitude", "area_km2"}).
					AddRow("invalid_id", "Oslo fjord", 59.9139, 10.7522, 10.0),
			)

		sites, err := repo.FetchDueSites(ctx, limit)

		require.Nil(t, sites)
		require.Error(t, err)
		require.ErrorContains(t, err, "failed to scan due survey site")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - rows error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchDueSitesQuery)).
			WithArgs(limit).
			WillReturnRows(
				pgxmock.NewRows([]string{"site_id", "name", "latitude", "longitude", "area_km2"}).
					AddRow(1, "Oslo fjord", 59.9139, 10.7522, 10.0).
					RowError(1, assert.AnError),
			)

		sites, err := repo.FetchDueSites(ctx, limit)

		require.Nil(t, sites)
		require.Error(t, err)
		require.ErrorContains(t, err, "failed to read row")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - fetch due sites", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchDueSitesQuery)).
			WithArgs(limit).
			WillReturnRows(
				pgxmock.NewRows([]string{"site_id", "name", "latitude", "longitude", "area_km2"}).
					AddRow(1, "Oslo fjord", 59.9139, 10.7522, 10.0),
			)

		sites, err := repo.FetchDueSites(ctx, limit)

		require.NoError(t, err)
		require.Len(t, sites, 1)
		assert.Equal(t, 1, sites[0].ID)
		assert.Equal(t, "Oslo fjord", sites[0].Name)
		assert.InEpsilon(t, 59.9139, sites[0].Center.Latitude, 0.0001)
		assert.InEpsilon(t, 10.7522, sites[0].Center.Longitude, 0.0001)
		assert.InEpsilon(t, 10.0, sites[0].AreaKm2, 0.0001)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordSpecies(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := context.Background()

	records := []models.SpeciesRecord{
		{TaxonID: 1, ScientificName: "Vulpes vulpes", CommonName: "Red fox", Rank: "species", ObsCount: 5},
		{TaxonID: 2, ScientificName: "Lutra lutra", Rank: "species", ObsCount: 3},
	}

	t.Run("success - upserts every record", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		commonName := "Red fox"
		mock.ExpectExec(regexp.QuoteMeta(recordSpeciesQuery)).
			WithArgs(1, "threatened", 1, "Vulpes vulpes", &commonName, "species", 5).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		// Missing common name is stored as NULL.
		mock.ExpectExec(regexp.QuoteMeta(recordSpeciesQuery)).
			WithArgs(1, "threatened", 2, "Lutra lutra", (*string)(nil), "species", 3).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err = repo.RecordSpecies(ctx, 1, models.FilterThreatened, records)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - insert fails", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		commonName := "Red fox"
		mock.ExpectExec(regexp.QuoteMeta(recordSpeciesQuery)).
			WithArgs(1, "introduced", 1, "Vulpes vulpes", &commonName, "species", 5).
			WillReturnError(assert.AnError)

		err = repo.RecordSpecies(ctx, 1, models.FilterIntroduced, records)

		require.Error(t, err)
		require.ErrorContains(t, err, "failed to record species 1 for site 1")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - no records is a no-op", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		err = repo.RecordSpecies(ctx, 1, models.FilterThreatened, nil)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMarkSurveyed(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := context.Background()

	query := `
		UPDATE sites
		SET
			last_surveyed_at = NOW(),
			survey_error = NULL
		WHERE
			site_id = $1;
	`

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(query)).
			WithArgs(1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err = repo.MarkSurveyed(ctx, 1)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(query)).
			WithArgs(1).
			WillReturnError(assert.AnError)

		err = repo.MarkSurveyed(ctx, 1)

		require.Error(t, err)
		require.ErrorContains(t, err, "failed to mark site as surveyed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIncrementFailureCount(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := context.Background()

	query := `
		UPDATE sites
		SET
			survey_failures = survey_failures + 1,
			survey_error = $1
		WHERE site_id = $2;
	`

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(query)).
			WithArgs("provider unavailable", 2).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err = repo.IncrementFailureCount(ctx, 2, "provider unavailable")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(query)).
			WithArgs("provider unavailable", 2).
			WillReturnError(assert.AnError)

		err = repo.IncrementFailureCount(ctx, 2, "provider unavailable")

		require.Error(t, err)
		require.ErrorContains(t, err, "failed to update survey error and number of attempts")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
