package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/naturae/internal/geo"
	"github.com/UnknownOlympus/naturae/internal/metrics"
	"github.com/UnknownOlympus/naturae/internal/models"
	"github.com/UnknownOlympus/naturae/internal/observations"
	"github.com/UnknownOlympus/naturae/internal/repository"
)

// statusFilters lists the filtered queries every site survey runs. Each
// filter produces its own species-counts request and its own record set.
var statusFilters = []models.StatusFilter{models.FilterThreatened, models.FilterIntroduced}

// SurveyService provides methods for periodic species surveys, including
// logging, repository access, provider integration, metrics tracking, and
// worker management.
type SurveyService struct {
	log          *slog.Logger          // Logger for logging service activities
	repo         repository.Interface  // Interface for data repository access
	provider     observations.Provider // Provider for the external observations platform
	providerName string                // Name of the provider for metrics labeling
	metrics      *metrics.Metrics      // Metrics for tracking service performance
	numWorkers   int                   // Number of concurrent workers for processing
	pollInterval time.Duration         // Interval for polling due survey sites
	qualityGrade string                // Observation quality grade used for every query
}

// NewSurveyService creates a new instance of SurveyService.
// It takes a logger, a repository interface, an observations provider,
// the provider name for metrics, metrics for monitoring, the number of
// workers to use, a polling interval, and the observation quality grade
// applied to every query. It returns a pointer to the newly created
// SurveyService.
func NewSurveyService(
	log *slog.Logger,
	repo repository.Interface,
	provider observations.Provider,
	providerName string,
	metrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
	qualityGrade string,
) *SurveyService {
	return &SurveyService{
		log:          log,
		repo:         repo,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		numWorkers:   numWorkers,
		pollInterval: pollInterval,
		qualityGrade: qualityGrade,
	}
}

// Run starts the survey service, which periodically polls for sites due a
// new species survey. It listens for a cancellation signal from the context
// to gracefully stop the service.
func (ss *SurveyService) Run(ctx context.Context) {
	ticker := time.NewTicker(ss.pollInterval)
	defer ticker.Stop()

	ss.log.InfoContext(ctx, "Survey service started...")

	for {
		select {
		case <-ctx.Done():
			ss.log.InfoContext(ctx, "Survey service stopped.")
			return
		case <-ticker.C:
			ss.log.InfoContext(ctx, "Polling for sites due a survey...")
			ss.processSites(ctx)
		}
	}
}

// processSites fetches due survey sites from the repository, starts a worker
// pool to survey them, and waits for all workers to finish. It logs errors if
// site fetching fails and logs the status of survey processing.
func (ss *SurveyService) processSites(ctx context.Context) {
	siteLimit := 100
	sites, err := ss.repo.FetchDueSites(ctx, siteLimit)
	if err != nil {
		ss.log.ErrorContext(ctx, "Failed to fetch due sites", "error", err)
		return
	}
	if len(sites) == 0 {
		ss.log.InfoContext(ctx, "No sites to survey.")
		return
	}

	ss.log.InfoContext(
		ctx,
		"Found sites to survey. Starting worker pool.",
		"jobs",
		len(sites),
		"num_workers",
		ss.numWorkers,
	)

	jobs := make(chan models.Site, len(sites))
	var wgr sync.WaitGroup

	for i := 1; i <= ss.numWorkers; i++ {
		wgr.Add(1)
		go ss.worker(ctx, i, &wgr, jobs)
	}

	for _, site := range sites {
		jobs <- site
	}
	close(jobs)

	wgr.Wait()
	ss.log.InfoContext(ctx, "Processing batch finished")
}

// worker surveys sites from the jobs channel. It increments the active
// worker count, runs one filtered species query per status filter, persists
// the records, and measures the time taken per provider request. On any
// failure it updates the site's failure count and moves on; a site is only
// marked surveyed when every filter succeeded.
func (ss *SurveyService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Site) {
	defer wg.Done()
	for site := range jobs {
		ss.metrics.ActiveWorkers.Inc()
		ss.log.DebugContext(ctx, "Surveying site", "worker", idx, "site", site.ID)

		if err := ss.surveySite(ctx, site); err != nil {
			ss.log.ErrorContext(ctx, "Failed to survey site", "worker", idx, "site", site.ID, "error", err)
			ss.metrics.SurveysProcessed.WithLabelValues("failure").Inc()

			if err = ss.repo.IncrementFailureCount(ctx, site.ID, err.Error()); err != nil {
				ss.log.ErrorContext(
					ctx,
					"Could not update failure count for site",
					"worker", idx,
					"site", site.ID,
					"error", err,
				)
			}
			ss.metrics.ActiveWorkers.Dec()
			continue
		}

		ss.metrics.SurveysProcessed.WithLabelValues("success").Inc()

		if err := ss.repo.MarkSurveyed(ctx, site.ID); err != nil {
			ss.log.ErrorContext(
				ctx,
				"Failed to mark site as surveyed",
				"worker", idx,
				"site", site.ID,
				"error", err,
			)
		} else {
			ss.log.DebugContext(ctx, "Worker successfully surveyed the site", "worker", idx, "site", site.ID)
		}

		ss.metrics.ActiveWorkers.Dec()
	}
}

// surveySite runs one filtered species-counts query per status filter for
// the site and persists each record set. The site's area is converted to the
// query radius up front; a site with a bad area never reaches the provider.
func (ss *SurveyService) surveySite(ctx context.Context, site models.Site) error {
	radius, err := geo.AreaToRadiusKm(site.AreaKm2)
	if err != nil {
		return err
	}

	for _, filter := range statusFilters {
		records, err := ss.fetchSpecies(ctx, site, radius, filter)
		if err != nil {
			ss.metrics.APIErrors.Inc()
			return err
		}

		if err = ss.repo.RecordSpecies(ctx, site.ID, filter, records); err != nil {
			return err
		}
		ss.metrics.SpeciesRecorded.Add(float64(len(records)))
	}

	return nil
}

// fetchSpecies performs a single filtered provider query for the site,
// observing the request duration.
func (ss *SurveyService) fetchSpecies(
	ctx context.Context,
	site models.Site,
	radius float64,
	filter models.StatusFilter,
) ([]models.SpeciesRecord, error) {
	enabled := true
	query := observations.Query{
		Latitude:     site.Center.Latitude,
		Longitude:    site.Center.Longitude,
		RadiusKm:     radius,
		QualityGrade: ss.qualityGrade,
	}

	switch filter {
	case models.FilterThreatened:
		query.Threatened = &enabled
	case models.FilterIntroduced:
		query.Introduced = &enabled
	}

	startTime := time.Now()
	records, err := ss.provider.SpeciesCounts(ctx, query)
	duration := time.Since(startTime).Seconds()
	ss.metrics.RequestSeconds.WithLabelValues(ss.providerName).Observe(duration)

	return records, err
}
