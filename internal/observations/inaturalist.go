package observations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/naturae/internal/models"
	"golang.org/x/time/rate"
)

// INaturalistBaseURL -- iNaturalist species-counts API endpoint.
const INaturalistBaseURL = "https://api.inaturalist.org/v1/observations/species_counts"

// perPage is the page size requested from the platform. 200 is the
// maximum iNaturalist allows per request.
const perPage = 200

// INaturalistProvider implements the Provider interface using the public
// iNaturalist API. The API is free with a fair-use recommendation of
// roughly one request per second, enforced here with a rate limiter.
type INaturalistProvider struct {
	client   HTTPClient    // HTTP client for making requests
	baseURL  string        // Base URL for the species-counts endpoint
	apiToken string        // Optional API token; anonymous access is allowed
	log      *slog.Logger  // Logger for logging operations
	limiter  *rate.Limiter // Rate limiter, applied per page request
	// userAgent identifies the service per iNaturalist API recommendations
	userAgent string
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// inaturalistResponse represents the JSON response from the
// species-counts endpoint. Only the fields the service uses are mapped.
type inaturalistResponse struct {
	TotalResults int `json:"total_results"` // Total matching taxa across all pages
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
	Results      []struct {
		Count int `json:"count"` // Observation count for this taxon
		Taxon struct {
			ID                  int    `json:"id"`
			Name                string `json:"name"`
			Rank                string `json:"rank"`
			PreferredCommonName string `json:"preferred_common_name"`
		} `json:"taxon"`
	} `json:"results"`
}

// Common errors for the iNaturalist provider.
var (
	ErrINaturalistStalledPage = errors.New("inaturalist API returned an empty page before the reported total")
)

// NewINaturalistProvider creates a new iNaturalist observations provider.
// Uses the public API endpoint by default.
func NewINaturalistProvider(apiToken string, rateLimit int, log *slog.Logger) *INaturalistProvider {
	const timeout = 15

	return &INaturalistProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL:  INaturalistBaseURL,
		apiToken: apiToken,
		log:      log,
		limiter:  rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		// User-Agent should identify the application per iNaturalist
		// API recommended practices: https://api.inaturalist.org/v1/docs/
		userAgent: "Naturae-Survey-Service/1.0 (https://github.com/UnknownOlympus/naturae)",
	}
}

// NewINaturalistProviderWithClient allows injecting a custom HTTP client
// and limiter. Useful for testing with mocked HTTP clients.
func NewINaturalistProviderWithClient(
	client HTTPClient,
	apiToken string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *INaturalistProvider {
	return &INaturalistProvider{
		client:    client,
		baseURL:   INaturalistBaseURL,
		apiToken:  apiToken,
		log:       log,
		limiter:   limiter,
		userAgent: "Naturae-Survey-Service/1.0 (https://github.com/UnknownOlympus/naturae)",
	}
}

// SpeciesCounts queries the species-counts endpoint for every taxon
// observed inside the query region and returns one record per taxon.
// The endpoint is paginated; this method walks all pages of 200 until the
// reported total is covered, so callers never see pagination. An empty
// region is not an error, it simply yields an empty list.
func (ip *INaturalistProvider) SpeciesCounts(ctx context.Context, query Query) ([]models.SpeciesRecord, error) {
	ip.log.DebugContext(ctx, "Querying species counts",
		"lat", query.Latitude, "lng", query.Longitude, "radius_km", query.RadiusKm)

	var records []models.SpeciesRecord

	for page := 1; ; page++ {
		resp, err := ip.fetchPage(ctx, query, page)
		if err != nil {
			return nil, err
		}

		for _, row := range resp.Results {
			records = append(records, models.SpeciesRecord{
				TaxonID:        row.Taxon.ID,
				ScientificName: row.Taxon.Name,
				CommonName:     row.Taxon.PreferredCommonName,
				Rank:           row.Taxon.Rank,
				ObsCount:       row.Count,
			})
		}

		if len(records) >= resp.TotalResults {
			break
		}

		// The platform reported more results than it handed out; bail
		// out instead of requesting the same empty page forever.
		if len(resp.Results) == 0 {
			return nil, fmt.Errorf("%w: got %d of %d results", ErrINaturalistStalledPage, len(records), resp.TotalResults)
		}
	}

	ip.log.DebugContext(ctx, "Species counts query finished", "taxa", len(records))

	return records, nil
}

// fetchPage performs a single species-counts request for one page.
func (ip *INaturalistProvider) fetchPage(ctx context.Context, query Query, page int) (*inaturalistResponse, error) {
	// Respect the platform's fair-use rate limit across page requests.
	if err := ip.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	reqURL, err := url.Parse(ip.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("lat", strconv.FormatFloat(query.Latitude, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(query.Longitude, 'f', -1, 64))
	params.Set("radius", strconv.FormatFloat(query.RadiusKm, 'f', -1, 64))
	params.Set("quality_grade", query.QualityGrade)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))

	// Status filters are only sent when the caller set them; sending
	// "threatened=false" means something different from omitting it.
	if query.Threatened != nil {
		params.Set("threatened", strconv.FormatBool(*query.Threatened))
	}
	if query.Introduced != nil {
		params.Set("introduced", strconv.FormatBool(*query.Introduced))
	}
	reqURL.RawQuery = params.Encode()

	ip.log.DebugContext(ctx, "iNaturalist request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", ip.userAgent)
	req.Header.Set("Accept", "application/json")
	if ip.apiToken != "" {
		req.Header.Set("Authorization", ip.apiToken)
	}

	resp, err := ip.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute species counts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		ip.log.ErrorContext(ctx, "iNaturalist API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("inaturalist API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed inaturalistResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		ip.log.ErrorContext(ctx, "Failed to parse iNaturalist response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode inaturalist response: %w", err)
	}

	return &parsed, nil
}
