package observations

import (
	"fmt"
	"log/slog"
)

// ProviderType represents the type of observation-data provider.
type ProviderType string

const (
	// ProviderTypeINaturalist represents the public iNaturalist API.
	ProviderTypeINaturalist ProviderType = "inaturalist"
)

// ProviderConfig holds configuration for creating an observations provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	APIToken  string       // Optional API token (iNaturalist allows anonymous access)
	RateLimit int          // Rate limit for requests per second
	Logger    *slog.Logger // Logger for the provider
}

// NewProvider creates an observations provider based on the provided
// configuration. It applies the Factory pattern to decouple provider
// instantiation from business logic, so additional observation platforms
// can be added without touching callers.
//
// Supported provider types:
// - "inaturalist": the public iNaturalist species-counts API (token optional)
//
// Returns an error if the provider type is unsupported.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeINaturalist:
		return newINaturalistProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// newINaturalistProvider creates an iNaturalist observations provider.
func newINaturalistProvider(config ProviderConfig) (Provider, error) {
	if config.RateLimit == 0 {
		config.RateLimit = 1
		config.Logger.Warn("Rate limit for iNaturalist API not set, set a default value", "value", config.RateLimit)
	}

	return NewINaturalistProvider(config.APIToken, config.RateLimit, config.Logger), nil
}
