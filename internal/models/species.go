package models

// StatusFilter narrows a species query to taxa with a particular
// conservation or origin status recognized by the observation platform.
type StatusFilter string

const (
	// FilterThreatened selects taxa flagged as threatened by the platform.
	FilterThreatened StatusFilter = "threatened"
	// FilterIntroduced selects taxa that are introduced (non-native) in the area.
	FilterIntroduced StatusFilter = "introduced"
)

// SpeciesRecord is one normalized row of a species-counts response:
// a taxon together with the number of verified observations of it
// inside the queried region.
type SpeciesRecord struct {
	TaxonID        int    // TaxonID is the platform's identifier for the taxon.
	ScientificName string // ScientificName is the latin binomial name.
	CommonName     string // CommonName is the preferred common name; empty when the platform has none.
	Rank           string // Rank is the taxonomic rank (species, genus, ...).
	ObsCount       int    // ObsCount is the number of observations inside the region.
}

// DisplayName returns the common name when the platform provides one,
// otherwise the scientific name.
func (s SpeciesRecord) DisplayName() string {
	if s.CommonName != "" {
		return s.CommonName
	}
	return s.ScientificName
}
