package models

// Site represents a survey site: a named coordinate with the size of the
// circular region (given as an area) that should be surveyed around it.
type Site struct {
	ID      int     // ID is the unique identifier for the site.
	Name    string  // Name is a human-readable label for the site.
	Center  Coordinates
	AreaKm2 float64 // AreaKm2 is the surveyed area in square kilometers.
}
