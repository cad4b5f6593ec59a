// Package geo holds the small geometric conversions the survey service
// needs to translate site definitions into platform query parameters.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// ErrNegativeArea is returned when an area below zero is given to AreaToRadiusKm.
var ErrNegativeArea = errors.New("area must be non-negative")

// AreaToRadiusKm converts a circular area in square kilometers into the
// radius in kilometers of the circle covering it: sqrt(area / pi).
// A zero area yields a zero radius. A negative area is a domain error,
// never clamped.
func AreaToRadiusKm(areaKm2 float64) (float64, error) {
	if areaKm2 < 0 {
		return 0, fmt.Errorf("%w: got %g km2", ErrNegativeArea, areaKm2)
	}

	return math.Sqrt(areaKm2 / math.Pi), nil
}
