package domain

import "fmt"

// EmptyInputError is returned when a proximity query runs against no candidates.
type EmptyInputError struct {
	Dataset string
}

func (e *EmptyInputError) Error() string {
	if e.Dataset == "" {
		return "empty input: no candidates"
	}
	return fmt.Sprintf("empty input: dataset %q has no entries", e.Dataset)
}

// InvalidCoordinateError is returned for latitudes outside ±90, longitudes
// outside ±180, or non-finite values.
type InvalidCoordinateError struct {
	Lat float64
	Lon float64
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%v lon=%v", e.Lat, e.Lon)
}

// InvalidRadiusError is returned for negative or non-finite search radii.
type InvalidRadiusError struct {
	Radius float64
}

func (e *InvalidRadiusError) Error() string {
	return fmt.Sprintf("invalid radius: %v meters", e.Radius)
}
