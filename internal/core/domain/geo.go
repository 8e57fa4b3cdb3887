package domain

import "math"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DefaultQueryLocation is Siam, the point evaluated before any user selection.
var DefaultQueryLocation = GeoPoint{Lat: 13.7455, Lon: 100.5340}

// Validate reports an InvalidCoordinateError when p is not a usable WGS 84 coordinate.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) ||
		math.Abs(p.Lat) > 90 || math.Abs(p.Lon) > 180 {
		return &InvalidCoordinateError{Lat: p.Lat, Lon: p.Lon}
	}
	return nil
}
