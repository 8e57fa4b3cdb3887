package dataset

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
)

// Feature kinds written to the "kind" property.
const (
	KindStation  = "station"
	KindLandmark = "landmark"
)

// FeatureCollection renders stations and landmarks as GeoJSON points so a map
// client can draw station circles and landmark markers.
func FeatureCollection(stations []domain.TransitStation, landmarks []domain.Landmark) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, s := range stations {
		f := geojson.NewFeature(toOrb(s.Location))
		f.Properties["kind"] = KindStation
		f.Properties["name"] = s.Name
		f.Properties["line"] = s.Line
		if s.Color != "" {
			f.Properties["marker-color"] = s.Color
		}
		fc.Append(f)
	}

	for _, l := range landmarks {
		f := geojson.NewFeature(toOrb(l.Location))
		f.Properties["kind"] = KindLandmark
		f.Properties["name"] = l.Name
		f.Properties["category"] = string(l.Category)
		if l.Icon != "" {
			f.Properties["icon"] = l.Icon
		}
		fc.Append(f)
	}

	return fc
}

// GeoJSON coordinates are [lon, lat].
func toOrb(p domain.GeoPoint) orb.Point {
	return orb.Point{p.Lon, p.Lat}
}
