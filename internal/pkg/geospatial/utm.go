package geospatial

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
)

// WGS 84 ellipsoid.
const (
	semiMajorAxis = 6378137.0
	flattening    = 1 / 298.257223563

	utmScale         = 0.9996
	utmFalseEasting  = 500000.0
	utmFalseNorthing = 10000000.0 // southern hemisphere only
)

// Projection is a UTM (transverse Mercator) projection fixed to one zone.
// Points outside the zone are still projected with the zone's central
// meridian, so distances stay consistent across a single metropolitan area.
type Projection struct {
	Zone  int
	North bool
}

// UTM47N is EPSG:32647, the zone covering Bangkok.
var UTM47N = Projection{Zone: 47, North: true}

// CentralMeridian returns the zone's central meridian in degrees.
func (p Projection) CentralMeridian() float64 {
	return float64(p.Zone-1)*6 - 180 + 3
}

// Project converts a WGS 84 coordinate to easting/northing in meters.
func (p Projection) Project(g domain.GeoPoint) orb.Point {
	e2 := flattening * (2 - flattening)
	e4 := e2 * e2
	e6 := e4 * e2
	ep2 := e2 / (1 - e2)

	phi := toRad(g.Lat)
	lambda := toRad(g.Lon - p.CentralMeridian())

	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	tanPhi := math.Tan(phi)

	n := semiMajorAxis / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := lambda * cosPhi

	// Meridian arc length from the equator.
	m := semiMajorAxis * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	x := utmScale * n * (a +
		(1-t+c)*a3/6 +
		(5-18*t+t*t+72*c-58*ep2)*a5/120)

	y := utmScale * (m + n*tanPhi*(a2/2+
		(5-t+9*c+4*c*c)*a4/24+
		(61-58*t+t*t+600*c-330*ep2)*a6/720))

	easting := x + utmFalseEasting
	northing := y
	if !p.North {
		northing += utmFalseNorthing
	}
	return orb.Point{easting, northing}
}

// Distance returns the planar distance in meters between a and b.
func (p Projection) Distance(a, b domain.GeoPoint) float64 {
	return planar.Distance(p.Project(a), p.Project(b))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
