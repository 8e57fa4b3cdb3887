package domain

// TransitStation is a rail station from the static reference dataset.
type TransitStation struct {
	Name     string   `json:"name"`
	Location GeoPoint `json:"location"`
	Line     string   `json:"line"`
	Color    string   `json:"color,omitempty"` // map marker only
}

// Position implements proximity.Located.
func (s TransitStation) Position() GeoPoint { return s.Location }

// LandmarkCategory classifies a landmark.
type LandmarkCategory string

const (
	CategoryMall      LandmarkCategory = "Mall"
	CategoryEducation LandmarkCategory = "Education"
	CategoryPark      LandmarkCategory = "Park"
	CategoryMarket    LandmarkCategory = "Market"
)

// Landmark is a point of interest that adds value to nearby land.
type Landmark struct {
	Name     string           `json:"name"`
	Location GeoPoint         `json:"location"`
	Category LandmarkCategory `json:"category"`
	Icon     string           `json:"icon,omitempty"` // map marker only
}

// Position implements proximity.Located.
func (l Landmark) Position() GeoPoint { return l.Location }

// Tier is the qualitative location grade derived from distance to transit.
type Tier string

const (
	TierPrime        Tier = "Prime"
	TierGood         Tier = "Good"
	TierCarDependent Tier = "CarDependent"
)

// Label returns the human-readable tier name shown on the dashboard.
func (t Tier) Label() string {
	switch t {
	case TierPrime:
		return "Prime Area"
	case TierGood:
		return "Good Potential"
	case TierCarDependent:
		return "Car Dependent"
	default:
		return string(t)
	}
}

// ValuationResult is the price estimate for a query point.
type ValuationResult struct {
	Query          GeoPoint       `json:"query"`
	Station        TransitStation `json:"station"`
	DistanceMeters float64        `json:"distance_meters"`
	Price          float64        `json:"price"` // THB per square wah
	Tier           Tier           `json:"tier"`
	TierLabel      string         `json:"tier_label"`
	PremiumLine    bool           `json:"premium_line"`
}

// NearbyLandmark pairs a landmark with its distance from the query point.
type NearbyLandmark struct {
	Landmark       Landmark `json:"landmark"`
	DistanceMeters float64  `json:"distance_meters"`
}

// Analysis is everything the map shows for one selected point.
type Analysis struct {
	Valuation    *ValuationResult `json:"valuation"`
	Landmarks    []NearbyLandmark `json:"landmarks"`
	RadiusMeters float64          `json:"radius_meters"`
}
