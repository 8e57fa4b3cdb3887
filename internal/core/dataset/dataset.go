// Package dataset holds the static Bangkok reference data: rail stations and
// landmarks. Both collections are fixed for the lifetime of the process.
package dataset

import "github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"

const (
	colorSukhumvit = "#76D7C4"
	colorSilom     = "#1E8449"
	colorMRTBlue   = "#2E86C1"
	colorRedLine   = "#C0392B"
	colorGoldLine  = "#D4AC0D"
)

var stations = []domain.TransitStation{
	{Name: "BTS Siam", Location: domain.GeoPoint{Lat: 13.7456, Lon: 100.5341}, Line: "Sukhumvit", Color: colorSukhumvit},
	{Name: "BTS Asok", Location: domain.GeoPoint{Lat: 13.7371, Lon: 100.5604}, Line: "Sukhumvit", Color: colorSukhumvit},
	{Name: "BTS Mo Chit", Location: domain.GeoPoint{Lat: 13.8022, Lon: 100.5539}, Line: "Sukhumvit", Color: colorSukhumvit},
	{Name: "BTS Thong Lo", Location: domain.GeoPoint{Lat: 13.7242, Lon: 100.5783}, Line: "Sukhumvit", Color: colorSukhumvit},
	{Name: "BTS Chong Nonsi", Location: domain.GeoPoint{Lat: 13.7237, Lon: 100.5294}, Line: "Silom", Color: colorSilom},
	{Name: "MRT Sukhumvit", Location: domain.GeoPoint{Lat: 13.7375, Lon: 100.5606}, Line: "MRT Blue", Color: colorMRTBlue},
	{Name: "MRT Rama 9", Location: domain.GeoPoint{Lat: 13.7578, Lon: 100.5654}, Line: "MRT Blue", Color: colorMRTBlue},
	{Name: "MRT Chatuchak", Location: domain.GeoPoint{Lat: 13.8030, Lon: 100.5543}, Line: "MRT Blue", Color: colorMRTBlue},
	{Name: "SRT Krung Thep Aphiwat", Location: domain.GeoPoint{Lat: 13.8043, Lon: 100.5404}, Line: "Red Line", Color: colorRedLine},
	{Name: "ICONSIAM (Gold)", Location: domain.GeoPoint{Lat: 13.7267, Lon: 100.5094}, Line: "Gold Line", Color: colorGoldLine},
}

var landmarks = []domain.Landmark{
	{Name: "Siam Paragon", Location: domain.GeoPoint{Lat: 13.7462, Lon: 100.5347}, Category: domain.CategoryMall, Icon: "shopping-cart"},
	{Name: "Central World", Location: domain.GeoPoint{Lat: 13.7466, Lon: 100.5393}, Category: domain.CategoryMall, Icon: "shopping-cart"},
	{Name: "ICONSIAM", Location: domain.GeoPoint{Lat: 13.7266, Lon: 100.5103}, Category: domain.CategoryMall, Icon: "shopping-cart"},
	{Name: "Chulalongkorn Univ.", Location: domain.GeoPoint{Lat: 13.7383, Lon: 100.5323}, Category: domain.CategoryEducation, Icon: "graduation-cap"},
	{Name: "Lumpini Park", Location: domain.GeoPoint{Lat: 13.7313, Lon: 100.5416}, Category: domain.CategoryPark, Icon: "tree"},
	{Name: "Chatuchak Market", Location: domain.GeoPoint{Lat: 13.7999, Lon: 100.5505}, Category: domain.CategoryMarket, Icon: "shopping-bag"},
	{Name: "Terminal 21", Location: domain.GeoPoint{Lat: 13.7376, Lon: 100.5602}, Category: domain.CategoryMall, Icon: "shopping-cart"},
	{Name: "Benjakitti Park", Location: domain.GeoPoint{Lat: 13.7291, Lon: 100.5552}, Category: domain.CategoryPark, Icon: "tree"},
}

// TransitStations returns the rail stations in their fixed order.
// The slice is a copy; callers may modify it freely.
func TransitStations() []domain.TransitStation {
	out := make([]domain.TransitStation, len(stations))
	copy(out, stations)
	return out
}

// Landmarks returns the landmarks in their fixed order.
// The slice is a copy; callers may modify it freely.
func Landmarks() []domain.Landmark {
	out := make([]domain.Landmark, len(landmarks))
	copy(out, landmarks)
	return out
}

// Static implements ports.ReferenceData over the built-in datasets.
type Static struct{}

// TransitStations implements ports.ReferenceData.
func (Static) TransitStations() []domain.TransitStation { return TransitStations() }

// Landmarks implements ports.ReferenceData.
func (Static) Landmarks() []domain.Landmark { return Landmarks() }
