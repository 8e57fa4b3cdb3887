package ports

import (
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
)

// ReferenceData supplies the static station and landmark collections.
// Implementations must return the same ordered data on every call.
type ReferenceData interface {
	TransitStations() []domain.TransitStation
	Landmarks() []domain.Landmark
}
