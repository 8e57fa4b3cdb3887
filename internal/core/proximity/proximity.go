// Package proximity finds the nearest candidate to a query point and filters
// candidates by radius, measuring distance in a projected metric plane.
package proximity

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/geospatial"
)

// Located is anything with a geographic position.
type Located interface {
	Position() domain.GeoPoint
}

// Match is a candidate together with its distance from the query in meters.
type Match[T Located] struct {
	Item           T
	DistanceMeters float64
}

// Index holds candidates with their projected positions. Candidates never
// change, so they are projected once; the query is projected on every call.
type Index[T Located] struct {
	name   string
	proj   geospatial.Projection
	items  []T
	points []orb.Point
}

// NewIndex projects every candidate with proj. name labels the dataset in
// EmptyInputError messages.
func NewIndex[T Located](name string, proj geospatial.Projection, items []T) (*Index[T], error) {
	idx := &Index[T]{
		name:   name,
		proj:   proj,
		items:  make([]T, len(items)),
		points: make([]orb.Point, len(items)),
	}
	copy(idx.items, items)
	for i, it := range idx.items {
		pos := it.Position()
		if err := pos.Validate(); err != nil {
			return nil, err
		}
		idx.points[i] = proj.Project(pos)
	}
	return idx, nil
}

// Len returns the number of candidates.
func (idx *Index[T]) Len() int { return len(idx.items) }

// Items returns a copy of the candidates in input order.
func (idx *Index[T]) Items() []T {
	out := make([]T, len(idx.items))
	copy(out, idx.items)
	return out
}

// Nearest returns the candidate closest to query. Ties go to the candidate
// that appears first.
func (idx *Index[T]) Nearest(query domain.GeoPoint) (Match[T], error) {
	if err := query.Validate(); err != nil {
		return Match[T]{}, err
	}
	if len(idx.items) == 0 {
		return Match[T]{}, &domain.EmptyInputError{Dataset: idx.name}
	}

	q := idx.proj.Project(query)
	best := 0
	bestDist := planar.Distance(q, idx.points[0])
	for i := 1; i < len(idx.points); i++ {
		if d := planar.Distance(q, idx.points[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return Match[T]{Item: idx.items[best], DistanceMeters: bestDist}, nil
}

// WithinRadius returns every candidate whose distance from query is at most
// radius meters, closest first. Equal distances keep input order.
func (idx *Index[T]) WithinRadius(query domain.GeoPoint, radius float64) ([]Match[T], error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, &domain.InvalidRadiusError{Radius: radius}
	}

	q := idx.proj.Project(query)
	matches := make([]Match[T], 0, len(idx.items))
	for i, pt := range idx.points {
		if d := planar.Distance(q, pt); d <= radius {
			matches = append(matches, Match[T]{Item: idx.items[i], DistanceMeters: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceMeters < matches[j].DistanceMeters
	})
	return matches, nil
}

// Nearest is a one-shot Index.Nearest over candidates.
func Nearest[T Located](proj geospatial.Projection, query domain.GeoPoint, candidates []T) (Match[T], error) {
	idx, err := NewIndex("", proj, candidates)
	if err != nil {
		return Match[T]{}, err
	}
	return idx.Nearest(query)
}

// WithinRadius is a one-shot Index.WithinRadius over candidates.
func WithinRadius[T Located](proj geospatial.Projection, query domain.GeoPoint, candidates []T, radius float64) ([]Match[T], error) {
	idx, err := NewIndex("", proj, candidates)
	if err != nil {
		return nil, err
	}
	return idx.WithinRadius(query, radius)
}
