package service

import (
	"errors"
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/smartcity/corridor/internal/domain"
	"github.com/smartcity/corridor/pkg/utils"
)

// ErrNoMarkers is returned when the locator has nothing indexed
var ErrNoMarkers = errors.New("locator: no section markers indexed")

// candidates is how many R-tree neighbours are re-ranked by great-circle distance
const candidates = 3

type indexedMarker struct {
	marker   domain.Marker
	envelope rtreego.Rect
}

func (m *indexedMarker) Bounds() rtreego.Rect {
	return m.envelope
}

// NearestSection is the result of a coordinate lookup
type NearestSection struct {
	Marker     domain.Marker `json:"marker"`
	DistanceKm float64       `json:"distance_km"`
}

// SectionLocator finds the corridor section closest to a coordinate
type SectionLocator struct {
	index *rtreego.Rtree
	size  int
}

// NewSectionLocator indexes the given markers
func NewSectionLocator(markers []domain.Marker) (*SectionLocator, error) {
	tree := rtreego.NewTree(2, 2, 5)
	for _, m := range markers {
		rect, err := rtreego.NewRect(rtreego.Point{m.Latitude, m.Longitude}, []float64{1e-9, 1e-9})
		if err != nil {
			return nil, err
		}
		tree.Insert(&indexedMarker{marker: m, envelope: rect})
	}
	return &SectionLocator{index: tree, size: len(markers)}, nil
}

// Nearest returns the marker closest to (lat, lon) by great-circle distance
func (l *SectionLocator) Nearest(lat, lon float64) (NearestSection, error) {
	if l.size == 0 {
		return NearestSection{}, ErrNoMarkers
	}
	results := l.index.NearestNeighbors(candidates, rtreego.Point{lat, lon})

	best := NearestSection{DistanceKm: math.MaxFloat64}
	for _, item := range results {
		im, ok := item.(*indexedMarker)
		if !ok {
			continue
		}
		d := utils.Haversine(lat, lon, im.marker.Latitude, im.marker.Longitude)
		if d < best.DistanceKm {
			best = NearestSection{Marker: im.marker, DistanceKm: d}
		}
	}
	if best.DistanceKm == math.MaxFloat64 {
		return NearestSection{}, ErrNoMarkers
	}
	best.DistanceKm = utils.RoundTo(best.DistanceKm, 3)
	return best, nil
}
