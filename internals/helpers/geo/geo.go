// Package geo wraps orb for site geofences and check-in distances.
package geo

import (
	"errors"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// Point is a WGS84 coordinate as stored on sites and interventions.
type Point struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

func (p Point) orb() orb.Point { return orb.Point{p.Lng, p.Lat} }

var (
	ErrFenceTooSmall   = errors.New("geofence needs at least 3 points")
	ErrFenceDegenerate = errors.New("geofence does not enclose an area")
)

// Ring builds a closed ring from the fence points.
func Ring(points []Point) orb.Ring {
	r := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		r = append(r, p.orb())
	}
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return r
}

// ValidateFence rejects polygons with fewer than three vertices or zero area.
func ValidateFence(points []Point) error {
	if len(points) < 3 {
		return ErrFenceTooSmall
	}
	if planar.Area(Ring(points)) == 0 {
		return ErrFenceDegenerate
	}
	return nil
}

// DistanceMeters is the haversine distance between two coordinates.
func DistanceMeters(a, b Point) float64 {
	return orbgeo.DistanceHaversine(a.orb(), b.orb())
}

// InFence reports whether p lies inside the fence polygon.
func InFence(points []Point, p Point) bool {
	if len(points) < 3 {
		return false
	}
	return planar.PolygonContains(orb.Polygon{Ring(points)}, p.orb())
}
