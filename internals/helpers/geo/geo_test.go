package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var square = []Point{
	{Lat: 48.0, Lng: 2.0},
	{Lat: 48.0, Lng: 2.01},
	{Lat: 48.01, Lng: 2.01},
	{Lat: 48.01, Lng: 2.0},
}

func TestValidateFence(t *testing.T) {
	assert.NoError(t, ValidateFence(square))
	assert.ErrorIs(t, ValidateFence(square[:2]), ErrFenceTooSmall)

	line := []Point{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}, {Lat: 3, Lng: 3}}
	assert.ErrorIs(t, ValidateFence(line), ErrFenceDegenerate)
}

func TestRingIsClosed(t *testing.T) {
	r := Ring(square)
	assert.Len(t, r, 5)
	assert.True(t, r.Closed())

	closed := append(append([]Point{}, square...), square[0])
	assert.Len(t, Ring(closed), 5)
}

func TestInFence(t *testing.T) {
	assert.True(t, InFence(square, Point{Lat: 48.005, Lng: 2.005}))
	assert.False(t, InFence(square, Point{Lat: 48.02, Lng: 2.005}))
	assert.False(t, InFence(nil, Point{Lat: 48.005, Lng: 2.005}))
}

func TestDistanceMeters(t *testing.T) {
	// one degree of latitude on orb's earth radius
	d := DistanceMeters(Point{Lat: 0, Lng: 0}, Point{Lat: 1, Lng: 0})
	assert.InDelta(t, 111319.49, d, 1.0)
	assert.Zero(t, DistanceMeters(square[0], square[0]))
}
