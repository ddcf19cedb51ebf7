package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMiles_ZeroAtSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, DistanceMiles(33.4484, -112.0740, 33.4484, -112.0740))
}

func TestDistanceMiles_Symmetric(t *testing.T) {
	a := DistanceMiles(40.7128, -74.0060, 34.0522, -118.2437)
	b := DistanceMiles(34.0522, -118.2437, 40.7128, -74.0060)
	assert.Equal(t, a, b)
}

func TestDistanceMiles_KnownDistances(t *testing.T) {
	// New York -> Los Angeles, roughly 2,450 air miles.
	d := DistanceMiles(40.7128, -74.0060, 34.0522, -118.2437)
	assert.Greater(t, d, 2400.0)
	assert.Less(t, d, 2500.0)

	// Phoenix -> Los Angeles, roughly 360 air miles.
	d = DistanceMiles(33.4484, -112.0740, 34.0522, -118.2437)
	assert.Greater(t, d, 340.0)
	assert.Less(t, d, 380.0)
}

func TestDistanceMiles_EquatorDegree(t *testing.T) {
	// One degree of longitude on the equator is about 69.1 miles.
	d := DistanceMiles(0, 0, 0, 1)
	assert.InDelta(t, 69.1, d, 0.2)
}
