package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKM(t *testing.T) {
	// Berlin -> Paris is roughly 878 km.
	d := DistanceKM(52.5200, 13.4050, 48.8566, 2.3522)
	assert.InDelta(t, 878, d, 5)

	// Same point is zero.
	assert.Zero(t, DistanceKM(52.52, 13.405, 52.52, 13.405))

	// Symmetric in both directions.
	assert.InDelta(t, DistanceKM(0, 0, 10, 10), DistanceKM(10, 10, 0, 0), 1e-9)
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(0, 0))
	assert.True(t, ValidCoordinate(-90, 180))
	assert.True(t, ValidCoordinate(90, -180))
	assert.False(t, ValidCoordinate(90.1, 0))
	assert.False(t, ValidCoordinate(0, -180.1))
}
