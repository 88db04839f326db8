package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Distance(40.4168, -3.7038, 40.4168, -3.7038))
}

func TestDistance_Symmetry(t *testing.T) {
	// Madrid <-> Barcelona
	d1 := Distance(40.4168, -3.7038, 41.3874, 2.1686)
	d2 := Distance(41.3874, 2.1686, 40.4168, -3.7038)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistance_KnownValue(t *testing.T) {
	// Madrid to Barcelona is roughly 505 km great-circle
	d := Distance(40.4168, -3.7038, 41.3874, 2.1686)
	assert.InDelta(t, 505, d, 5)
}

func TestBetween_MissingCoordinates(t *testing.T) {
	lat := 40.4168
	lng := -3.7038

	assert.Nil(t, Between(nil, &lng, &lat, &lng))
	assert.Nil(t, Between(&lat, nil, &lat, &lng))
	assert.Nil(t, Between(&lat, &lng, nil, &lng))
	assert.Nil(t, Between(&lat, &lng, &lat, nil))
}

func TestBetween_AllPresent(t *testing.T) {
	lat1, lng1 := 40.4168, -3.7038
	lat2, lng2 := 41.3874, 2.1686

	d := Between(&lat1, &lng1, &lat2, &lng2)
	if assert.NotNil(t, d) {
		assert.InDelta(t, 505, *d, 5)
	}
}
