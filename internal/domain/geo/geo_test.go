package geo_test

import (
	"testing"

	"github.com/shiftmatch/shiftmatch/internal/domain/geo"
	"github.com/stretchr/testify/assert"
)

func TestDistanceMiles(t *testing.T) {
	sf := geo.Location{Latitude: 37.7749, Longitude: -122.4194}
	oakland := geo.Location{Latitude: 37.8044, Longitude: -122.2712}
	la := geo.Location{Latitude: 34.0522, Longitude: -118.2437}
	nyc := geo.Location{Latitude: 40.7128, Longitude: -74.0060}

	tests := []struct {
		name string
		a, b geo.Location
		want float64
	}{
		{"identity", sf, sf, 0},
		{"sf to oakland", sf, oakland, 8},
		{"sf to la", sf, la, 347},
		{"sf to nyc", sf, nyc, 2566},
		{"pole to pole", geo.Location{Latitude: 90}, geo.Location{Latitude: -90}, 12438},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geo.DistanceMiles(tt.a, tt.b))
		})
	}
}

func TestDistanceMilesSymmetry(t *testing.T) {
	pairs := []struct{ a, b geo.Location }{
		{geo.Location{Latitude: 37.7749, Longitude: -122.4194}, geo.Location{Latitude: 40.7128, Longitude: -74.0060}},
		{geo.Location{Latitude: -33.8688, Longitude: 151.2093}, geo.Location{Latitude: 51.5074, Longitude: -0.1278}},
		{geo.Location{}, geo.Location{Latitude: 0.5, Longitude: 179.9}},
	}
	for _, p := range pairs {
		assert.Equal(t, geo.DistanceMiles(p.a, p.b), geo.DistanceMiles(p.b, p.a))
	}
}

func TestDistanceMilesOutOfRangeInputs(t *testing.T) {
	// Out-of-range coordinates are not validated; the formula still yields a
	// finite number.
	d := geo.DistanceMiles(
		geo.Location{Latitude: 400, Longitude: -1000},
		geo.Location{Latitude: -400, Longitude: 1000},
	)
	assert.False(t, d < 0)
	assert.NotPanics(t, func() {
		geo.DistanceMiles(geo.Location{}, geo.Location{Latitude: 400, Longitude: -1000})
	})
}
