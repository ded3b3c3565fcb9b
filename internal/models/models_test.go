package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

func TestStationLocation_LonLatAxisOrder(t *testing.T) {
	station := Station{Latitude: 4.6097, Longitude: -74.0817}

	point := station.Location()
	assert.Equal(t, -74.0817, point.X(), "X carries the longitude")
	assert.Equal(t, 4.6097, point.Y(), "Y carries the latitude")
}

func TestStationSetLocation_RoundTrip(t *testing.T) {
	var station Station
	station.SetLocation(geom.NewPointFlat(geom.XY, []float64{-74.0817, 4.6097}))

	assert.Equal(t, 4.6097, station.Latitude)
	assert.Equal(t, -74.0817, station.Longitude)
	assert.Equal(t, station.Latitude, station.Location().Y())
	assert.Equal(t, station.Longitude, station.Location().X())
}
