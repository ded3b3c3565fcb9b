package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestUpdateStationLocation_RejectsOutOfRangeCoordinates(t *testing.T) {
	// Invalid coordinates must be rejected before the repository is touched;
	// the service under test has none wired.
	service := NewReportService(nil, nil, nil, nil, nil)

	tests := []struct {
		name      string
		latitude  float64
		longitude float64
	}{
		{"latitude above range", 90.1, 0},
		{"latitude below range", -90.1, 0},
		{"longitude above range", 0, 180.1},
		{"longitude below range", 0, -180.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.UpdateStationLocation(context.Background(), uuid.New(), tt.latitude, tt.longitude)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestValidateWGS84(t *testing.T) {
	valid := []*geom.Point{
		geom.NewPointFlat(geom.XY, []float64{0, 0}),
		geom.NewPointFlat(geom.XY, []float64{-180, -90}),
		geom.NewPointFlat(geom.XY, []float64{180, 90}),
		geom.NewPointFlat(geom.XY, []float64{-74.0817, 4.6097}),
	}
	for _, point := range valid {
		assert.NoError(t, validateWGS84(point), "(%f, %f)", point.Y(), point.X())
	}

	invalid := []*geom.Point{
		geom.NewPointFlat(geom.XY, []float64{0, 91}),
		geom.NewPointFlat(geom.XY, []float64{181, 0}),
	}
	for _, point := range invalid {
		assert.Error(t, validateWGS84(point), "(%f, %f)", point.Y(), point.X())
	}
}
