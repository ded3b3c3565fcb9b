package services

import (
	"context"
	"errors"
	"testing"

	"compliance-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUploadRequest() models.UploadRequest {
	return models.UploadRequest{
		ClientID:    "client-1",
		StationID:   "1",
		ParameterID: "PM10",
		Date:        "2024-03-05",
	}
}

// Requests rejected by the pre-transaction validation must never touch a
// repository; the service under test has none wired.
func bareUploadService() *UploadService {
	return NewUploadService(nil, nil, nil, nil, nil, nil, DefaultNormTable())
}

func TestUploadMeasurements_RejectsEmptyFile(t *testing.T) {
	_, err := bareUploadService().UploadMeasurements(context.Background(), validUploadRequest(), nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "archivo")
}

func TestUploadMeasurements_RejectsMissingFields(t *testing.T) {
	fields := []func(*models.UploadRequest){
		func(r *models.UploadRequest) { r.ClientID = "" },
		func(r *models.UploadRequest) { r.StationID = "" },
		func(r *models.UploadRequest) { r.ParameterID = "" },
		func(r *models.UploadRequest) { r.Date = "" },
	}

	for i, clear := range fields {
		req := validUploadRequest()
		clear(&req)

		_, err := bareUploadService().UploadMeasurements(context.Background(), req, []byte{0x01})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "field %d", i)
	}
}

func TestUploadMeasurements_RejectsBadStationNumber(t *testing.T) {
	for _, station := range []string{"0", "5", "abc", ""} {
		req := validUploadRequest()
		req.StationID = station

		_, err := bareUploadService().UploadMeasurements(context.Background(), req, []byte{0x01})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "station %q", station)
	}
}

func TestUploadMeasurements_RejectsBadDate(t *testing.T) {
	req := validUploadRequest()
	req.Date = "05/03/2024"

	_, err := bareUploadService().UploadMeasurements(context.Background(), req, []byte{0x01})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestNormalizeStationNumber(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"4", 4, false},
		{"station-2", 2, false},
		{"Estación 3", 3, false},
		{"0", 0, true},
		{"5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		number, err := normalizeStationNumber(tt.input)
		if tt.wantErr {
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, number, "input %q", tt.input)
	}
}

func TestDefaultNormTable_CoversAllParameters(t *testing.T) {
	table := DefaultNormTable()

	parameters := []models.Parameter{
		models.ParameterPM10, models.ParameterPM25, models.ParameterSO2,
		models.ParameterNO2, models.ParameterO3, models.ParameterCO,
	}
	for _, parameter := range parameters {
		defaults, ok := table[parameter]
		require.True(t, ok, "missing defaults for %s", parameter)
		assert.Greater(t, defaults.LimitValue, 0.0)
		assert.NotEmpty(t, defaults.MeasurementPeriod)
	}

	_, ok := table[models.Parameter("benceno")]
	assert.False(t, ok)
}

func TestBuildMeasurements_NumbersRowsInSpreadsheetOrder(t *testing.T) {
	stationID, normID := uuid.New(), uuid.New()
	samples := []models.Sample{
		{SampleLabel: "1.1", Concentration: 10, Uncertainty: 1, CoverageFactor: 2, NormValue: 75},
		{SampleLabel: "1.2", Concentration: 20, Uncertainty: 1, CoverageFactor: 2, NormValue: 75},
		{SampleLabel: "1.3", Concentration: 30, Uncertainty: 1, CoverageFactor: 2, NormValue: 75},
	}

	measurements := buildMeasurements(stationID, normID, samples, "2024-03-05")

	require.Len(t, measurements, len(samples))
	for i, measurement := range measurements {
		assert.Equal(t, i+1, measurement.BatchSequence, "sequence must follow row position")
		assert.Equal(t, samples[i].SampleLabel, measurement.SampleLabel)
		assert.Equal(t, samples[i].Concentration, measurement.Concentration)
		assert.Equal(t, stationID, measurement.StationID)
		assert.Equal(t, normID, measurement.NormID)
		assert.Equal(t, "2024-03-05", measurement.PeriodStartDate)
	}
}

func TestDownloadArchivedUpload_RejectsForeignObjects(t *testing.T) {
	// Objects outside the requesting client's prefix are rejected before
	// storage is consulted.
	_, err := bareUploadService().DownloadArchivedUpload(context.Background(),
		"client-1", "client-2/9b2d.xlsx")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "client-2/9b2d.xlsx")
}

func TestValidationError_IsNotWrappedAsGeneric(t *testing.T) {
	err := newValidationError("El archivo debe contener exactamente 18 muestras")

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "El archivo debe contener exactamente 18 muestras", err.Error())
}
