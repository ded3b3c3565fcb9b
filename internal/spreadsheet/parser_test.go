package spreadsheet

import (
	"testing"

	"compliance-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRow(label string) Row {
	return Row{
		ColMuestra:          label,
		ColFechaMuestra:     "05/03/2024",
		ColHoraMuestra:      "2:30:00 p. m.",
		ColTiempoMuestreo:   "1440",
		ColConcentracion:    "37,5",
		ColU:                "1,2",
		ColUFactorCobertura: "2",
		ColNorma:            "75",
	}
}

func TestParseRow_NormalizesAllFields(t *testing.T) {
	sample, err := ParseRow(validRow("1.1"))
	require.NoError(t, err)

	assert.Equal(t, "1.1", sample.SampleLabel)
	assert.Equal(t, "2024-03-05", sample.SampleDate)
	assert.Equal(t, "14:30:00", sample.SampleTime)
	assert.Equal(t, 1440.0, sample.SamplingDurationMinutes)
	assert.Equal(t, 37.5, sample.Concentration)
	assert.Equal(t, 1.2, sample.Uncertainty)
	assert.Equal(t, 2.0, sample.CoverageFactor)
	assert.Equal(t, 75.0, sample.NormValue)
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"round trip", "05/03/2024", "2024-03-05", false},
		{"zero padding", "5/3/2024", "2024-03-05", false},
		{"april 31 accepted, no month-length check", "31/04/2024", "2024-04-31", false},
		{"month out of range", "05/13/2024", "", true},
		{"day out of range", "32/01/2024", "", true},
		{"day zero", "0/01/2024", "", true},
		{"wrong separator count", "2024-03-05", "", true},
		{"non numeric day", "ab/03/2024", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"spanish pm with spaces", "2:30:00 p. m.", "14:30:00", false},
		{"spanish am compact", "2:30:00 a.m.", "02:30:00", false},
		{"uppercase spanish", "9:15:30 P. M.", "21:15:30", false},
		{"plain pm", "11:59:59 PM", "23:59:59", false},
		{"midnight", "12:00:00 a. m.", "00:00:00", false},
		{"noon", "12:00:00 p.m.", "12:00:00", false},
		{"out of range", "25:99:99", "", true},
		{"24 hour input rejected", "14:30:00", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTime_ErrorEmbedsOriginalAndNormalized(t *testing.T) {
	_, err := normalizeTime("99:00:00 p. m.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "99:00:00 p. m.")
	assert.Contains(t, err.Error(), "99:00:00 PM")
}

func TestParseDecimal(t *testing.T) {
	value, err := parseDecimal("12,5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, value)

	value, err = parseDecimal(" 0.75 ")
	require.NoError(t, err)
	assert.Equal(t, 0.75, value)

	_, err = parseDecimal("abc")
	assert.Error(t, err)

	_, err = parseDecimal("")
	assert.Error(t, err)
}

func TestParseRow_ErrorNamesFieldAndLabel(t *testing.T) {
	row := validRow("1.7")
	row[ColConcentracion] = "no-numerico"

	_, err := ParseRow(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1.7")
	assert.Contains(t, err.Error(), ColConcentracion)
}

func TestParseRow_BadTimeNamesRow(t *testing.T) {
	// Scenario: row 5 of a batch carries an impossible time. The error must
	// point the operator at that row's label and time field.
	rows := make([]Row, 0, BatchSize)
	for i := 1; i <= BatchSize; i++ {
		rows = append(rows, validRow(labelFor(i)))
	}
	rows[4][ColHoraMuestra] = "25:99:99"

	var samples []models.Sample
	var parseErr error
	for _, row := range rows {
		sample, err := ParseRow(row)
		if err != nil {
			parseErr = err
			break
		}
		samples = append(samples, sample)
	}

	require.Error(t, parseErr)
	assert.Contains(t, parseErr.Error(), "1.5")
	assert.Contains(t, parseErr.Error(), ColHoraMuestra)
	assert.Len(t, samples, 4, "parsing must stop at the failing row")
}
