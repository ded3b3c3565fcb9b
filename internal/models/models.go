package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom"
)

// ============================================================================
// MONITORING STATIONS & REGULATORY NORMS
// ============================================================================

type Station struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ClientID      string    `json:"client_id" db:"client_id"`
	StationNumber int       `json:"station_number" db:"station_number"`
	Name          *string   `json:"name,omitempty" db:"name"`
	Latitude      float64   `json:"latitude" db:"latitude"`
	Longitude     float64   `json:"longitude" db:"longitude"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Location returns the station's position as a WGS84 point, X carrying the
// longitude and Y the latitude.
func (s *Station) Location() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{s.Longitude, s.Latitude})
}

// SetLocation stores the coordinates of a WGS84 point on the station.
func (s *Station) SetLocation(point *geom.Point) {
	s.Longitude = point.X()
	s.Latitude = point.Y()
}

// Norm is the regulatory limit definition for one (client, parameter) pair.
// Created lazily on first upload when no row exists yet.
type Norm struct {
	ID                uuid.UUID `json:"id" db:"id"`
	ClientID          string    `json:"client_id" db:"client_id"`
	Parameter         Parameter `json:"parameter" db:"parameter"`
	LimitValue        float64   `json:"limit_value" db:"limit_value"`
	MeasurementPeriod string    `json:"measurement_period" db:"measurement_period"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// ============================================================================
// SAMPLES & MEASUREMENTS
// ============================================================================

// Sample is one parsed spreadsheet row, fully typed and normalized.
// SampleDate is ISO YYYY-MM-DD, SampleTime is 24-hour HH:mm:ss.
type Sample struct {
	SampleLabel             string  `json:"sample_label"`
	SampleDate              string  `json:"sample_date"`
	SampleTime              string  `json:"sample_time"`
	SamplingDurationMinutes float64 `json:"sampling_duration_minutes"`
	Concentration           float64 `json:"concentration"`
	Uncertainty             float64 `json:"uncertainty"`
	CoverageFactor          float64 `json:"coverage_factor"`
	NormValue               float64 `json:"norm_value"`
}

type Measurement struct {
	ID                      uuid.UUID `json:"id" db:"id"`
	StationID               uuid.UUID `json:"station_id" db:"station_id"`
	NormID                  uuid.UUID `json:"norm_id" db:"norm_id"`
	SampleLabel             string    `json:"sample_label" db:"sample_label"`
	SampleDate              string    `json:"sample_date" db:"sample_date"`
	SampleTime              string    `json:"sample_time" db:"sample_time"`
	SamplingDurationMinutes float64   `json:"sampling_duration_minutes" db:"sampling_duration_minutes"`
	Concentration           float64   `json:"concentration" db:"concentration"`
	Uncertainty             float64   `json:"uncertainty" db:"uncertainty"`
	CoverageFactor          float64   `json:"coverage_factor" db:"coverage_factor"`
	NormValue               float64   `json:"norm_value" db:"norm_value"`
	PeriodStartDate         string    `json:"period_start_date" db:"period_start_date"`
	BatchSequence           int       `json:"batch_sequence" db:"batch_sequence"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
}

// ConformityDeclaration is the statistical verdict for one measurement.
// Probabilities are percentages in [0,100].
type ConformityDeclaration struct {
	ID                           uuid.UUID    `json:"id" db:"id"`
	MeasurementID                uuid.UUID    `json:"measurement_id" db:"measurement_id"`
	MeanConcentration            float64      `json:"mean_concentration" db:"mean_concentration"`
	ProbabilityOfConformity      float64      `json:"probability_of_conformity" db:"probability_of_conformity"`
	ProbabilityOfFalseAcceptance float64      `json:"probability_of_false_acceptance" db:"probability_of_false_acceptance"`
	DecisionRule                 DecisionRule `json:"decision_rule" db:"decision_rule"`
	CreatedAt                    time.Time    `json:"created_at" db:"created_at"`
}
