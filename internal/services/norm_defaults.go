package services

import "compliance-service/internal/models"

// NormDefault is the built-in regulatory limit used when a client uploads a
// parameter for which no norm has been defined yet.
type NormDefault struct {
	LimitValue        float64
	MeasurementPeriod string
}

// DefaultNormTable returns the default-limit table keyed by parameter.
// Injected into the upload service so the default policy stays testable and
// swappable per deployment instead of living in a hidden global.
func DefaultNormTable() map[models.Parameter]NormDefault {
	return map[models.Parameter]NormDefault{
		models.ParameterPM10: {LimitValue: 75, MeasurementPeriod: "24h"},
		models.ParameterPM25: {LimitValue: 37, MeasurementPeriod: "24h"},
		models.ParameterSO2:  {LimitValue: 50, MeasurementPeriod: "24h"},
		models.ParameterNO2:  {LimitValue: 200, MeasurementPeriod: "1h"},
		models.ParameterO3:   {LimitValue: 100, MeasurementPeriod: "8h"},
		models.ParameterCO:   {LimitValue: 5000, MeasurementPeriod: "8h"},
	}
}
