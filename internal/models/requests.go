package models

import "time"

// UploadRequest carries the form fields accompanying a measurement spreadsheet.
type UploadRequest struct {
	ClientID    string `form:"clientId"`
	StationID   string `form:"stationId"`
	ParameterID string `form:"parameterId"`
	Date        string `form:"date"`
}

// UploadResult is the payload returned after a committed upload.
type UploadResult struct {
	StationID        string `json:"station_id"`
	NormID           string `json:"norm_id"`
	MeasurementCount int    `json:"measurement_count"`
	ArchiveObject    string `json:"archive_object,omitempty"`
}

// ArchivedUpload describes one raw spreadsheet kept in object storage.
type ArchivedUpload struct {
	ObjectName  string    `json:"object_name"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
	DownloadURL string    `json:"download_url"`
}

// StationSummary aggregates the declarations of one station for dashboards.
type StationSummary struct {
	StationID             string  `json:"station_id" db:"station_id"`
	TotalDeclarations     int     `json:"total_declarations" db:"total_declarations"`
	ConformingCount       int     `json:"conforming_count" db:"conforming_count"`
	NonConformingCount    int     `json:"non_conforming_count" db:"non_conforming_count"`
	MeanProbability       float64 `json:"mean_probability" db:"mean_probability"`
	LatestPeriodStartDate *string `json:"latest_period_start_date,omitempty" db:"latest_period_start_date"`
	LatestDecision        *string `json:"latest_decision,omitempty" db:"latest_decision"`
}

// DeclarationDetail joins a declaration with its measurement for listings.
type DeclarationDetail struct {
	ConformityDeclaration
	SampleLabel     string  `json:"sample_label" db:"sample_label"`
	SampleDate      string  `json:"sample_date" db:"sample_date"`
	SampleTime      string  `json:"sample_time" db:"sample_time"`
	Concentration   float64 `json:"concentration" db:"concentration"`
	Uncertainty     float64 `json:"uncertainty" db:"uncertainty"`
	CoverageFactor  float64 `json:"coverage_factor" db:"coverage_factor"`
	PeriodStartDate string  `json:"period_start_date" db:"period_start_date"`
}
