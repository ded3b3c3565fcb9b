package repository

import (
	"context"
	"fmt"
	"time"

	"compliance-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MeasurementRepository struct {
	db *sqlx.DB
}

func NewMeasurementRepository(db *sqlx.DB) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

// BeginTransaction starts the transaction owning one whole batch upload
func (r *MeasurementRepository) BeginTransaction(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateTx inserts one measurement within the upload transaction
func (r *MeasurementRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, measurement *models.Measurement) error {
	if measurement.ID == uuid.Nil {
		measurement.ID = uuid.New()
	}
	measurement.CreatedAt = time.Now()

	query := `
		INSERT INTO measurement (
			id, station_id, norm_id, sample_label, sample_date, sample_time,
			sampling_duration_minutes, concentration, uncertainty, coverage_factor,
			norm_value, period_start_date, batch_sequence, created_at
		) VALUES (
			:id, :station_id, :norm_id, :sample_label, :sample_date, :sample_time,
			:sampling_duration_minutes, :concentration, :uncertainty, :coverage_factor,
			:norm_value, :period_start_date, :batch_sequence, :created_at
		)
	`

	_, err := tx.NamedExecContext(ctx, query, measurement)
	if err != nil {
		return fmt.Errorf("failed to create measurement %s: %w", measurement.SampleLabel, err)
	}

	return nil
}

// GetByStationID retrieves measurements for a station, optionally filtered by
// period start date, in spreadsheet row order within each batch.
func (r *MeasurementRepository) GetByStationID(ctx context.Context, stationID uuid.UUID, periodStartDate string) ([]models.Measurement, error) {
	var measurements []models.Measurement
	query := `
		SELECT id, station_id, norm_id, sample_label,
		       to_char(sample_date, 'YYYY-MM-DD') AS sample_date,
		       to_char(sample_time, 'HH24:MI:SS') AS sample_time,
		       sampling_duration_minutes, concentration, uncertainty, coverage_factor,
		       norm_value, to_char(period_start_date, 'YYYY-MM-DD') AS period_start_date,
		       batch_sequence, created_at
		FROM measurement
		WHERE station_id = $1
	`

	args := []interface{}{stationID}
	if periodStartDate != "" {
		query += " AND period_start_date = $2"
		args = append(args, periodStartDate)
	}
	// created_at can collide within one transaction; the batch sequence keeps
	// spreadsheet row order.
	query += " ORDER BY created_at, batch_sequence"

	err := r.db.SelectContext(ctx, &measurements, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get measurements by station id: %w", err)
	}

	return measurements, nil
}
