package repository

import (
	"context"
	"fmt"
	"time"

	"compliance-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type DeclarationRepository struct {
	db *sqlx.DB
}

func NewDeclarationRepository(db *sqlx.DB) *DeclarationRepository {
	return &DeclarationRepository{db: db}
}

// CreateTx inserts one conformity declaration within the upload transaction
func (r *DeclarationRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, declaration *models.ConformityDeclaration) error {
	if declaration.ID == uuid.Nil {
		declaration.ID = uuid.New()
	}
	declaration.CreatedAt = time.Now()

	query := `
		INSERT INTO conformity_declaration (
			id, measurement_id, mean_concentration, probability_of_conformity,
			probability_of_false_acceptance, decision_rule, created_at
		) VALUES (
			:id, :measurement_id, :mean_concentration, :probability_of_conformity,
			:probability_of_false_acceptance, :decision_rule, :created_at
		)
	`

	_, err := tx.NamedExecContext(ctx, query, declaration)
	if err != nil {
		return fmt.Errorf("failed to create conformity declaration: %w", err)
	}

	return nil
}

// GetByStationID retrieves declarations joined with their measurements for a
// station, optionally filtered by period start date.
func (r *DeclarationRepository) GetByStationID(ctx context.Context, stationID uuid.UUID, periodStartDate string) ([]models.DeclarationDetail, error) {
	var declarations []models.DeclarationDetail
	query := `
		SELECT d.id, d.measurement_id, d.mean_concentration, d.probability_of_conformity,
		       d.probability_of_false_acceptance, d.decision_rule, d.created_at,
		       m.sample_label,
		       to_char(m.sample_date, 'YYYY-MM-DD') AS sample_date,
		       to_char(m.sample_time, 'HH24:MI:SS') AS sample_time,
		       m.concentration, m.uncertainty, m.coverage_factor,
		       to_char(m.period_start_date, 'YYYY-MM-DD') AS period_start_date
		FROM conformity_declaration d
		JOIN measurement m ON m.id = d.measurement_id
		WHERE m.station_id = $1
	`

	args := []interface{}{stationID}
	if periodStartDate != "" {
		query += " AND m.period_start_date = $2"
		args = append(args, periodStartDate)
	}
	query += " ORDER BY m.created_at, m.batch_sequence"

	err := r.db.SelectContext(ctx, &declarations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get declarations by station id: %w", err)
	}

	return declarations, nil
}

// GetStationSummary aggregates the declarations of one station
func (r *DeclarationRepository) GetStationSummary(ctx context.Context, stationID uuid.UUID) (*models.StationSummary, error) {
	var summary models.StationSummary
	query := `
		SELECT m.station_id::text AS station_id,
		       COUNT(*) AS total_declarations,
		       COUNT(*) FILTER (WHERE d.decision_rule = 'Conforming') AS conforming_count,
		       COUNT(*) FILTER (WHERE d.decision_rule = 'NonConforming') AS non_conforming_count,
		       COALESCE(AVG(d.probability_of_conformity), 0) AS mean_probability,
		       to_char(MAX(m.period_start_date), 'YYYY-MM-DD') AS latest_period_start_date
		FROM conformity_declaration d
		JOIN measurement m ON m.id = d.measurement_id
		WHERE m.station_id = $1
		GROUP BY m.station_id
	`

	err := r.db.GetContext(ctx, &summary, query, stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get station summary: %w", err)
	}

	latestQuery := `
		SELECT d.decision_rule
		FROM conformity_declaration d
		JOIN measurement m ON m.id = d.measurement_id
		WHERE m.station_id = $1
		ORDER BY d.created_at DESC
		LIMIT 1
	`

	var latestDecision string
	if err := r.db.GetContext(ctx, &latestDecision, latestQuery, stationID); err == nil {
		summary.LatestDecision = &latestDecision
	}

	return &summary, nil
}

// GetLatestDecisionsByClient returns the most recent decision per station of a
// client, used to style the KMZ placemarks.
func (r *DeclarationRepository) GetLatestDecisionsByClient(ctx context.Context, clientID string) (map[uuid.UUID]models.DecisionRule, error) {
	rows := []struct {
		StationID uuid.UUID           `db:"station_id"`
		Decision  models.DecisionRule `db:"decision_rule"`
	}{}

	query := `
		SELECT DISTINCT ON (m.station_id) m.station_id, d.decision_rule
		FROM conformity_declaration d
		JOIN measurement m ON m.id = d.measurement_id
		JOIN station s ON s.id = m.station_id
		WHERE s.client_id = $1
		ORDER BY m.station_id, d.created_at DESC
	`

	err := r.db.SelectContext(ctx, &rows, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest decisions by client: %w", err)
	}

	decisions := make(map[uuid.UUID]models.DecisionRule, len(rows))
	for _, row := range rows {
		decisions[row.StationID] = row.Decision
	}

	return decisions, nil
}
