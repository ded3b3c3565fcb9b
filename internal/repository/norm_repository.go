package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"compliance-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NormRepository struct {
	db *sqlx.DB
}

func NewNormRepository(db *sqlx.DB) *NormRepository {
	return &NormRepository{db: db}
}

// GetByClientAndParameterTx retrieves the norm for (client, parameter) within
// the upload transaction. Returns (nil, nil) when no norm exists yet.
func (r *NormRepository) GetByClientAndParameterTx(ctx context.Context, tx *sqlx.Tx, clientID string, parameter models.Parameter) (*models.Norm, error) {
	var norm models.Norm
	query := `
		SELECT id, client_id, parameter, limit_value, measurement_period, created_at
		FROM norm
		WHERE client_id = $1 AND parameter = $2
	`

	err := tx.GetContext(ctx, &norm, query, clientID, parameter)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get norm: %w", err)
	}

	return &norm, nil
}

// CreateTx inserts a new norm within the upload transaction
func (r *NormRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, norm *models.Norm) error {
	if norm.ID == uuid.Nil {
		norm.ID = uuid.New()
	}
	norm.CreatedAt = time.Now()

	query := `
		INSERT INTO norm (id, client_id, parameter, limit_value, measurement_period, created_at)
		VALUES (:id, :client_id, :parameter, :limit_value, :measurement_period, :created_at)
	`

	_, err := tx.NamedExecContext(ctx, query, norm)
	if err != nil {
		return fmt.Errorf("failed to create norm: %w", err)
	}

	return nil
}

// GetByClientID retrieves all norms defined for a client
func (r *NormRepository) GetByClientID(ctx context.Context, clientID string) ([]models.Norm, error) {
	var norms []models.Norm
	query := `
		SELECT id, client_id, parameter, limit_value, measurement_period, created_at
		FROM norm
		WHERE client_id = $1
		ORDER BY parameter
	`

	err := r.db.SelectContext(ctx, &norms, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get norms by client id: %w", err)
	}

	return norms, nil
}
