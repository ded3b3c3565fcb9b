package repository

import (
	"context"
	"fmt"

	"compliance-service/internal/models"
	"compliance-service/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/twpayne/go-geom"
)

type StationRepository struct {
	db *sqlx.DB
}

func NewStationRepository(db *sqlx.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Upsert resolves or creates the station for (client, station number).
// The unique key (client_id, station_number) makes this idempotent.
func (r *StationRepository) Upsert(ctx context.Context, clientID string, stationNumber int) (*models.Station, error) {
	var station models.Station
	query := `
		INSERT INTO station (id, client_id, station_number, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (client_id, station_number)
		DO UPDATE SET updated_at = NOW()
		RETURNING id, client_id, station_number, name, latitude, longitude, created_at, updated_at
	`

	err := r.db.GetContext(ctx, &station, query, uuid.New(), clientID, stationNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert station: %w", err)
	}

	return &station, nil
}

// GetByID retrieves a station by its ID
func (r *StationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Station, error) {
	var station models.Station
	query := `
		SELECT id, client_id, station_number, name, latitude, longitude, created_at, updated_at
		FROM station
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &station, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get station by id: %w", err)
	}

	return &station, nil
}

// GetByClientID retrieves all stations registered for a client
func (r *StationRepository) GetByClientID(ctx context.Context, clientID string) ([]models.Station, error) {
	var stations []models.Station
	query := `
		SELECT id, client_id, station_number, name, latitude, longitude, created_at, updated_at
		FROM station
		WHERE client_id = $1
		ORDER BY station_number
	`

	err := r.db.SelectContext(ctx, &stations, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stations by client id: %w", err)
	}

	return stations, nil
}

// UpdateLocation sets the geographic position of a station. The point is
// WGS84, X carrying the longitude and Y the latitude.
func (r *StationRepository) UpdateLocation(ctx context.Context, id uuid.UUID, point *geom.Point) error {
	query := `
		UPDATE station
		SET latitude = $2, longitude = $3, updated_at = NOW()
		WHERE id = $1
	`

	if err := utils.ExecWithCheck(r.db, query, utils.ExecUpdate, id, point.Y(), point.X()); err != nil {
		return fmt.Errorf("failed to update station location: %w", err)
	}

	return nil
}
