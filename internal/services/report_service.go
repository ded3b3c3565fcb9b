package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"compliance-service/internal/database/redis"
	"compliance-service/internal/models"
	"compliance-service/internal/repository"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom"
)

const stationSummaryTTL = 5 * time.Minute

// ReportService serves the read side: station listings, declaration listings
// and the cached per-station conformity summary for dashboards.
type ReportService struct {
	stationRepo     *repository.StationRepository
	normRepo        *repository.NormRepository
	measurementRepo *repository.MeasurementRepository
	declarationRepo *repository.DeclarationRepository
	cache           *redis.Client
}

func NewReportService(
	stationRepo *repository.StationRepository,
	normRepo *repository.NormRepository,
	measurementRepo *repository.MeasurementRepository,
	declarationRepo *repository.DeclarationRepository,
	cache *redis.Client,
) *ReportService {
	return &ReportService{
		stationRepo:     stationRepo,
		normRepo:        normRepo,
		measurementRepo: measurementRepo,
		declarationRepo: declarationRepo,
		cache:           cache,
	}
}

// GetStationsByClient lists the stations registered for a client
func (s *ReportService) GetStationsByClient(ctx context.Context, clientID string) ([]models.Station, error) {
	stations, err := s.stationRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stations: %w", err)
	}

	return stations, nil
}

// GetStationByID retrieves one station
func (s *ReportService) GetStationByID(ctx context.Context, stationID uuid.UUID) (*models.Station, error) {
	station, err := s.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get station: %w", err)
	}

	return station, nil
}

// GetNormsByClient lists the regulatory norms defined for a client
func (s *ReportService) GetNormsByClient(ctx context.Context, clientID string) ([]models.Norm, error) {
	norms, err := s.normRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get norms: %w", err)
	}

	return norms, nil
}

// GetDeclarationsByStation lists declarations with their measurements for a
// station, optionally filtered by period start date.
func (s *ReportService) GetDeclarationsByStation(ctx context.Context, stationID uuid.UUID, periodStartDate string) ([]models.DeclarationDetail, error) {
	declarations, err := s.declarationRepo.GetByStationID(ctx, stationID, periodStartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get declarations: %w", err)
	}

	return declarations, nil
}

// GetMeasurementsByStation lists the persisted measurements for a station
func (s *ReportService) GetMeasurementsByStation(ctx context.Context, stationID uuid.UUID, periodStartDate string) ([]models.Measurement, error) {
	measurements, err := s.measurementRepo.GetByStationID(ctx, stationID, periodStartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get measurements: %w", err)
	}

	return measurements, nil
}

// UpdateStationLocation sets a station's WGS84 coordinates, used by the KMZ
// export.
func (s *ReportService) UpdateStationLocation(ctx context.Context, stationID uuid.UUID, latitude, longitude float64) error {
	point := geom.NewPointFlat(geom.XY, []float64{longitude, latitude})
	if err := validateWGS84(point); err != nil {
		return err
	}

	if err := s.stationRepo.UpdateLocation(ctx, stationID, point); err != nil {
		return fmt.Errorf("failed to update station location: %w", err)
	}

	return nil
}

// validateWGS84 rejects points outside the WGS84 coordinate domain.
func validateWGS84(point *geom.Point) error {
	if point.Y() < -90 || point.Y() > 90 || point.X() < -180 || point.X() > 180 {
		return newValidationError(fmt.Sprintf("Coordenadas inválidas (%f, %f)", point.Y(), point.X()))
	}
	return nil
}

// GetStationSummary aggregates a station's declarations, caching the result
// for a few minutes. The cache is invalidated after each committed upload.
func (s *ReportService) GetStationSummary(ctx context.Context, stationID uuid.UUID) (*models.StationSummary, error) {
	cacheKey := stationSummaryCacheKey(stationID)

	if s.cache != nil {
		cached, err := s.cache.GetClient().Get(ctx, cacheKey).Result()
		if err == nil {
			var summary models.StationSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
			slog.Warn("Discarding undecodable cached summary", "station_id", stationID)
		}
	}

	summary, err := s.declarationRepo.GetStationSummary(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get station summary: %w", err)
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(summary); err == nil {
			if err := s.cache.GetClient().Set(ctx, cacheKey, encoded, stationSummaryTTL).Err(); err != nil {
				slog.Warn("Failed to cache station summary", "station_id", stationID, "error", err)
			}
		}
	}

	return summary, nil
}

func stationSummaryCacheKey(stationID uuid.UUID) string {
	return fmt.Sprintf("compliance:station_summary:%s", stationID)
}
