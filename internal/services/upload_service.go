package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"compliance-service/internal/conformity"
	"compliance-service/internal/database/minio"
	"compliance-service/internal/database/redis"
	"compliance-service/internal/models"
	"compliance-service/internal/repository"
	"compliance-service/internal/spreadsheet"

	"github.com/google/uuid"
)

const archiveLinkTTL = 15 * time.Minute

// UploadService orchestrates one batch import end to end: parse, validate,
// persist measurements and conformity declarations as one atomic unit.
type UploadService struct {
	stationRepo     *repository.StationRepository
	normRepo        *repository.NormRepository
	measurementRepo *repository.MeasurementRepository
	declarationRepo *repository.DeclarationRepository
	storage         *minio.MinioClient
	cache           *redis.Client
	normDefaults    map[models.Parameter]NormDefault
}

func NewUploadService(
	stationRepo *repository.StationRepository,
	normRepo *repository.NormRepository,
	measurementRepo *repository.MeasurementRepository,
	declarationRepo *repository.DeclarationRepository,
	storage *minio.MinioClient,
	cache *redis.Client,
	normDefaults map[models.Parameter]NormDefault,
) *UploadService {
	return &UploadService{
		stationRepo:     stationRepo,
		normRepo:        normRepo,
		measurementRepo: measurementRepo,
		declarationRepo: declarationRepo,
		storage:         storage,
		cache:           cache,
		normDefaults:    normDefaults,
	}
}

// UploadMeasurements runs the whole batch import. Steps before the
// transaction are pure validation: nothing is persisted until every row has
// parsed and the batch contract holds. A failure anywhere inside the
// transaction rolls back all measurements and declarations of the batch.
func (s *UploadService) UploadMeasurements(ctx context.Context, req models.UploadRequest, fileData []byte) (*models.UploadResult, error) {
	if len(fileData) == 0 {
		return nil, newValidationError("No se ha cargado ningún archivo")
	}
	if req.ClientID == "" || req.StationID == "" || req.ParameterID == "" || req.Date == "" {
		return nil, newValidationError("Faltan campos requeridos: clientId, stationId, parameterId, date")
	}

	stationNumber, err := normalizeStationNumber(req.StationID)
	if err != nil {
		return nil, err
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, newValidationError(fmt.Sprintf("Fecha inválida %q: se espera YYYY-MM-DD", req.Date))
	}

	station, err := s.stationRepo.Upsert(ctx, req.ClientID, stationNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve station: %w", err)
	}

	rows, err := spreadsheet.Decode(fileData)
	if err != nil {
		return nil, err
	}

	samples := make([]models.Sample, 0, len(rows))
	for _, row := range rows {
		sample, err := spreadsheet.ParseRow(row)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	if err := spreadsheet.ValidateBatch(samples); err != nil {
		return nil, newValidationError(err.Error())
	}

	tx, err := s.measurementRepo.BeginTransaction(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	parameter := models.Parameter(req.ParameterID)
	norm, err := s.normRepo.GetByClientAndParameterTx(ctx, tx, req.ClientID, parameter)
	if err != nil {
		return nil, err
	}
	if norm == nil {
		defaults, ok := s.normDefaults[parameter]
		if !ok {
			return nil, fmt.Errorf("no existe norma ni valor límite por defecto para el parámetro %q", req.ParameterID)
		}
		norm = &models.Norm{
			ClientID:          req.ClientID,
			Parameter:         parameter,
			LimitValue:        defaults.LimitValue,
			MeasurementPeriod: defaults.MeasurementPeriod,
		}
		if err := s.normRepo.CreateTx(ctx, tx, norm); err != nil {
			return nil, err
		}
	}

	// Samples are persisted and evaluated in spreadsheet row order, two
	// sequential writes per sample, inside the one transaction.
	for _, measurement := range buildMeasurements(station.ID, norm.ID, samples, req.Date) {
		if err := s.measurementRepo.CreateTx(ctx, tx, measurement); err != nil {
			return nil, err
		}

		result := conformity.Evaluate(measurement.Concentration, norm.LimitValue, measurement.Uncertainty, measurement.CoverageFactor)
		declaration := &models.ConformityDeclaration{
			MeasurementID:                measurement.ID,
			MeanConcentration:            result.MeanConcentration,
			ProbabilityOfConformity:      result.ProbabilityOfConformity,
			ProbabilityOfFalseAcceptance: result.ProbabilityOfFalseAcceptance,
			DecisionRule:                 result.Decision,
		}
		if err := s.declarationRepo.CreateTx(ctx, tx, declaration); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit upload transaction: %w", err)
	}

	uploadResult := &models.UploadResult{
		StationID:        station.ID.String(),
		NormID:           norm.ID.String(),
		MeasurementCount: len(samples),
	}
	uploadResult.ArchiveObject = s.archiveUpload(ctx, req.ClientID, fileData)
	s.invalidateSummary(ctx, station.ID)

	slog.Info("Measurement batch committed",
		"client_id", req.ClientID,
		"station_id", station.ID,
		"parameter", parameter,
		"samples", len(samples))

	return uploadResult, nil
}

// buildMeasurements maps parsed samples onto measurement rows, numbering each
// with its 1-based spreadsheet position. The sequence is the ordering
// tiebreaker for listings: created_at alone can collide across the inserts of
// one transaction.
func buildMeasurements(stationID, normID uuid.UUID, samples []models.Sample, periodStartDate string) []*models.Measurement {
	measurements := make([]*models.Measurement, 0, len(samples))
	for i, sample := range samples {
		measurements = append(measurements, &models.Measurement{
			StationID:               stationID,
			NormID:                  normID,
			SampleLabel:             sample.SampleLabel,
			SampleDate:              sample.SampleDate,
			SampleTime:              sample.SampleTime,
			SamplingDurationMinutes: sample.SamplingDurationMinutes,
			Concentration:           sample.Concentration,
			Uncertainty:             sample.Uncertainty,
			CoverageFactor:          sample.CoverageFactor,
			NormValue:               sample.NormValue,
			PeriodStartDate:         periodStartDate,
			BatchSequence:           i + 1,
		})
	}
	return measurements
}

// archiveUpload stores the raw spreadsheet bytes after commit. Best effort:
// the batch is already committed, so archive failures are only logged.
func (s *UploadService) archiveUpload(ctx context.Context, clientID string, fileData []byte) string {
	if s.storage == nil {
		return ""
	}

	objectName := fmt.Sprintf("%s/%s.xlsx", clientID, uuid.New())
	err := s.storage.UploadData(ctx, minio.Storage.MeasurementUploads, objectName, fileData,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err != nil {
		slog.Warn("Failed to archive uploaded spreadsheet", "client_id", clientID, "error", err)
		return ""
	}

	return objectName
}

// ListArchivedUploads lists a client's archived spreadsheets with temporary
// download links.
func (s *UploadService) ListArchivedUploads(ctx context.Context, clientID string) ([]models.ArchivedUpload, error) {
	if s.storage == nil {
		return nil, newValidationError("El archivo de cargas no está disponible")
	}

	objects, err := s.storage.ListFiles(ctx, minio.Storage.MeasurementUploads, clientID+"/")
	if err != nil {
		return nil, fmt.Errorf("failed to list archived uploads: %w", err)
	}

	uploads := make([]models.ArchivedUpload, 0, len(objects))
	for _, object := range objects {
		url, err := s.storage.GetPresignedURL(ctx, minio.Storage.MeasurementUploads, object.Key, archiveLinkTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to presign archived upload %s: %w", object.Key, err)
		}
		uploads = append(uploads, models.ArchivedUpload{
			ObjectName:  object.Key,
			SizeBytes:   object.Size,
			UploadedAt:  object.LastModified,
			DownloadURL: url,
		})
	}

	return uploads, nil
}

// DownloadArchivedUpload streams one archived spreadsheet back. Objects are
// keyed under the owning client's prefix; requests for another client's
// objects are rejected before storage is touched.
func (s *UploadService) DownloadArchivedUpload(ctx context.Context, clientID, objectName string) ([]byte, error) {
	if !strings.HasPrefix(objectName, clientID+"/") {
		return nil, newValidationError(fmt.Sprintf("El objeto %q no pertenece al cliente", objectName))
	}
	if s.storage == nil {
		return nil, newValidationError("El archivo de cargas no está disponible")
	}

	object, err := s.storage.GetFile(ctx, minio.Storage.MeasurementUploads, objectName)
	if err != nil {
		return nil, fmt.Errorf("failed to get archived upload %s: %w", objectName, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived upload %s: %w", objectName, err)
	}

	return data, nil
}

func (s *UploadService) invalidateSummary(ctx context.Context, stationID uuid.UUID) {
	if s.cache == nil {
		return
	}

	if err := s.cache.GetClient().Del(ctx, stationSummaryCacheKey(stationID)).Err(); err != nil {
		slog.Warn("Failed to invalidate station summary cache", "station_id", stationID, "error", err)
	}
}

// normalizeStationNumber accepts "1".."4" as well as forms like "station-3",
// keeping only the digits before parsing.
func normalizeStationNumber(raw string) (int, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	number, err := strconv.Atoi(digits)
	if err != nil {
		return 0, newValidationError(fmt.Sprintf("Estación inválida %q", raw))
	}
	if number < 1 || number > 4 {
		return 0, newValidationError(fmt.Sprintf("Estación inválida %q: se espera un número entre 1 y 4", raw))
	}

	return number, nil
}
