package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"compliance-service/internal/database/minio"
	"compliance-service/internal/models"
	"compliance-service/internal/repository"

	"github.com/google/uuid"
	kml "github.com/twpayne/go-kml/v3"
)

const (
	styleConforming    = "conforming"
	styleNonConforming = "non-conforming"
	styleNoData        = "no-data"
)

// KMZService renders a client's stations as KML placemarks, styled by each
// station's latest conformity decision, and packages the document as KMZ.
type KMZService struct {
	stationRepo     *repository.StationRepository
	declarationRepo *repository.DeclarationRepository
	storage         *minio.MinioClient
}

func NewKMZService(
	stationRepo *repository.StationRepository,
	declarationRepo *repository.DeclarationRepository,
	storage *minio.MinioClient,
) *KMZService {
	return &KMZService{
		stationRepo:     stationRepo,
		declarationRepo: declarationRepo,
		storage:         storage,
	}
}

// BuildStationsKMZ builds the KMZ file for a client's stations and returns
// its bytes together with the suggested filename. A copy is archived to
// object storage, best effort.
func (s *KMZService) BuildStationsKMZ(ctx context.Context, clientID string) ([]byte, string, error) {
	stations, err := s.stationRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get stations for KMZ: %w", err)
	}
	if len(stations) == 0 {
		return nil, "", fmt.Errorf("no hay estaciones registradas para el cliente %q", clientID)
	}

	decisions, err := s.declarationRepo.GetLatestDecisionsByClient(ctx, clientID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get station decisions for KMZ: %w", err)
	}

	document := buildStationsDocument(clientID, stations, decisions)

	var kmlBuffer bytes.Buffer
	if err := kml.KML(document).WriteIndent(&kmlBuffer, "", "  "); err != nil {
		return nil, "", fmt.Errorf("failed to render KML: %w", err)
	}

	kmzData, err := packageKMZ(kmlBuffer.Bytes())
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("stations_%s_%s.kmz", clientID, time.Now().Format("2006-01-02"))
	s.archiveKMZ(ctx, clientID, filename, kmzData)

	return kmzData, filename, nil
}

func buildStationsDocument(clientID string, stations []models.Station, decisions map[uuid.UUID]models.DecisionRule) kml.Element {
	children := []kml.Element{
		kml.Name(fmt.Sprintf("Estaciones de monitoreo - cliente %s", clientID)),
		kml.SharedStyle(styleConforming,
			kml.IconStyle(kml.Color(color.RGBA{R: 0x00, G: 0xc8, B: 0x00, A: 0xff}))),
		kml.SharedStyle(styleNonConforming,
			kml.IconStyle(kml.Color(color.RGBA{R: 0xc8, G: 0x00, B: 0x00, A: 0xff}))),
		kml.SharedStyle(styleNoData,
			kml.IconStyle(kml.Color(color.RGBA{R: 0x96, G: 0x96, B: 0x96, A: 0xff}))),
	}

	for _, station := range stations {
		point := station.Location()

		name := fmt.Sprintf("Estación %d", station.StationNumber)
		if station.Name != nil && *station.Name != "" {
			name = *station.Name
		}

		styleID := styleNoData
		description := "Sin declaraciones de conformidad"
		if decision, ok := decisions[station.ID]; ok {
			switch decision {
			case models.DecisionConforming:
				styleID = styleConforming
				description = "Última declaración: Conforme"
			case models.DecisionNonConforming:
				styleID = styleNonConforming
				description = "Última declaración: No conforme"
			}
		}

		children = append(children, kml.Placemark(
			kml.Name(name),
			kml.Description(description),
			kml.StyleURL("#"+styleID),
			kml.Point(kml.Coordinates(kml.Coordinate{Lon: point.X(), Lat: point.Y()})),
		))
	}

	return kml.Document(children...)
}

// packageKMZ wraps the KML document in a zip archive with the conventional
// doc.kml entry name.
func packageKMZ(kmlData []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)

	entry, err := writer.Create("doc.kml")
	if err != nil {
		return nil, fmt.Errorf("failed to create KMZ entry: %w", err)
	}
	if _, err := entry.Write(kmlData); err != nil {
		return nil, fmt.Errorf("failed to write KMZ entry: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize KMZ archive: %w", err)
	}

	return buffer.Bytes(), nil
}

func (s *KMZService) archiveKMZ(ctx context.Context, clientID, filename string, data []byte) {
	if s.storage == nil {
		return
	}

	objectName := fmt.Sprintf("%s/%s", clientID, filename)
	err := s.storage.UploadData(ctx, minio.Storage.KMZExports, objectName, data, "application/vnd.google-earth.kmz")
	if err != nil {
		slog.Warn("Failed to archive KMZ export", "client_id", clientID, "error", err)
	}
}
