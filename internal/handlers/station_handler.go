package handlers

import (
	"log/slog"
	"net/http"

	"compliance-service/internal/services"
	"compliance-service/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StationHandler struct {
	reportService *services.ReportService
	kmzService    *services.KMZService
}

func NewStationHandler(reportService *services.ReportService, kmzService *services.KMZService) *StationHandler {
	return &StationHandler{
		reportService: reportService,
		kmzService:    kmzService,
	}
}

func (h *StationHandler) RegisterRoutes(router *gin.Engine, middleware *Middleware) {
	protectedGr := router.Group("/compliance/protected/api/v1", middleware.RequireAuth())

	stationGroup := protectedGr.Group("/stations")
	stationGroup.GET("/list", h.GetStations)
	stationGroup.GET("/detail/:id", h.GetStation)
	stationGroup.GET("/detail/:id/summary", h.GetStationSummary)
	stationGroup.GET("/detail/:id/declarations", h.GetStationDeclarations)
	stationGroup.GET("/detail/:id/measurements", h.GetStationMeasurements)
	stationGroup.PUT("/detail/:id/location", h.UpdateStationLocation)
	stationGroup.GET("/export/kmz", h.ExportStationsKMZ)

	protectedGr.GET("/norms/list", h.GetNorms)
}

// clientID resolves the acting client: an explicit clientId query parameter
// wins, otherwise the authenticated identity is used.
func clientID(c *gin.Context) string {
	if id := c.Query("clientId"); id != "" {
		return id
	}
	return c.GetString(ContextUserID)
}

// GetStations lists the stations registered for the client
func (h *StationHandler) GetStations(c *gin.Context) {
	id := clientID(c)
	if id == "" {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "Client ID is required"))
		return
	}

	stations, err := h.reportService.GetStationsByClient(c.Request.Context(), id)
	if err != nil {
		slog.Error("Failed to get stations", "client_id", id, "error", err)
		code, status := MapErrorToHTTPStatus(err)
		c.JSON(status, utils.CreateErrorResponse(code, "Failed to retrieve stations"))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(map[string]interface{}{
		"stations":  stations,
		"count":     len(stations),
		"client_id": id,
	}))
}

// GetNorms lists the regulatory norms defined for the client
func (h *StationHandler) GetNorms(c *gin.Context) {
	id := clientID(c)
	if id == "" {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "Client ID is required"))
		return
	}

	norms, err := h.reportService.GetNormsByClient(c.Request.Context(), id)
	if err != nil {
		slog.Error("Failed to get norms", "client_id", id, "error", err)
		code, status := MapErrorToHTTPStatus(err)
		c.JSON(status, utils.CreateErrorResponse(code, "Failed to retrieve norms"))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(map[string]interface{}{
		"norms": norms,
		"count": len(norms),
	}))
}

// GetStation returns one station's detail
func (h *StationHandler) GetStation(c *gin.Context) {
	stationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_UUID", "Invalid station ID format"))
		return
	}

	station, err := h.reportService.GetStationByID(c.Request.Context(), stationID)
	if err != nil {
		slog.Error("Failed to get station", "station_id", stationID, "error", err)
		code, status := MapErrorToHTTPStatus(err)
		c.JSON(status, utils.CreateErrorResponse(code, "Failed to retrieve station"))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(station))
}

// GetStationSummary returns the aggregated conformity summary of a station
func (h *StationHandler) GetStationSummary(c *gin.Context) {
	stationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_UUID", "Invalid station ID format"))
		return
	}

	summary, err := h.reportService.GetStationSummary(c.Request.Context(), stationID)
	if err != nil {
		slog.Error("Failed to get station summary", "station_id", stationID, "error", err)
		code, status := MapErrorToHTTPStatus(err)
		c.JSON(status, utils.CreateErrorResponse(code, "Failed to retrieve station summary"))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(summary))
}

// GetStationDeclarations lists a station's conformity declarations,
// optionally filtered by period start date (periodStartDate=YYYY-MM-DD).
func (h *StationHandler) GetStationDeclarations(c *gin.Context) {
	stationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_UUID", "Invalid station ID format"))
		return
	}

	declarations, err := h.reportService.GetDeclarationsByStation(c.Request.Context(), stationID, c.Query("periodStartDate"))
	if err != nil {
		slog.Error("Failed to get declarations", "station_id", stationID, "error", err)
		code, status := MapErrorToHTTPStatus(err)
		c.JSON(status, utils.CreateErrorResponse(code, "Failed to retrieve declarations"))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(map[string]interface{}{
		"declarations": declarations,
		"count":        len(declarations),
		"station_id":   stationID,
	}))
}

// GetStationMeasurements lists a station's persisted measurements
func (h *StationHandler) GetStationMeasurements(c *gin.Context) {
	stationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_UUID", "Invalid station ID format"))
		return
	}

	measurements, err := h.reportService.GetMeasurementsByStation(c.Request.Context(), stationID, c.Query("periodStartDate"))
	if err != nil {
		slog.Error("Failed to get measurements", "station_id", stationID, "error", err)
		code, status := MapErrorToHTTPStatus(err)
		c.JSON(status, utils.CreateErrorResponse(code, "Failed to retrieve measurements"))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(map[string]interface{}{
		"measurements": measurements,
		"count":        len(measurements),
		"station_id":   stationID,
	}))
}

// UpdateStationLocation sets the coordinates rendered in the KMZ export
func (h *StationHandler) UpdateStationLocation(c *gin.Context) {
	stationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_UUID", "Invalid station ID format"))
		return
	}

	var body struct {
		Latitude  float64 `json:"latitude" binding:"required"`
		Longitude float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_BODY", "latitude and longitude are required"))
		return
	}

	if err := h.reportService.UpdateStationLocation(c.Request.Context(), stationID, body.Latitude, body.Longitude); err != nil {
		slog.Error("Failed to update station location", "station_id", stationID, "error", err)
		code, status := MapErrorToHTTPStatus(err)
		c.JSON(status, utils.CreateErrorResponse(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(map[string]interface{}{
		"station_id": stationID,
		"latitude":   body.Latitude,
		"longitude":  body.Longitude,
	}))
}

// ExportStationsKMZ streams the client's stations as a KMZ download
func (h *StationHandler) ExportStationsKMZ(c *gin.Context) {
	id := clientID(c)
	if id == "" {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "Client ID is required"))
		return
	}

	kmzData, filename, err := h.kmzService.BuildStationsKMZ(c.Request.Context(), id)
	if err != nil {
		slog.Error("Failed to build KMZ export", "client_id", id, "error", err)
		code, status := MapErrorToHTTPStatus(err)
		c.JSON(status, utils.CreateErrorResponse(code, "Failed to build KMZ export"))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.google-earth.kmz", kmzData)
}
