package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"path"

	"compliance-service/internal/models"
	"compliance-service/internal/services"
	"compliance-service/utils"

	"github.com/gin-gonic/gin"
)

type MeasurementHandler struct {
	uploadService *services.UploadService
}

func NewMeasurementHandler(uploadService *services.UploadService) *MeasurementHandler {
	return &MeasurementHandler{uploadService: uploadService}
}

func (h *MeasurementHandler) RegisterRoutes(router *gin.Engine, middleware *Middleware) {
	protectedGr := router.Group("/compliance/protected/api/v1", middleware.RequireAuth())
	protectedGr.POST("/measurements/upload", h.UploadMeasurements)
	protectedGr.GET("/measurements/archive", h.ListArchivedUploads)
	protectedGr.GET("/measurements/archive/download", h.DownloadArchivedUpload)
}

// DownloadArchivedUpload streams one archived spreadsheet identified by its
// object name.
func (h *MeasurementHandler) DownloadArchivedUpload(c *gin.Context) {
	id := c.Query("clientId")
	if id == "" {
		id = c.GetString(ContextUserID)
	}
	if id == "" {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "Client ID is required"))
		return
	}

	objectName := c.Query("object")
	if objectName == "" {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST", "object query parameter is required"))
		return
	}

	data, err := h.uploadService.DownloadArchivedUpload(c.Request.Context(), id, objectName)
	if err != nil {
		slog.Error("Failed to download archived upload", "client_id", id, "object", objectName, "error", err)
		code, status := MapErrorToHTTPStatus(err)
		c.JSON(status, utils.CreateErrorResponse(code, "Failed to download archived upload"))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+path.Base(objectName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ListArchivedUploads lists the client's archived spreadsheets with temporary
// download links.
func (h *MeasurementHandler) ListArchivedUploads(c *gin.Context) {
	id := c.Query("clientId")
	if id == "" {
		id = c.GetString(ContextUserID)
	}
	if id == "" {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "Client ID is required"))
		return
	}

	uploads, err := h.uploadService.ListArchivedUploads(c.Request.Context(), id)
	if err != nil {
		slog.Error("Failed to list archived uploads", "client_id", id, "error", err)
		code, status := MapErrorToHTTPStatus(err)
		c.JSON(status, utils.CreateErrorResponse(code, "Failed to list archived uploads"))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(map[string]interface{}{
		"uploads": uploads,
		"count":   len(uploads),
	}))
}

// UploadMeasurements imports one 18-sample spreadsheet batch. The response
// shape {success, message} is fixed: the reporting frontend keys on it.
func (h *MeasurementHandler) UploadMeasurements(c *gin.Context) {
	var req models.UploadRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Faltan campos requeridos: clientId, stationId, parameterId, date",
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "No se ha cargado ningún archivo",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "No se pudo leer el archivo cargado",
		})
		return
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "No se pudo leer el archivo cargado",
		})
		return
	}

	result, err := h.uploadService.UploadMeasurements(c.Request.Context(), req, fileData)
	if err != nil {
		_, status := MapErrorToHTTPStatus(err)
		if status == http.StatusNotFound {
			status = http.StatusInternalServerError
		}
		slog.Error("Measurement upload failed",
			"client_id", req.ClientID,
			"station_id", req.StationID,
			"error", err)
		c.JSON(status, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Datos cargados exitosamente",
		"data":    result,
	})
}
