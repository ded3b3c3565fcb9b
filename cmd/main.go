package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"compliance-service/internal/config"
	"compliance-service/internal/database/minio"
	"compliance-service/internal/database/postgres"
	"compliance-service/internal/database/redis"
	"compliance-service/internal/handlers"
	"compliance-service/internal/repository"
	"compliance-service/internal/services"

	"github.com/gin-gonic/gin"
)

func setupLogging() (*os.File, error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
		}
	}()

	logDir := filepath.Join("/var", "log", "compliance_service")
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()
	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.PostgresCfg.Host, cfg.PostgresCfg.Port, cfg.PostgresCfg.Username, cfg.PostgresCfg.DBname)

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connecting to database: %s", err)
		postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}
	defer db.Close()

	// Object storage and cache are optional collaborators; the upload
	// pipeline keeps working without them.
	minioClient, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		log.Printf("MinIO unavailable, raw-file archiving disabled: %v", err)
		minioClient = nil
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg)
	if err != nil {
		log.Printf("Redis unavailable, summary caching disabled: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// repositories
	stationRepository := repository.NewStationRepository(db)
	normRepository := repository.NewNormRepository(db)
	measurementRepository := repository.NewMeasurementRepository(db)
	declarationRepository := repository.NewDeclarationRepository(db)

	// services
	uploadService := services.NewUploadService(
		stationRepository, normRepository, measurementRepository, declarationRepository,
		minioClient, redisClient, services.DefaultNormTable())
	reportService := services.NewReportService(
		stationRepository, normRepository, measurementRepository, declarationRepository, redisClient)
	kmzService := services.NewKMZService(stationRepository, declarationRepository, minioClient)

	// handlers
	middleware := handlers.NewMiddleware(cfg.JWTSecret)
	measurementHandler := handlers.NewMeasurementHandler(uploadService)
	stationHandler := handlers.NewStationHandler(reportService, kmzService)

	r := gin.Default()
	r.GET("/checkhealth", func(c *gin.Context) {
		c.String(200, "Compliance service is healthy")
	})

	measurementHandler.RegisterRoutes(r, middleware)
	stationHandler.RegisterRoutes(r, middleware)

	log.Printf("Starting compliance-service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
