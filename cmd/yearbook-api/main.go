package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/yearbook-api/api/swagger"
	"github.com/noah-isme/yearbook-api/internal/handler"
	"github.com/noah-isme/yearbook-api/internal/repository"
	"github.com/noah-isme/yearbook-api/internal/service"
	"github.com/noah-isme/yearbook-api/pkg/cache"
	"github.com/noah-isme/yearbook-api/pkg/config"
	"github.com/noah-isme/yearbook-api/pkg/database"
	"github.com/noah-isme/yearbook-api/pkg/drive"
	"github.com/noah-isme/yearbook-api/pkg/jobs"
	"github.com/noah-isme/yearbook-api/pkg/logger"
	"github.com/noah-isme/yearbook-api/pkg/storage"
)

// @title Yearbook API
// @version 1.0.0
// @description Roster ingestion, student profiles, testimonials and photos for college yearbooks
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, running without cache", zap.Error(err))
			redisClient = nil
		}
	}

	photoStore, err := storage.NewLocalStorage(cfg.Photos.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare photo storage", zap.Error(err))
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	collegeRepo := repository.NewCollegeRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	testimonialRepo := repository.NewTestimonialRepository(db)
	driveCredRepo := repository.NewDriveCredentialRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && cacheRepo.Available())
	completionSvc := service.NewCompletionService(userRepo, collegeRepo, photoRepo, logr)

	queue := jobs.NewQueue("completion", completionSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})
	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()
	queue.Start(queueCtx)

	photoSigner := storage.NewSignedURLSigner(cfg.Photos.SignedURLSecret, cfg.Photos.SignedURLTTL)
	stateSigner := storage.NewSignedURLSigner(cfg.JWT.Secret, cfg.Drive.StateTTL)

	authSvc := service.NewAuthService(userRepo, collegeRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	collegeSvc := service.NewCollegeService(collegeRepo, cacheSvc, queue, validate, logr)
	studentSvc := service.NewStudentService(userRepo, collegeRepo, photoRepo, metricsSvc, validate, logr, service.StudentConfig{
		PasswordLength: cfg.Roster.PasswordLength,
		MaxFileBytes:   cfg.Roster.MaxFileBytes,
	})
	profileSvc := service.NewProfileService(userRepo, collegeRepo, photoRepo, completionSvc, validate, logr)
	testimonialSvc := service.NewTestimonialService(testimonialRepo, userRepo, userRepo, validate, logr)
	exportSvc := service.NewExportService(nil, nil, validate, logr)

	var driveSvc *service.DriveService
	if client := drive.New(cfg.Drive); client != nil {
		driveSvc = service.NewDriveService(client, driveCredRepo, stateSigner, logr)
	} else {
		logr.Info("google drive not configured, photos will be stored locally")
		driveSvc = service.NewDriveService(nil, driveCredRepo, stateSigner, logr)
	}

	var uploader *service.DriveService
	if driveSvc.Enabled() {
		uploader = driveSvc
	}
	photoSvc := newPhotoService(photoRepo, userRepo, collegeRepo, uploader, photoStore, photoSigner, completionSvc, metricsSvc, logr, cfg.Photos)

	handlers := routeHandlers{
		auth:        handler.NewAuthHandler(authSvc),
		colleges:    handler.NewCollegeHandler(collegeSvc),
		students:    handler.NewStudentHandler(studentSvc, profileSvc, testimonialSvc),
		profiles:    handler.NewProfileHandler(profileSvc),
		testimonial: handler.NewTestimonialHandler(testimonialSvc),
		photos:      handler.NewPhotoHandler(photoSvc),
		drive:       handler.NewDriveHandler(driveSvc),
		exports:     handler.NewExportHandler(exportSvc),
		metrics:     handler.NewMetricsHandler(metricsSvc, db),
	}

	r := newRouter(cfg, logr, authSvc, userRepo, metricsSvc, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	queue.Stop()
}

// newPhotoService keeps a nil *DriveService from reaching the service as a non-nil interface.
func newPhotoService(
	photos *repository.PhotoRepository,
	users *repository.UserRepository,
	colleges *repository.CollegeRepository,
	uploader *service.DriveService,
	store *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	completion *service.CompletionService,
	metrics *service.MetricsService,
	logr *zap.Logger,
	cfg config.PhotosConfig,
) *service.PhotoService {
	photoCfg := service.PhotoConfig{
		MaxFileBytes:  cfg.MaxFileBytes,
		AllowedMIMEs:  cfg.AllowedMIMEs,
		PublicURLBase: cfg.PublicURLBase,
	}
	if uploader == nil {
		return service.NewPhotoService(photos, users, colleges, nil, store, signer, completion, metrics, logr, photoCfg)
	}
	return service.NewPhotoService(photos, users, colleges, uploader, store, signer, completion, metrics, logr, photoCfg)
}
