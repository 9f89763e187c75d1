package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/yearbook-api/internal/handler"
	"github.com/noah-isme/yearbook-api/internal/middleware"
	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/internal/service"
	"github.com/noah-isme/yearbook-api/pkg/config"
	"github.com/noah-isme/yearbook-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/yearbook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/yearbook-api/pkg/middleware/requestid"
)

type routeHandlers struct {
	auth        *handler.AuthHandler
	colleges    *handler.CollegeHandler
	students    *handler.StudentHandler
	profiles    *handler.ProfileHandler
	testimonial *handler.TestimonialHandler
	photos      *handler.PhotoHandler
	drive       *handler.DriveHandler
	exports     *handler.ExportHandler
	metrics     *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, tokens middleware.TokenValidator, audit middleware.AuditRecorder, metrics *service.MetricsService, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", h.auth.Register)
	auth.POST("/login", h.auth.Login)

	api.GET("/photos/:token", h.photos.Serve)
	api.GET("/drive/callback", h.drive.Callback)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))
	secured.GET("/auth/me", h.auth.Me)
	secured.POST("/auth/change-password", h.auth.ChangePassword)
	secured.GET("/colleges", h.colleges.List)
	secured.GET("/colleges/:id", h.colleges.Get)
	secured.GET("/profile", h.profiles.Get)
	secured.GET("/drive/connect", h.drive.Connect)

	admin := secured.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/colleges", middleware.Audit(audit, logr, models.AuditActionCollegeCreate, "college"), h.colleges.Create)
	admin.PUT("/colleges/:id", middleware.Audit(audit, logr, models.AuditActionCollegeUpdate, "college"), h.colleges.Update)
	admin.POST("/students/bulk-upload", h.students.BulkUpload)
	admin.POST("/students/bulk-upload/file", h.students.UploadFile)
	admin.GET("/students", h.students.List)
	admin.GET("/students/:id", h.students.Get)
	admin.PUT("/students/:id", middleware.Audit(audit, logr, models.AuditActionStudentUpdate, "student"), h.students.Update)
	admin.DELETE("/students/:id", h.students.Delete)
	admin.GET("/students/:id/testimonials", h.students.Testimonials)
	admin.PUT("/testimonials/:from/:to", h.testimonial.Update)
	admin.DELETE("/testimonials/:from/:to", h.testimonial.Delete)
	admin.POST("/credentials/export", middleware.Audit(audit, logr, models.AuditActionCredentialExport, "credentials"), h.exports.Credentials)
	admin.GET("/metrics/summary", h.metrics.Summary)

	student := secured.Group("")
	student.Use(middleware.RequireStudent())
	student.PUT("/profile", h.profiles.Update)
	student.PUT("/yearbook-answers", h.profiles.UpdateAnswers)
	student.GET("/college/students", h.students.Classmates)
	student.POST("/testimonials", h.testimonial.Submit)
	student.GET("/testimonials/received", h.testimonial.Received)
	student.GET("/testimonials/written", h.testimonial.Written)
	student.POST("/photos/upload", h.photos.Upload)
	student.GET("/photos", h.photos.List)

	return r
}
