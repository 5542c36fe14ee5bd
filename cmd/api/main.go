package main

import (
	"context"
	"fmt"

	"sharpcut/cmd/internal/auth"
	"sharpcut/cmd/internal/config"
	"sharpcut/cmd/internal/domain/sqlite"
	"sharpcut/cmd/internal/domain/sqlite/repository"
	"sharpcut/cmd/internal/integration/aws/s3bucket"
	"sharpcut/cmd/internal/integration/mail"
	"sharpcut/cmd/internal/routes"
	"sharpcut/cmd/internal/service"
	"sharpcut/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	validate := validator.New()
	validators.Register(validate)

	if err := godotenv.Load(); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", err)
	}

	// Init SQLite
	db, err := sqlite.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	// Image storage
	storage, err := s3bucket.Init(context.Background(), cfg.S3Bucket, cfg.S3Region)
	if err != nil {
		log.Fatal("failed to initialize image storage", err)
	}

	// Mail is optional; confirmation sending is skipped without a host.
	var mailer service.MailSender
	if cfg.SMTPHost != "" {
		mailer = mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromAddress())
	}

	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.JWTExpire)

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Getting services
	userService := service.NewUserService(userRepo, validate, codec, mailer, cfg.ConfirmCodeTTL)
	catalogService := service.NewCatalogService(serviceRepo, validate, storage, cfg.ServiceImageFolder)
	apptService := service.NewAppointmentService(apptRepo, serviceRepo, validate, mailer, storage, cfg.ReferenceImageFolder)
	reviewService := service.NewReviewService(reviewRepo, serviceRepo, validate)

	// Getting routes
	userRoutes := routes.NewUserDefault(userService)
	catalogRoutes := routes.NewCatalogDefault(catalogService)
	apptRoutes := routes.NewAppointmentDefault(apptService)
	reviewRoutes := routes.NewReviewDefault(reviewService)

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	protect := auth.Protect(codec, userRepo)

	// Auth
	e.POST("/api/auth/register", userRoutes.Register)
	e.POST("/api/auth/login", userRoutes.Login)
	e.POST("/api/auth/confirm", userRoutes.ConfirmEmail)
	e.GET("/api/auth/me", userRoutes.Me, protect)
	e.PUT("/api/auth/details", userRoutes.UpdateDetails, protect)

	// Service catalog (reads public, mutations admin)
	e.GET("/api/services", catalogRoutes.GetServices)
	e.GET("/api/services/:id", catalogRoutes.GetService)
	e.POST("/api/services", catalogRoutes.CreateService, protect)
	e.PUT("/api/services/:id", catalogRoutes.UpdateService, protect)
	e.DELETE("/api/services/:id", catalogRoutes.DeleteService, protect)
	e.PUT("/api/services/:id/image", catalogRoutes.UploadImage, protect)

	// Appointments
	e.GET("/api/appointments", apptRoutes.GetAppointments, protect)
	e.GET("/api/appointments/:id", apptRoutes.GetAppointment, protect)
	e.POST("/api/appointments", apptRoutes.CreateAppointment, protect)
	e.PUT("/api/appointments/:id", apptRoutes.UpdateAppointment, protect)
	e.DELETE("/api/appointments/:id", apptRoutes.DeleteAppointment, protect)
	e.PUT("/api/appointments/:id/image", apptRoutes.UploadImage, protect)

	// Bookable time slots
	e.GET("/api/slots", apptRoutes.GetTimeSlots)

	// Reviews
	e.GET("/api/reviews", reviewRoutes.GetReviews)
	e.POST("/api/reviews", reviewRoutes.CreateReview, protect)
	e.PUT("/api/reviews/:id", reviewRoutes.UpdateReview, protect)
	e.DELETE("/api/reviews/:id", reviewRoutes.DeleteReview, protect)

	err = e.Start(fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		e.Logger.Fatal(err)
	}
}
