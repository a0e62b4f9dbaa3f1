package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"account-service/config"
	deliveryHttp "account-service/internal/delivery/http"
	"account-service/internal/delivery/http/handler"
	"account-service/internal/delivery/http/middleware"
	"account-service/internal/domain/event"
	domainRepo "account-service/internal/domain/repository"
	"account-service/internal/infrastructure/cache"
	"account-service/internal/infrastructure/database"
	"account-service/internal/infrastructure/messaging"
	"account-service/internal/repository"
	"account-service/internal/service"
	"account-service/internal/usecase"
	"account-service/pkg/jwt"
	"account-service/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Publisher   event.Publisher
	Server      *http.Server
}

// Options tune startup.
type Options struct {
	// Migrate applies pending migrations before serving.
	Migrate bool
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context, opts Options) (*App, error) {
	app := &App{}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := NewLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	if opts.Migrate {
		if err := MigrateUp(cfg.DB, log); err != nil {
			return nil, err
		}
	}

	db, err := database.NewPostgresConnection(ctx, cfg.DB, cfg.App.Env, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.RedisClient = redisClient

	app.Publisher = messaging.NewPublisher(cfg.Kafka, log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := Dependencies{
		Log:                    log,
		JWTService:             jwt.NewJWTService(cfg.JWT),
		TokenStore:             service.NewRedisTokenStore(log, redisClient),
		Hasher:                 service.NewBcryptHasher(cfg.Security.BcryptCost),
		Publisher:              app.Publisher,
		Registry:               registry,
		CORSOrigins:            cfg.App.CORSOrigins,
		UserRepo:               repository.NewUserRepository(db),
		AdminRepo:              repository.NewAdminRepository(db),
		HealthProfessionalRepo: repository.NewHealthProfessionalRepository(db),
		PatientRepo:            repository.NewPatientRepository(db),
		PilotStudyRepo:         repository.NewPilotStudyRepository(db),
		AuditLogRepo:           repository.NewAuditLogRepository(db),
	}
	usecases := NewUsecases(deps)

	if err := usecases.Admin.EnsureDefaultAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Warnf("Failed to create default admin: %+v", err)
	}

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           NewHTTPHandler(deps, usecases),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// NewLogger returns a JSON logger at level, falling back to info.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// MigrateUp applies every pending migration.
func MigrateUp(cfg config.DBConfig, log *logrus.Logger) error {
	migrator, err := database.NewMigrator(cfg)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	version, dirty, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	log.Infof("Database schema at version %d (dirty=%t)", version, dirty)
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, kafka)
func (app *App) Close() {
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Log.Warnf("Failed to close publisher: %+v", err)
		}
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

// Dependencies are the adapters the usecases and the HTTP layer run on.
type Dependencies struct {
	Log        *logrus.Logger
	JWTService *jwt.JWTService
	TokenStore service.TokenStore
	Hasher     service.PasswordHasher
	Publisher  event.Publisher
	Registry   *prometheus.Registry

	// CORSOrigins is passed to the CORS middleware. Empty allows any origin.
	CORSOrigins []string

	UserRepo               domainRepo.UserRepository
	AdminRepo              domainRepo.AdminRepository
	HealthProfessionalRepo domainRepo.HealthProfessionalRepository
	PatientRepo            domainRepo.PatientRepository
	PilotStudyRepo         domainRepo.PilotStudyRepository
	AuditLogRepo           domainRepo.AuditLogRepository
}

type Usecases struct {
	Auth               usecase.AuthUsecase
	User               usecase.UserUsecase
	Admin              usecase.AdminUsecase
	HealthProfessional usecase.HealthProfessionalUsecase
	Patient            usecase.PatientUsecase
	PilotStudy         usecase.PilotStudyUsecase
	AuditLog           usecase.AuditLogUsecase
}

func NewUsecases(d Dependencies) Usecases {
	auditService := service.NewAuditService(d.Log, d.AuditLogRepo)

	return Usecases{
		Auth:               usecase.NewAuthUsecase(d.Log, d.UserRepo, d.JWTService, d.TokenStore, d.Hasher, auditService),
		User:               usecase.NewUserUsecase(d.Log, d.UserRepo, d.PilotStudyRepo, d.Hasher, d.TokenStore, auditService, d.Publisher),
		Admin:              usecase.NewAdminUsecase(d.Log, d.AdminRepo, d.HealthProfessionalRepo, d.PatientRepo, d.PilotStudyRepo, d.Hasher, auditService),
		HealthProfessional: usecase.NewHealthProfessionalUsecase(d.Log, d.HealthProfessionalRepo, d.PilotStudyRepo, d.Hasher, auditService),
		Patient:            usecase.NewPatientUsecase(d.Log, d.PatientRepo, d.PilotStudyRepo, d.Hasher, auditService),
		PilotStudy:         usecase.NewPilotStudyUsecase(d.Log, d.PilotStudyRepo, d.HealthProfessionalRepo, d.PatientRepo, auditService, d.Publisher),
		AuditLog:           usecase.NewAuditLogUsecase(d.Log, d.AuditLogRepo),
	}
}

// NewHTTPHandler builds the router over u.
func NewHTTPHandler(d Dependencies, u Usecases) http.Handler {
	customValidator := validator.NewValidator()

	handlers := deliveryHttp.Handlers{
		Auth:               handler.NewAuthHandler(u.Auth, customValidator),
		User:               handler.NewUserHandler(u.User),
		Admin:              handler.NewAdminHandler(u.Admin),
		HealthProfessional: handler.NewHealthProfessionalHandler(u.HealthProfessional, u.PilotStudy),
		Patient:            handler.NewPatientHandler(u.Patient, u.PilotStudy),
		PilotStudy:         handler.NewPilotStudyHandler(u.PilotStudy),
		AuditLog:           handler.NewAuditLogHandler(u.AuditLog),
	}

	router := deliveryHttp.NewRouter(
		handlers,
		middleware.NewAuthMiddleware(d.JWTService, d.TokenStore),
		middleware.NewCORSMiddleware(d.CORSOrigins),
		middleware.NewMetricsMiddleware(d.Registry),
		d.Registry,
	)
	return router.Setup()
}
