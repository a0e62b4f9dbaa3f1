package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"account-service/config"
	"account-service/internal/delivery/http/middleware"
	"account-service/internal/domain/entity"
	"account-service/internal/domain/exception"
	"account-service/internal/service"
	"account-service/internal/testutil"
	"account-service/pkg/jwt"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *testutil.Store
	tokens     *testutil.TokenStore
	publisher  *testutil.Publisher
	jwtService *jwt.JWTService

	pilots   PilotStudyUsecase
	hps      HealthProfessionalUsecase
	patients PatientUsecase
	admins   AdminUsecase
	users    UserUsecase
	auth     AuthUsecase
	audit    AuditLogUsecase
}

func newFixture() *fixture {
	log := testutil.QuietLogger()
	store := testutil.NewStore()
	tokens := testutil.NewTokenStore()
	publisher := &testutil.Publisher{}
	hasher := testutil.PasswordHasher{}
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		Issuer:        "account-service",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})

	auditService := service.NewAuditService(log, store.AuditLogRepository())
	hpRepo := store.HealthProfessionalRepository()
	patientRepo := store.PatientRepository()
	pilotRepo := store.PilotStudyRepository()

	return &fixture{
		store:      store,
		tokens:     tokens,
		publisher:  publisher,
		jwtService: jwtService,
		pilots:     NewPilotStudyUsecase(log, pilotRepo, hpRepo, patientRepo, auditService, publisher),
		hps:        NewHealthProfessionalUsecase(log, hpRepo, pilotRepo, hasher, auditService),
		patients:   NewPatientUsecase(log, patientRepo, pilotRepo, hasher, auditService),
		admins:     NewAdminUsecase(log, store.AdminRepository(), hpRepo, patientRepo, pilotRepo, hasher, auditService),
		users:      NewUserUsecase(log, store.UserRepository(), pilotRepo, hasher, tokens, auditService, publisher),
		auth:       NewAuthUsecase(log, store.UserRepository(), jwtService, tokens, hasher, auditService),
		audit:      NewAuditLogUsecase(log, store.AuditLogRepository()),
	}
}

func asActor(id string, userType entity.UserType) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, id)
	return context.WithValue(ctx, middleware.UserTypeKey, string(userType))
}

func (f *fixture) addHealthProfessional(t *testing.T, email string) *entity.HealthProfessional {
	t.Helper()
	hp := entity.NewHealthProfessional()
	hp.Email = email
	hp.Password = "secret"
	hp.BirthDate = "1990-01-01"
	hp.HealthArea = entity.HealthAreaNutrition
	created, err := f.hps.Add(context.Background(), hp)
	require.NoError(t, err)
	return created
}

func (f *fixture) addPatient(t *testing.T, email string) *entity.Patient {
	t.Helper()
	patient := entity.NewPatient()
	patient.Name = "Elvis Aaron"
	patient.Email = email
	patient.Password = "secret"
	patient.Gender = entity.GenderMale
	patient.BirthDate = "1992-02-29"
	created, err := f.patients.Add(context.Background(), patient)
	require.NoError(t, err)
	return created
}

func (f *fixture) addAdmin(t *testing.T, email string) *entity.Admin {
	t.Helper()
	admin := entity.NewAdmin()
	admin.Email = email
	admin.Password = "secret"
	admin.BirthDate = "1981-11-05"
	created, err := f.admins.Add(context.Background(), admin)
	require.NoError(t, err)
	return created
}

func newPilotStudy(name string, hpIDs ...string) *entity.PilotStudy {
	start := time.Date(2018, 5, 18, 10, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 6, 0)
	active := true
	ps := &entity.PilotStudy{Name: name, IsActive: &active, Start: &start, End: &end}
	for _, id := range hpIDs {
		hp := entity.NewHealthProfessional()
		hp.ID = id
		ps.AddHealthProfessional(*hp)
	}
	return ps
}

func (f *fixture) addPilotStudy(t *testing.T, name string, hpIDs ...string) *entity.PilotStudy {
	t.Helper()
	created, err := f.pilots.Create(context.Background(), newPilotStudy(name, hpIDs...))
	require.NoError(t, err)
	return created
}

func asValidation(t *testing.T, err error) *exception.ValidationException {
	t.Helper()
	var vErr *exception.ValidationException
	require.True(t, errors.As(err, &vErr), "expected a validation exception, got %v", err)
	return vErr
}
