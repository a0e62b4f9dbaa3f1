package usecase

import (
	"context"

	"account-service/internal/converter"
	"account-service/internal/delivery/http/middleware"
	"account-service/internal/domain/entity"
	"account-service/internal/domain/repository"
	"account-service/internal/service"
	"account-service/internal/validation"
	"account-service/pkg/query"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type PatientUsecase interface {
	Add(ctx context.Context, patient *entity.Patient) (*entity.Patient, error)
	GetAll(ctx context.Context, q *query.Query) ([]entity.Patient, error)
	GetByID(ctx context.Context, id string, withPilotStudies bool) (*entity.Patient, error)
	Update(ctx context.Context, patient *entity.Patient) (*entity.Patient, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
}

type patientUsecase struct {
	log            *logrus.Logger
	patientRepo    repository.PatientRepository
	pilotStudyRepo repository.PilotStudyRepository
	hasher         service.PasswordHasher
	auditService   service.AuditService
}

func NewPatientUsecase(
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	pilotStudyRepo repository.PilotStudyRepository,
	hasher service.PasswordHasher,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		log:            log,
		patientRepo:    patientRepo,
		pilotStudyRepo: pilotStudyRepo,
		hasher:         hasher,
		auditService:   auditService,
	}
}

func (u *patientUsecase) Add(ctx context.Context, patient *entity.Patient) (*entity.Patient, error) {
	if err := validation.CreatePatient(patient); err != nil {
		return nil, err
	}

	hashedPassword, err := u.hasher.Hash(patient.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}
	patient.Password = hashedPassword

	if err := u.patientRepo.Create(ctx, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, actorID, entity.AuditActionPatientCreate, "patient", patient.ID, converter.PatientToResponse(patient)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return patient, nil
}

func (u *patientUsecase) GetAll(ctx context.Context, q *query.Query) ([]entity.Patient, error) {
	patients, err := u.patientRepo.Find(ctx, q)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, err
	}
	return patients, nil
}

// GetByID returns nil when the patient does not exist. Pilot studies are
// loaded only when asked for.
func (u *patientUsecase) GetByID(ctx context.Context, id string, withPilotStudies bool) (*entity.Patient, error) {
	if err := validation.ObjectID(id); err != nil {
		return nil, err
	}
	patient, err := u.patientRepo.FindOne(ctx, query.ByID(id))
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil || !withPilotStudies {
		return patient, nil
	}

	studies, err := u.pilotStudyRepo.FindByPatient(ctx, id, query.New())
	if err != nil {
		u.log.Warnf("Failed to find pilot studies of patient: %+v", err)
		return nil, err
	}
	patient.PilotStudies = studies
	if patient.PilotStudies == nil {
		patient.PilotStudies = []entity.PilotStudy{}
	}
	return patient, nil
}

func (u *patientUsecase) Update(ctx context.Context, patient *entity.Patient) (*entity.Patient, error) {
	if err := validation.UpdatePatient(patient); err != nil {
		return nil, err
	}
	if err := validation.ObjectID(patient.ID); err != nil {
		return nil, err
	}

	current, err := u.patientRepo.FindOne(ctx, query.ByID(patient.ID))
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if current == nil {
		return nil, nil
	}
	if err := u.authorizeUpdate(ctx, current.ID); err != nil {
		return nil, err
	}

	before := converter.PatientToResponse(current)
	mergeUser(&current.User, &patient.User)
	if patient.Name != "" {
		current.Name = patient.Name
	}
	if patient.Gender != "" {
		current.Gender = patient.Gender
	}

	if err := u.patientRepo.Update(ctx, current); err != nil {
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, actorID, entity.AuditActionPatientUpdate, "patient", current.ID, before, converter.PatientToResponse(current)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return current, nil
}

// authorizeUpdate allows the patient, an admin, or a health professional taking
// part in one of the patient's pilot studies.
func (u *patientUsecase) authorizeUpdate(ctx context.Context, patientID string) error {
	if actsOnSelfOrAsAdmin(ctx, patientID) {
		return nil
	}
	actorType, _ := middleware.GetUserTypeFromContext(ctx)
	if actorType != string(entity.UserTypeHealthProfessional) {
		return ErrForbidden
	}
	actorID, _ := middleware.GetUserIDFromContext(ctx)
	studies, err := u.pilotStudyRepo.FindByPatient(ctx, patientID, nil)
	if err != nil {
		u.log.Warnf("Failed to find pilot studies: %+v", err)
		return err
	}
	if !lo.ContainsBy(studies, func(ps entity.PilotStudy) bool { return ps.HasHealthProfessional(actorID) }) {
		return ErrForbidden
	}
	return nil
}

func (u *patientUsecase) Count(ctx context.Context, q *query.Query) (int64, error) {
	return u.patientRepo.Count(ctx, q)
}
