package usecase

import (
	"context"
	"errors"

	"account-service/internal/converter"
	"account-service/internal/delivery/http/middleware"
	"account-service/internal/domain/entity"
	"account-service/internal/domain/event"
	"account-service/internal/domain/exception"
	"account-service/internal/domain/repository"
	"account-service/internal/service"
	"account-service/internal/validation"
	"account-service/pkg/query"

	"github.com/sirupsen/logrus"
)

type PilotStudyUsecase interface {
	Create(ctx context.Context, ps *entity.PilotStudy) (*entity.PilotStudy, error)
	GetAll(ctx context.Context, q *query.Query) ([]entity.PilotStudy, error)
	GetByID(ctx context.Context, id string) (*entity.PilotStudy, error)
	Update(ctx context.Context, ps *entity.PilotStudy) (*entity.PilotStudy, error)
	Remove(ctx context.Context, id string) error
	Count(ctx context.Context, q *query.Query) (int64, error)

	AssociateHealthProfessional(ctx context.Context, pilotID, healthProfessionalID string) (*entity.PilotStudy, error)
	DisassociateHealthProfessional(ctx context.Context, pilotID, healthProfessionalID string) error
	AssociatePatient(ctx context.Context, pilotID, patientID string) (*entity.PilotStudy, error)
	DisassociatePatient(ctx context.Context, pilotID, patientID string) error

	GetAllHealthProfessionals(ctx context.Context, pilotID string, q *query.Query) ([]entity.HealthProfessional, error)
	CountHealthProfessionalsFromPilotStudy(ctx context.Context, pilotID string, q *query.Query) (int64, error)
	GetAllPatients(ctx context.Context, pilotID string, q *query.Query) ([]entity.Patient, error)
	CountPatientsFromPilotStudy(ctx context.Context, pilotID string, q *query.Query) (int64, error)

	GetAllByHealthProfessional(ctx context.Context, healthProfessionalID string, q *query.Query) ([]entity.PilotStudy, error)
	CountPilotStudiesFromHealthProfessional(ctx context.Context, healthProfessionalID string, q *query.Query) (int64, error)
	CountPatientsFromHealthProfessional(ctx context.Context, healthProfessionalID string) (int64, error)
	GetAllByPatient(ctx context.Context, patientID string, q *query.Query) ([]entity.PilotStudy, error)
	CountPilotStudiesFromPatient(ctx context.Context, patientID string, q *query.Query) (int64, error)
}

type pilotStudyUsecase struct {
	log                    *logrus.Logger
	pilotStudyRepo         repository.PilotStudyRepository
	healthProfessionalRepo repository.HealthProfessionalRepository
	patientRepo            repository.PatientRepository
	auditService           service.AuditService
	publisher              event.Publisher
}

func NewPilotStudyUsecase(
	log *logrus.Logger,
	pilotStudyRepo repository.PilotStudyRepository,
	healthProfessionalRepo repository.HealthProfessionalRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	publisher event.Publisher,
) PilotStudyUsecase {
	return &pilotStudyUsecase{
		log:                    log,
		pilotStudyRepo:         pilotStudyRepo,
		healthProfessionalRepo: healthProfessionalRepo,
		patientRepo:            patientRepo,
		auditService:           auditService,
		publisher:              publisher,
	}
}

func (u *pilotStudyUsecase) Create(ctx context.Context, ps *entity.PilotStudy) (*entity.PilotStudy, error) {
	if err := validation.CreatePilotStudy(ps); err != nil {
		return nil, err
	}

	// Patients join a pilot study only after it exists.
	ps.Patients = nil
	ps.TotalPatients = 0

	members := ps.HealthProfessionals
	ps.HealthProfessionals = nil
	for _, hp := range members {
		ps.AddHealthProfessional(hp)
	}

	if ids := ps.HealthProfessionalsID(); len(ids) > 0 {
		if _, err := u.healthProfessionalRepo.CheckExistsMany(ctx, ids); err != nil {
			var notFound *exception.ValidationException
			if errors.As(err, &notFound) {
				return nil, exception.NewValidationException(
					exception.MsgHealthProfessionalNotRegistered,
					exception.DescIDsNotRegistered+notFound.Message,
				)
			}
			u.log.Warnf("Failed to check health professionals: %+v", err)
			return nil, err
		}
	}

	if err := u.pilotStudyRepo.Create(ctx, ps); err != nil {
		u.log.Warnf("Failed to create pilot study: %+v", err)
		return nil, err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, actorID, entity.AuditActionPilotStudyCreate, "pilot_study", ps.ID, converter.PilotStudyToResponse(ps)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return ps, nil
}

func (u *pilotStudyUsecase) GetAll(ctx context.Context, q *query.Query) ([]entity.PilotStudy, error) {
	studies, err := u.pilotStudyRepo.Find(ctx, q)
	if err != nil {
		u.log.Warnf("Failed to find pilot studies: %+v", err)
		return nil, err
	}
	return studies, nil
}

// GetByID returns nil when the pilot study does not exist.
func (u *pilotStudyUsecase) GetByID(ctx context.Context, id string) (*entity.PilotStudy, error) {
	if err := validation.ObjectID(id); err != nil {
		return nil, err
	}
	ps, err := u.pilotStudyRepo.FindOne(ctx, query.ByID(id))
	if err != nil {
		u.log.Warnf("Failed to find pilot study: %+v", err)
		return nil, err
	}
	return ps, nil
}

func (u *pilotStudyUsecase) Update(ctx context.Context, ps *entity.PilotStudy) (*entity.PilotStudy, error) {
	if err := validation.UpdatePilotStudy(ps); err != nil {
		return nil, err
	}
	if err := validation.ObjectID(ps.ID); err != nil {
		return nil, err
	}

	current, err := u.pilotStudyRepo.FindOne(ctx, query.ByID(ps.ID))
	if err != nil {
		u.log.Warnf("Failed to find pilot study: %+v", err)
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	before := converter.PilotStudyToResponse(current)
	mergePilotStudy(current, ps)

	if err := u.pilotStudyRepo.Update(ctx, current); err != nil {
		u.log.Warnf("Failed to update pilot study: %+v", err)
		return nil, err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, actorID, entity.AuditActionPilotStudyUpdate, "pilot_study", current.ID, before, converter.PilotStudyToResponse(current)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return current, nil
}

// mergePilotStudy copies the fields set in src onto dst.
func mergePilotStudy(dst, src *entity.PilotStudy) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.IsActive != nil {
		dst.IsActive = src.IsActive
	}
	if src.Start != nil {
		dst.Start = src.Start
	}
	if src.End != nil {
		dst.End = src.End
	}
	if src.Location != "" {
		dst.Location = src.Location
	}
	if src.DataTypes != nil {
		dst.DataTypes = src.DataTypes
	}
}

// Remove deletes a pilot study. Removing a missing one succeeds.
func (u *pilotStudyUsecase) Remove(ctx context.Context, id string) error {
	if err := validation.ObjectID(id); err != nil {
		return err
	}

	removed, err := u.pilotStudyRepo.Delete(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to delete pilot study: %+v", err)
		return err
	}
	if !removed {
		return nil
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, actorID, entity.AuditActionPilotStudyDelete, "pilot_study", id, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	e := event.New(event.PilotStudyDeleteEvent, map[string]any{"id": id})
	if err := u.publisher.Publish(ctx, id, e); err != nil {
		u.log.Warnf("Failed to publish %s: %+v", e.Name, err)
	}

	u.log.Infof("Pilot study %s removed", id)
	return nil
}

func (u *pilotStudyUsecase) Count(ctx context.Context, q *query.Query) (int64, error) {
	return u.pilotStudyRepo.Count(ctx, q)
}

// AssociateHealthProfessional adds the professional to the pilot study. A nil
// pilot study without error means the pilot study does not exist.
func (u *pilotStudyUsecase) AssociateHealthProfessional(ctx context.Context, pilotID, healthProfessionalID string) (*entity.PilotStudy, error) {
	if err := validateIDs(pilotID, healthProfessionalID); err != nil {
		return nil, err
	}

	ps, err := u.pilotStudyRepo.FindOne(ctx, query.ByID(pilotID))
	if err != nil {
		u.log.Warnf("Failed to find pilot study: %+v", err)
		return nil, err
	}
	if ps == nil {
		return nil, nil
	}

	exists, err := u.healthProfessionalRepo.CheckExists(ctx, healthProfessionalID)
	if err != nil {
		u.log.Warnf("Failed to check health professional: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, exception.NewAssociationException(
			exception.MsgHealthProfessionalNotRegistered,
			exception.DescIDsNotRegistered+healthProfessionalID,
		)
	}

	if ps.HasHealthProfessional(healthProfessionalID) {
		return ps, nil
	}
	hp := entity.NewHealthProfessional()
	hp.ID = healthProfessionalID
	ps.AddHealthProfessional(*hp)

	if err := u.pilotStudyRepo.Update(ctx, ps); err != nil {
		u.log.Warnf("Failed to associate health professional: %+v", err)
		return nil, err
	}
	u.auditMembership(ctx, entity.AuditActionPilotStudyAssociateProfessional, ps.ID, "health_professional_id", healthProfessionalID)

	return ps, nil
}

// DisassociateHealthProfessional never fails on a missing pilot study or a
// professional that is not a member.
func (u *pilotStudyUsecase) DisassociateHealthProfessional(ctx context.Context, pilotID, healthProfessionalID string) error {
	if err := validateIDs(pilotID, healthProfessionalID); err != nil {
		return err
	}

	ps, err := u.pilotStudyRepo.FindOne(ctx, query.ByID(pilotID))
	if err != nil {
		u.log.Warnf("Failed to find pilot study: %+v", err)
		return err
	}
	if ps == nil || !ps.HasHealthProfessional(healthProfessionalID) {
		return nil
	}

	ps.RemoveHealthProfessional(healthProfessionalID)
	if err := u.pilotStudyRepo.Update(ctx, ps); err != nil {
		u.log.Warnf("Failed to disassociate health professional: %+v", err)
		return err
	}
	u.auditMembership(ctx, entity.AuditActionPilotStudyDisassociateProfessional, ps.ID, "health_professional_id", healthProfessionalID)

	return nil
}

func (u *pilotStudyUsecase) AssociatePatient(ctx context.Context, pilotID, patientID string) (*entity.PilotStudy, error) {
	if err := validateIDs(pilotID, patientID); err != nil {
		return nil, err
	}

	ps, err := u.pilotStudyRepo.FindOne(ctx, query.ByID(pilotID))
	if err != nil {
		u.log.Warnf("Failed to find pilot study: %+v", err)
		return nil, err
	}
	if ps == nil {
		return nil, nil
	}

	exists, err := u.patientRepo.CheckExists(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to check patient: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, exception.NewAssociationException(
			exception.MsgPatientNotRegistered,
			exception.DescIDsNotRegistered+patientID,
		)
	}

	if ps.HasPatient(patientID) {
		return ps, nil
	}
	patient := entity.NewPatient()
	patient.ID = patientID
	ps.AddPatient(*patient)

	if err := u.pilotStudyRepo.Update(ctx, ps); err != nil {
		u.log.Warnf("Failed to associate patient: %+v", err)
		return nil, err
	}
	u.auditMembership(ctx, entity.AuditActionPilotStudyAssociatePatient, ps.ID, "patient_id", patientID)

	return ps, nil
}

func (u *pilotStudyUsecase) DisassociatePatient(ctx context.Context, pilotID, patientID string) error {
	if err := validateIDs(pilotID, patientID); err != nil {
		return err
	}

	ps, err := u.pilotStudyRepo.FindOne(ctx, query.ByID(pilotID))
	if err != nil {
		u.log.Warnf("Failed to find pilot study: %+v", err)
		return err
	}
	if ps == nil || !ps.HasPatient(patientID) {
		return nil
	}

	ps.RemovePatient(patientID)
	if err := u.pilotStudyRepo.Update(ctx, ps); err != nil {
		u.log.Warnf("Failed to disassociate patient: %+v", err)
		return err
	}
	u.auditMembership(ctx, entity.AuditActionPilotStudyDisassociatePatient, ps.ID, "patient_id", patientID)

	return nil
}

func (u *pilotStudyUsecase) auditMembership(ctx context.Context, action, pilotID, key, memberID string) {
	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, actorID, action, "pilot_study", pilotID, nil, map[string]any{key: memberID}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
}

// GetAllHealthProfessionals resolves the membership list of a pilot study. A
// missing pilot study has no members.
func (u *pilotStudyUsecase) GetAllHealthProfessionals(ctx context.Context, pilotID string, q *query.Query) ([]entity.HealthProfessional, error) {
	ps, err := u.GetByID(ctx, pilotID)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return []entity.HealthProfessional{}, nil
	}
	hps, err := u.healthProfessionalRepo.FindByIDs(ctx, ps.HealthProfessionalsID(), q)
	if err != nil {
		u.log.Warnf("Failed to find health professionals: %+v", err)
		return nil, err
	}
	if err := fillHealthProfessionalTotals(ctx, u.pilotStudyRepo, hps); err != nil {
		u.log.Warnf("Failed to count health professional totals: %+v", err)
		return nil, err
	}
	return hps, nil
}

// CountHealthProfessionalsFromPilotStudy counts the members matching the
// filters of q. A nil q counts every member.
func (u *pilotStudyUsecase) CountHealthProfessionalsFromPilotStudy(ctx context.Context, pilotID string, q *query.Query) (int64, error) {
	ps, err := u.GetByID(ctx, pilotID)
	if err != nil || ps == nil {
		return 0, err
	}
	if q == nil || len(q.Filters) == 0 {
		return int64(ps.TotalHealthProfessionals), nil
	}
	total, err := u.healthProfessionalRepo.CountByIDs(ctx, ps.HealthProfessionalsID(), q)
	if err != nil {
		u.log.Warnf("Failed to count health professionals: %+v", err)
		return 0, err
	}
	return total, nil
}

func (u *pilotStudyUsecase) GetAllPatients(ctx context.Context, pilotID string, q *query.Query) ([]entity.Patient, error) {
	ps, err := u.GetByID(ctx, pilotID)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return []entity.Patient{}, nil
	}
	patients, err := u.patientRepo.FindByIDs(ctx, ps.PatientsID(), q)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, err
	}
	return patients, nil
}

func (u *pilotStudyUsecase) CountPatientsFromPilotStudy(ctx context.Context, pilotID string, q *query.Query) (int64, error) {
	ps, err := u.GetByID(ctx, pilotID)
	if err != nil || ps == nil {
		return 0, err
	}
	if q == nil || len(q.Filters) == 0 {
		return int64(ps.TotalPatients), nil
	}
	total, err := u.patientRepo.CountByIDs(ctx, ps.PatientsID(), q)
	if err != nil {
		u.log.Warnf("Failed to count patients: %+v", err)
		return 0, err
	}
	return total, nil
}

func (u *pilotStudyUsecase) GetAllByHealthProfessional(ctx context.Context, healthProfessionalID string, q *query.Query) ([]entity.PilotStudy, error) {
	if err := validation.ObjectID(healthProfessionalID); err != nil {
		return nil, err
	}
	studies, err := u.pilotStudyRepo.FindByHealthProfessional(ctx, healthProfessionalID, q)
	if err != nil {
		u.log.Warnf("Failed to find pilot studies of health professional: %+v", err)
		return nil, err
	}
	return studies, nil
}

func (u *pilotStudyUsecase) CountPilotStudiesFromHealthProfessional(ctx context.Context, healthProfessionalID string, q *query.Query) (int64, error) {
	if err := validation.ObjectID(healthProfessionalID); err != nil {
		return 0, err
	}
	return u.pilotStudyRepo.CountByHealthProfessional(ctx, healthProfessionalID, q)
}

// CountPatientsFromHealthProfessional counts distinct patients over every
// pilot study the professional belongs to.
func (u *pilotStudyUsecase) CountPatientsFromHealthProfessional(ctx context.Context, healthProfessionalID string) (int64, error) {
	if err := validation.ObjectID(healthProfessionalID); err != nil {
		return 0, err
	}
	return u.pilotStudyRepo.CountPatientsByHealthProfessional(ctx, healthProfessionalID)
}

func (u *pilotStudyUsecase) GetAllByPatient(ctx context.Context, patientID string, q *query.Query) ([]entity.PilotStudy, error) {
	if err := validation.ObjectID(patientID); err != nil {
		return nil, err
	}
	studies, err := u.pilotStudyRepo.FindByPatient(ctx, patientID, q)
	if err != nil {
		u.log.Warnf("Failed to find pilot studies of patient: %+v", err)
		return nil, err
	}
	return studies, nil
}

func (u *pilotStudyUsecase) CountPilotStudiesFromPatient(ctx context.Context, patientID string, q *query.Query) (int64, error) {
	if err := validation.ObjectID(patientID); err != nil {
		return 0, err
	}
	return u.pilotStudyRepo.CountByPatient(ctx, patientID, q)
}

func validateIDs(ids ...string) error {
	for _, id := range ids {
		if err := validation.ObjectID(id); err != nil {
			return err
		}
	}
	return nil
}
