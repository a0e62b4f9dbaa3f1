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

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// totalsConcurrency bounds the aggregation queries run for one listing.
const totalsConcurrency = 8

type HealthProfessionalUsecase interface {
	Add(ctx context.Context, hp *entity.HealthProfessional) (*entity.HealthProfessional, error)
	GetAll(ctx context.Context, q *query.Query) ([]entity.HealthProfessional, error)
	GetByID(ctx context.Context, id string) (*entity.HealthProfessional, error)
	Update(ctx context.Context, hp *entity.HealthProfessional) (*entity.HealthProfessional, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
}

type healthProfessionalUsecase struct {
	log                    *logrus.Logger
	healthProfessionalRepo repository.HealthProfessionalRepository
	pilotStudyRepo         repository.PilotStudyRepository
	hasher                 service.PasswordHasher
	auditService           service.AuditService
}

func NewHealthProfessionalUsecase(
	log *logrus.Logger,
	healthProfessionalRepo repository.HealthProfessionalRepository,
	pilotStudyRepo repository.PilotStudyRepository,
	hasher service.PasswordHasher,
	auditService service.AuditService,
) HealthProfessionalUsecase {
	return &healthProfessionalUsecase{
		log:                    log,
		healthProfessionalRepo: healthProfessionalRepo,
		pilotStudyRepo:         pilotStudyRepo,
		hasher:                 hasher,
		auditService:           auditService,
	}
}

func (u *healthProfessionalUsecase) Add(ctx context.Context, hp *entity.HealthProfessional) (*entity.HealthProfessional, error) {
	if err := validation.CreateHealthProfessional(hp); err != nil {
		return nil, err
	}

	hashedPassword, err := u.hasher.Hash(hp.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}
	hp.Password = hashedPassword

	if err := u.healthProfessionalRepo.Create(ctx, hp); err != nil {
		u.log.Warnf("Failed to create health professional: %+v", err)
		return nil, err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, actorID, entity.AuditActionHealthProfessionalCreate, "health_professional", hp.ID, converter.HealthProfessionalToResponse(hp)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return hp, nil
}

func (u *healthProfessionalUsecase) GetAll(ctx context.Context, q *query.Query) ([]entity.HealthProfessional, error) {
	hps, err := u.healthProfessionalRepo.Find(ctx, q)
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

func (u *healthProfessionalUsecase) GetByID(ctx context.Context, id string) (*entity.HealthProfessional, error) {
	if err := validation.ObjectID(id); err != nil {
		return nil, err
	}
	hp, err := u.healthProfessionalRepo.FindOne(ctx, query.ByID(id))
	if err != nil {
		u.log.Warnf("Failed to find health professional: %+v", err)
		return nil, err
	}
	if hp == nil {
		return nil, nil
	}
	if err := fillHealthProfessionalTotal(ctx, u.pilotStudyRepo, hp); err != nil {
		u.log.Warnf("Failed to count health professional totals: %+v", err)
		return nil, err
	}
	return hp, nil
}

func (u *healthProfessionalUsecase) Update(ctx context.Context, hp *entity.HealthProfessional) (*entity.HealthProfessional, error) {
	if err := validation.UpdateHealthProfessional(hp); err != nil {
		return nil, err
	}
	if err := validation.ObjectID(hp.ID); err != nil {
		return nil, err
	}

	current, err := u.healthProfessionalRepo.FindOne(ctx, query.ByID(hp.ID))
	if err != nil {
		u.log.Warnf("Failed to find health professional: %+v", err)
		return nil, err
	}
	if current == nil {
		return nil, nil
	}
	if !actsOnSelfOrAsAdmin(ctx, current.ID) {
		return nil, ErrForbidden
	}

	before := converter.HealthProfessionalToResponse(current)
	mergeUser(&current.User, &hp.User)
	if hp.HealthArea != "" {
		current.HealthArea = hp.HealthArea
	}

	if err := u.healthProfessionalRepo.Update(ctx, current); err != nil {
		u.log.Warnf("Failed to update health professional: %+v", err)
		return nil, err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, actorID, entity.AuditActionHealthProfessionalUpdate, "health_professional", current.ID, before, converter.HealthProfessionalToResponse(current)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := fillHealthProfessionalTotal(ctx, u.pilotStudyRepo, current); err != nil {
		u.log.Warnf("Failed to count health professional totals: %+v", err)
		return nil, err
	}
	return current, nil
}

func (u *healthProfessionalUsecase) Count(ctx context.Context, q *query.Query) (int64, error) {
	return u.healthProfessionalRepo.Count(ctx, q)
}

// fillHealthProfessionalTotals computes the derived totals of every
// professional concurrently.
func fillHealthProfessionalTotals(ctx context.Context, pilotStudyRepo repository.PilotStudyRepository, hps []entity.HealthProfessional) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(totalsConcurrency)
	for i := range hps {
		hp := &hps[i]
		g.Go(func() error {
			return fillHealthProfessionalTotal(ctx, pilotStudyRepo, hp)
		})
	}
	return g.Wait()
}

func fillHealthProfessionalTotal(ctx context.Context, pilotStudyRepo repository.PilotStudyRepository, hp *entity.HealthProfessional) error {
	studies, err := pilotStudyRepo.CountByHealthProfessional(ctx, hp.ID, nil)
	if err != nil {
		return err
	}
	patients, err := pilotStudyRepo.CountPatientsByHealthProfessional(ctx, hp.ID)
	if err != nil {
		return err
	}
	hp.TotalPilotStudies = studies
	hp.TotalPatients = patients
	return nil
}

// mergeUser copies the profile fields set in src onto dst. Type, password and
// creation time are never taken from input.
func mergeUser(dst, src *entity.User) {
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.BirthDate != "" {
		dst.BirthDate = src.BirthDate
	}
	if src.PhoneNumber != "" {
		dst.PhoneNumber = src.PhoneNumber
	}
	if src.SelectedPilotStudy != "" {
		dst.SelectedPilotStudy = src.SelectedPilotStudy
	}
	if src.Language != "" {
		dst.Language = src.Language
	}
}
