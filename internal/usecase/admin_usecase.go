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

type AdminUsecase interface {
	Add(ctx context.Context, admin *entity.Admin) (*entity.Admin, error)
	GetAll(ctx context.Context, q *query.Query) ([]entity.Admin, error)
	GetByID(ctx context.Context, id string) (*entity.Admin, error)
	Update(ctx context.Context, admin *entity.Admin) (*entity.Admin, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
	EnsureDefaultAdmin(ctx context.Context, email, password string) error
}

type adminUsecase struct {
	log                    *logrus.Logger
	adminRepo              repository.AdminRepository
	healthProfessionalRepo repository.HealthProfessionalRepository
	patientRepo            repository.PatientRepository
	pilotStudyRepo         repository.PilotStudyRepository
	hasher                 service.PasswordHasher
	auditService           service.AuditService
}

func NewAdminUsecase(
	log *logrus.Logger,
	adminRepo repository.AdminRepository,
	healthProfessionalRepo repository.HealthProfessionalRepository,
	patientRepo repository.PatientRepository,
	pilotStudyRepo repository.PilotStudyRepository,
	hasher service.PasswordHasher,
	auditService service.AuditService,
) AdminUsecase {
	return &adminUsecase{
		log:                    log,
		adminRepo:              adminRepo,
		healthProfessionalRepo: healthProfessionalRepo,
		patientRepo:            patientRepo,
		pilotStudyRepo:         pilotStudyRepo,
		hasher:                 hasher,
		auditService:           auditService,
	}
}

func (u *adminUsecase) Add(ctx context.Context, admin *entity.Admin) (*entity.Admin, error) {
	if err := validation.CreateAdmin(admin); err != nil {
		return nil, err
	}

	hashedPassword, err := u.hasher.Hash(admin.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}
	admin.Password = hashedPassword

	if err := u.adminRepo.Create(ctx, admin); err != nil {
		u.log.Warnf("Failed to create admin: %+v", err)
		return nil, err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, actorID, entity.AuditActionAdminCreate, "admin", admin.ID, converter.AdminToResponse(admin)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return admin, nil
}

func (u *adminUsecase) GetAll(ctx context.Context, q *query.Query) ([]entity.Admin, error) {
	admins, err := u.adminRepo.Find(ctx, q)
	if err != nil {
		u.log.Warnf("Failed to find admins: %+v", err)
		return nil, err
	}
	return admins, nil
}

// GetByID loads an admin along with the dashboard totals.
func (u *adminUsecase) GetByID(ctx context.Context, id string) (*entity.Admin, error) {
	if err := validation.ObjectID(id); err != nil {
		return nil, err
	}
	admin, err := u.adminRepo.FindOne(ctx, query.ByID(id))
	if err != nil {
		u.log.Warnf("Failed to find admin: %+v", err)
		return nil, err
	}
	if admin == nil {
		return nil, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		admin.TotalAdmins, err = u.adminRepo.Count(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		admin.TotalHealthProfessionals, err = u.healthProfessionalRepo.Count(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		admin.TotalPatients, err = u.patientRepo.Count(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		admin.TotalPilotStudies, err = u.pilotStudyRepo.Count(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to count dashboard totals: %+v", err)
		return nil, err
	}

	return admin, nil
}

func (u *adminUsecase) Update(ctx context.Context, admin *entity.Admin) (*entity.Admin, error) {
	if err := validation.UpdateAdmin(admin); err != nil {
		return nil, err
	}
	if err := validation.ObjectID(admin.ID); err != nil {
		return nil, err
	}

	current, err := u.adminRepo.FindOne(ctx, query.ByID(admin.ID))
	if err != nil {
		u.log.Warnf("Failed to find admin: %+v", err)
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	before := converter.AdminToResponse(current)
	mergeUser(&current.User, &admin.User)

	if err := u.adminRepo.Update(ctx, current); err != nil {
		u.log.Warnf("Failed to update admin: %+v", err)
		return nil, err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, actorID, entity.AuditActionAdminUpdate, "admin", current.ID, before, converter.AdminToResponse(current)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return current, nil
}

func (u *adminUsecase) Count(ctx context.Context, q *query.Query) (int64, error) {
	return u.adminRepo.Count(ctx, q)
}

// EnsureDefaultAdmin creates the first admin when none is registered.
func (u *adminUsecase) EnsureDefaultAdmin(ctx context.Context, email, password string) error {
	total, err := u.adminRepo.Count(ctx, nil)
	if err != nil {
		u.log.Warnf("Failed to count admins: %+v", err)
		return err
	}
	if total > 0 || email == "" {
		return nil
	}

	admin := entity.NewAdmin()
	admin.Email = email
	admin.Password = password
	admin.BirthDate = "1970-01-01"
	if _, err := u.Add(ctx, admin); err != nil {
		return err
	}

	u.log.Infof("Default admin %s created", email)
	return nil
}
