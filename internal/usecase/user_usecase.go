package usecase

import (
	"context"
	"errors"

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

var (
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("operation not allowed for this user")
)

type UserUsecase interface {
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	Remove(ctx context.Context, userID string) error
}

type userUsecase struct {
	log            *logrus.Logger
	userRepo       repository.UserRepository
	pilotStudyRepo repository.PilotStudyRepository
	hasher         service.PasswordHasher
	tokenStore     service.TokenStore
	auditService   service.AuditService
	publisher      event.Publisher
}

func NewUserUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	pilotStudyRepo repository.PilotStudyRepository,
	hasher service.PasswordHasher,
	tokenStore service.TokenStore,
	auditService service.AuditService,
	publisher event.Publisher,
) UserUsecase {
	return &userUsecase{
		log:            log,
		userRepo:       userRepo,
		pilotStudyRepo: pilotStudyRepo,
		hasher:         hasher,
		tokenStore:     tokenStore,
		auditService:   auditService,
		publisher:      publisher,
	}
}

// ChangePassword replaces the password after checking the current one and
// revokes every token issued to the user. Only the user or an admin may do it.
func (u *userUsecase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if err := validation.ObjectID(userID); err != nil {
		return err
	}
	if err := validation.ChangePassword(oldPassword, newPassword); err != nil {
		return err
	}

	if !actsOnSelfOrAsAdmin(ctx, userID) {
		return ErrForbidden
	}

	user, err := u.userRepo.FindOne(ctx, query.ByID(userID))
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := u.hasher.Compare(user.Password, oldPassword); err != nil {
		return exception.NewValidationException(exception.MsgPasswordNotMatch, exception.DescPasswordNotMatch)
	}

	hashedPassword, err := u.hasher.Hash(newPassword)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}
	if err := u.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		u.log.Warnf("Failed to update password: %+v", err)
		return err
	}

	if err := u.tokenStore.RevokeAll(ctx, userID); err != nil {
		u.log.Warnf("Failed to revoke tokens: %+v", err)
		return err
	}

	if err := u.auditService.LogUpdate(ctx, actorID, entity.AuditActionUserPasswordChange, "user", userID, nil, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}

// Remove deletes a user of any type and drops it from every pilot study.
// Removing a missing user succeeds.
func (u *userUsecase) Remove(ctx context.Context, userID string) error {
	if err := validation.ObjectID(userID); err != nil {
		return err
	}

	user, err := u.userRepo.FindOne(ctx, query.ByID(userID))
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return err
	}
	if user == nil {
		return nil
	}

	if err := u.pilotStudyRepo.RemoveMember(ctx, userID); err != nil {
		u.log.Warnf("Failed to remove user from pilot studies: %+v", err)
		return err
	}

	removed, err := u.userRepo.Delete(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to delete user: %+v", err)
		return err
	}
	if !removed {
		return nil
	}

	if err := u.tokenStore.RevokeAll(ctx, userID); err != nil {
		u.log.Warnf("Failed to revoke tokens: %+v", err)
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, actorID, entity.AuditActionUserDelete, string(user.Type), userID, map[string]any{"email": user.Email}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	e := event.New(event.UserDeleteEvent, map[string]any{"id": userID, "type": string(user.Type)})
	if err := u.publisher.Publish(ctx, userID, e); err != nil {
		u.log.Warnf("Failed to publish %s: %+v", e.Name, err)
	}

	u.log.Infof("User %s removed", userID)
	return nil
}

// actsOnSelfOrAsAdmin reports whether the caller may change the account of
// userID. Calls carrying no caller are internal and always allowed.
func actsOnSelfOrAsAdmin(ctx context.Context, userID string) bool {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok || actorID == userID {
		return true
	}
	actorType, _ := middleware.GetUserTypeFromContext(ctx)
	return actorType == string(entity.UserTypeAdmin)
}
