package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"account-service/internal/delivery/dto"
	"account-service/internal/domain/entity"
	"account-service/internal/domain/repository"
	"account-service/internal/service"
	"account-service/internal/validation"
	"account-service/pkg/jwt"
	"account-service/pkg/query"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

type AuthUsecase interface {
	Authenticate(ctx context.Context, req *dto.AuthRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID, accessTokenID, refreshToken string) error
}

type authUsecase struct {
	log          *logrus.Logger
	userRepo     repository.UserRepository
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
	hasher       service.PasswordHasher
	auditService service.AuditService
}

func NewAuthUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
	hasher service.PasswordHasher,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		userRepo:     userRepo,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		hasher:       hasher,
		auditService: auditService,
	}
}

func (u *authUsecase) Authenticate(ctx context.Context, req *dto.AuthRequest) (*dto.TokenResponse, error) {
	if err := validation.Auth(req.Email, req.Password); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := u.hasher.Compare(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		u.log.Warnf("Failed to update last login: %+v", err)
	}
	if err := u.auditService.LogCreate(ctx, user.ID, entity.AuditActionUserLogin, "user", user.ID, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return tokens, nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	// Check if refresh token is still registered
	exists, err := u.tokenStore.Exists(ctx, jwt.RefreshToken, claims.Subject, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Delete old refresh token
	if err := u.tokenStore.Delete(ctx, jwt.RefreshToken, claims.Subject, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	// Scopes follow the current user record
	user, err := u.userRepo.FindOne(ctx, query.ByID(claims.Subject))
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user)
}

// Logout revokes the current access token and, when given, the refresh token
// issued along with it.
func (u *authUsecase) Logout(ctx context.Context, userID, accessTokenID, refreshToken string) error {
	if err := u.tokenStore.Delete(ctx, jwt.AccessToken, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.Subject == userID {
			if err := u.tokenStore.Delete(ctx, jwt.RefreshToken, userID, claims.TokenID); err != nil {
				u.log.Warnf("Failed to delete refresh token: %+v", err)
				return err
			}
		}
	}

	if err := u.auditService.LogDelete(ctx, userID, entity.AuditActionUserLogout, "user", userID, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	return nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	sub := jwt.Subject{
		ID:     user.ID,
		Type:   string(user.Type),
		Email:  user.Email,
		Scopes: user.Scopes(),
	}

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Save(ctx, jwt.AccessToken, user.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := u.tokenStore.Save(ctx, jwt.RefreshToken, user.ID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		Scope:        strings.Join(sub.Scopes, " "),
	}, nil
}
