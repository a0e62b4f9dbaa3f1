package service

import (
	"context"
	"fmt"
	"time"

	"account-service/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// TokenStore tracks issued tokens so they can be revoked before they expire.
type TokenStore interface {
	Save(ctx context.Context, tokenType jwt.TokenType, userID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenType jwt.TokenType, userID, tokenID string) (bool, error)
	Delete(ctx context.Context, tokenType jwt.TokenType, userID, tokenID string) error
	RevokeAll(ctx context.Context, userID string) error
}

type redisTokenStore struct {
	log         *logrus.Logger
	redisClient *redis.Client
}

func NewRedisTokenStore(log *logrus.Logger, redisClient *redis.Client) TokenStore {
	return &redisTokenStore{
		log:         log,
		redisClient: redisClient,
	}
}

// TokenKey renders the redis key of a token, e.g. access_token:<user>:<token>.
func TokenKey(tokenType jwt.TokenType, userID, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID, tokenID)
}

func (s *redisTokenStore) Save(ctx context.Context, tokenType jwt.TokenType, userID, tokenID string, ttl time.Duration) error {
	return s.redisClient.Set(ctx, TokenKey(tokenType, userID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, tokenType jwt.TokenType, userID, tokenID string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, TokenKey(tokenType, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *redisTokenStore) Delete(ctx context.Context, tokenType jwt.TokenType, userID, tokenID string) error {
	return s.redisClient.Del(ctx, TokenKey(tokenType, userID, tokenID)).Err()
}

// RevokeAll deletes every access and refresh token of a user.
func (s *redisTokenStore) RevokeAll(ctx context.Context, userID string) error {
	for _, tokenType := range []jwt.TokenType{jwt.AccessToken, jwt.RefreshToken} {
		pattern := TokenKey(tokenType, userID, "*")
		keys, err := s.redisClient.Keys(ctx, pattern).Result()
		if err != nil {
			s.log.Warnf("Failed to get %s token keys: %+v", tokenType, err)
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
			s.log.Warnf("Failed to delete %s tokens: %+v", tokenType, err)
			return err
		}
	}
	return nil
}
