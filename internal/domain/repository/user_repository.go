package repository

import (
	"context"
	"strings"
	"time"

	"account-service/internal/domain/entity"
	"account-service/internal/domain/exception"
	"account-service/pkg/query"

	"github.com/samber/lo"
)

// UserRepository works on any user regardless of its type. Creation belongs to
// the typed repositories and returns exception.ErrUnsupportedOperation here.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, q *query.Query) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, userID, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	Delete(ctx context.Context, userID string) (bool, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
	CheckExists(ctx context.Context, userID string) (bool, error)
	CheckExistsMany(ctx context.Context, userIDs []string) (bool, error)
}

// ExistenceResult turns the ids found by a batch lookup into the result of a
// batch existence check. An empty request is not a successful check. When ids
// are missing the error message lists them in request order.
func ExistenceResult(requested, found []string) (bool, error) {
	if len(requested) == 0 {
		return false, nil
	}
	missing := MissingIDs(requested, found)
	if len(missing) > 0 {
		return false, exception.NewValidationException(strings.Join(missing, ", "))
	}
	return true, nil
}

// MissingIDs returns the requested ids absent from found, deduplicated.
func MissingIDs(requested, found []string) []string {
	present := lo.SliceToMap(found, func(id string) (string, struct{}) { return id, struct{}{} })
	return lo.Uniq(lo.Filter(requested, func(id string, _ int) bool {
		_, ok := present[id]
		return !ok
	}))
}
