package repository

import (
	"errors"
	"strings"

	"account-service/internal/domain/exception"
	"account-service/pkg/query"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applyQuery adds equality filters, ordering and pagination to db.
func applyQuery(db *gorm.DB, q *query.Query) *gorm.DB {
	if q == nil {
		return db
	}
	db = applyFilters(db, q)
	for _, s := range q.Sort {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Field}, Desc: s.Desc})
	}
	if len(q.Sort) == 0 {
		db = db.Order("created_at DESC")
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit).Offset(q.Offset())
	}
	return db
}

func applyFilters(db *gorm.DB, q *query.Query) *gorm.DB {
	if q == nil {
		return db
	}
	for column, value := range q.Filters {
		db = db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}
	return db
}

// translateError maps storage errors onto domain exceptions.
func translateError(err error, conflictMessage string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" {
			return exception.NewConflictException(conflictMessage, describeConstraint(pgErr.ConstraintName))
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return exception.NewConflictException(conflictMessage)
	}
	return exception.NewRepositoryException("An internal error has occurred in the database!", err)
}

func describeConstraint(name string) string {
	switch {
	case strings.Contains(strings.ToLower(name), "email"):
		return "The email provided is already registered."
	case strings.Contains(strings.ToLower(name), "name"):
		return "The name provided is already in use."
	default:
		return ""
	}
}
