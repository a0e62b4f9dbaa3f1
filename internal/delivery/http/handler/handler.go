package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"account-service/internal/domain/exception"
	"account-service/internal/usecase"
	"account-service/internal/validation/field"
	"account-service/pkg/query"
	"account-service/pkg/response"

	"github.com/samber/lo"
)

const maxBodySize = 1 << 20

type jsonEntity interface {
	FromJSON(v any) error
}

// decodeEntity fills target from a JSON object body. It writes the error
// response itself and reports whether decoding succeeded.
func decodeEntity(w http.ResponseWriter, r *http.Request, target jsonEntity) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		response.BadRequest(w, "Invalid request body")
		return false
	}
	if err := target.FromJSON(body); err != nil {
		writeError(w, err, "Invalid request body")
		return false
	}
	return true
}

// writeError maps domain and usecase errors to a response. Anything unknown
// becomes a 500 with fallback as message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *exception.ValidationException
	var conflictErr *exception.ConflictException

	switch {
	case errors.As(err, &validationErr):
		response.Detail(w, http.StatusBadRequest, validationErr.Message, validationErr.Description)
	case errors.As(err, &conflictErr):
		response.Detail(w, http.StatusConflict, conflictErr.Message, conflictErr.Description)
	case errors.Is(err, usecase.ErrUserNotFound):
		response.Detail(w, http.StatusNotFound, exception.MsgUserNotFound, exception.DescUserNotFound)
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidToken),
		errors.Is(err, usecase.ErrTokenRevoked):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, "You don't have permission to access this resource")
	default:
		response.InternalServerError(w, fallback)
	}
}

// Filter columns converted from text before they reach a repository.
var (
	boolColumns     = []string{"is_active"}
	datetimeColumns = []string{"start_date", "end_date", "created_at"}
)

// parseQuery reads the listing query of r and converts the typed filters.
func parseQuery(r *http.Request, allowed map[string]string) (*query.Query, error) {
	q := query.Parse(r.URL.Query(), allowed)
	for column, value := range q.Filters {
		text := fmt.Sprint(value)
		switch {
		case lo.Contains(boolColumns, column):
			b, err := strconv.ParseBool(text)
			if err != nil {
				return nil, exception.NewValidationException(
					fmt.Sprintf("Value not mapped for %s: %s", column, text),
					"The mapped values are: true, false.",
				)
			}
			q.Filters[column] = b
		case lo.Contains(datetimeColumns, column):
			t, err := field.ParseDatetime(text)
			if err != nil {
				return nil, err
			}
			q.Filters[column] = t
		}
	}
	return q, nil
}

func pageMeta(q *query.Query, total int64) *response.Meta {
	return &response.Meta{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: q.TotalPages(total),
	}
}

// Filterable query string fields, mapped to their column.
var (
	userFilters = map[string]string{
		"email":      "email",
		"language":   "language",
		"created_at": "created_at",
	}
	healthProfessionalFilters = map[string]string{
		"email":       "email",
		"language":    "language",
		"health_area": "health_area",
		"created_at":  "created_at",
	}
	patientFilters = map[string]string{
		"email":      "email",
		"language":   "language",
		"name":       "name",
		"gender":     "gender",
		"created_at": "created_at",
	}
	pilotStudyFilters = map[string]string{
		"name":       "name",
		"is_active":  "is_active",
		"location":   "location",
		"start":      "start_date",
		"end":        "end_date",
		"created_at": "created_at",
	}
	auditLogFilters = map[string]string{
		"action":     "action",
		"user_id":    "user_id",
		"created_at": "created_at",
	}
)
