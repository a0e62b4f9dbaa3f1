// Package validation checks entities before they reach a repository. Every
// failure is an *exception.ValidationException whose texts are part of the
// public API.
package validation

import (
	"strings"

	"account-service/internal/domain/entity"
	"account-service/internal/domain/exception"
	"account-service/internal/validation/field"
)

// required collects missing field names in declaration order.
type required struct {
	entity string
	fields []string
}

func newRequired(entityName string) *required {
	return &required{entity: entityName}
}

func (r *required) check(missing bool, name string) {
	if missing {
		r.fields = append(r.fields, name)
	}
}

func (r *required) err() error {
	if len(r.fields) == 0 {
		return nil
	}
	return exception.NewValidationException(
		exception.MsgRequiredFields,
		r.entity+" validation: "+strings.Join(r.fields, ", ")+" is required!",
	)
}

func ObjectID(id string) error {
	return field.ObjectID(id)
}

func Email(email string) error {
	return field.Email(email)
}

func Date(date string) error {
	return field.Date(date)
}

func Datetime(datetime string) error {
	return field.Datetime(datetime)
}

func Gender(gender string) error {
	return field.OneOf("gender", gender, entity.Genders())
}

func HealthArea(area string) error {
	return field.OneOf("health_area", area, entity.HealthAreas())
}

// Auth checks login credentials.
func Auth(email, password string) error {
	r := newRequired("Authentication")
	r.check(email == "", "email")
	r.check(password == "", "password")
	if err := r.err(); err != nil {
		return err
	}
	return Email(email)
}

// ChangePassword requires both the current and the new password.
func ChangePassword(oldPassword, newPassword string) error {
	r := newRequired("Change Password")
	r.check(oldPassword == "", "old_password")
	r.check(newPassword == "", "new_password")
	return r.err()
}
