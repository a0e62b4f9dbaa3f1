// Package field holds the single value format rules shared by the entities and
// the entity validators.
package field

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"account-service/internal/domain/exception"
	"account-service/pkg/validator"
)

const (
	MinYear = 1678
	MaxYear = 2261

	// ISODatetime is the layout used when a datetime is rendered back to clients.
	ISODatetime = "2006-01-02T15:04:05.000Z07:00"
	isoDate     = "2006-01-02"
)

var (
	rules = validator.NewValidator()

	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	datetimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}(:\d{2}(\.\d{1,9})?)?(Z|[+-]\d{2}:?\d{2})?)?$`)

	datetimeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05Z0700",
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15:04Z0700",
		"2006-01-02T15:04",
		isoDate,
	}
)

func ObjectID(id string) error {
	if err := rules.Var(id, "required,objectid"); err != nil {
		return exception.NewValidationException(exception.MsgInvalidID, exception.DescInvalidID)
	}
	return nil
}

func Email(email string) error {
	if err := rules.Var(email, "required,email"); err != nil {
		return exception.NewValidationException(exception.MsgInvalidEmail)
	}
	return nil
}

// Date checks a yyyy-MM-dd calendar date, leap years included.
func Date(date string) error {
	invalid := exception.NewValidationException(
		fmt.Sprintf("Date: %s is not in valid ISO 8601 format.", date),
		"Date must be in the format: yyyy-MM-dd",
	)
	if !datePattern.MatchString(date) {
		return invalid
	}
	if err := rules.Var(date, "datetime="+isoDate); err != nil {
		return invalid
	}
	t, _ := time.Parse(isoDate, date)
	return yearInRange(t)
}

// Datetime checks an ISO 8601 datetime, with or without fraction and offset.
func Datetime(datetime string) error {
	if _, err := ParseDatetime(datetime); err != nil {
		return err
	}
	return nil
}

// ParseDatetime parses an ISO 8601 datetime. Values without an offset are UTC.
func ParseDatetime(datetime string) (time.Time, error) {
	invalid := exception.NewValidationException(
		fmt.Sprintf("Datetime: %s is not in valid ISO 8601 format.", datetime),
		"Datetime must be in the format: yyyy-MM-ddTHH:mm:ssZ",
	)
	value := strings.TrimSpace(datetime)
	if !datetimePattern.MatchString(value) {
		return time.Time{}, invalid
	}
	for _, layout := range datetimeLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if err := yearInRange(t); err != nil {
			return time.Time{}, err
		}
		return t, nil
	}
	return time.Time{}, invalid
}

// OneOf checks value against a closed set of mapped values.
func OneOf(name, value string, mapped []string) error {
	for _, m := range mapped {
		if value == m {
			return nil
		}
	}
	return exception.NewValidationException(
		fmt.Sprintf("Value not mapped for %s: %s", name, value),
		fmt.Sprintf("The mapped values are: %s.", strings.Join(mapped, ", ")),
	)
}

func yearInRange(t time.Time) error {
	if t.Year() < MinYear || t.Year() > MaxYear {
		return exception.NewValidationException(
			"Date validation: The year provided can not be less than 1678 and more than 2261.",
		)
	}
	return nil
}
