package exception

import "errors"

// ErrUnsupportedOperation is returned by repositories for operations that only
// a more specific repository can perform.
var ErrUnsupportedOperation = errors.New("operation not supported")

// ValidationException reports malformed or missing input. Message is short and
// Description names the offending fields.
type ValidationException struct {
	Message     string
	Description string
}

func NewValidationException(message string, description ...string) *ValidationException {
	e := &ValidationException{Message: message}
	if len(description) > 0 {
		e.Description = description[0]
	}
	return e
}

func (e *ValidationException) Error() string {
	return e.Message
}

// ConflictException reports a uniqueness violation such as a duplicate email.
type ConflictException struct {
	Message     string
	Description string
}

func NewConflictException(message string, description ...string) *ConflictException {
	e := &ConflictException{Message: message}
	if len(description) > 0 {
		e.Description = description[0]
	}
	return e
}

func (e *ConflictException) Error() string {
	return e.Message
}

// AssociationException is raised when the other side of an association is not
// registered. It is also a ValidationException.
type AssociationException struct {
	ValidationException
}

func NewAssociationException(message, description string) *AssociationException {
	return &AssociationException{
		ValidationException: ValidationException{Message: message, Description: description},
	}
}

func (e *AssociationException) Error() string {
	return e.Message
}

func (e *AssociationException) Unwrap() error {
	return &e.ValidationException
}

// RepositoryException wraps an unexpected storage failure.
type RepositoryException struct {
	Message     string
	Description string
	Err         error
}

func NewRepositoryException(message string, err error) *RepositoryException {
	e := &RepositoryException{Message: message, Err: err}
	if err != nil {
		e.Description = err.Error()
	}
	return e
}

func (e *RepositoryException) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RepositoryException) Unwrap() error {
	return e.Err
}
