package utils

import "errors"

// ErrorKind is a stable machine-readable error category. Handlers map kinds
// to HTTP statuses; the kind string itself is part of the API surface.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation_error"
	KindConflict   ErrorKind = "conflict_error"
	KindAuth       ErrorKind = "auth_error"
	KindForbidden  ErrorKind = "forbidden_error"
	KindNotFound   ErrorKind = "not_found_error"
	KindInternal   ErrorKind = "internal_error"
)

// AppError carries an error kind, a human-readable message and optional
// per-field details for validation failures.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(msg string, fields ...map[string]string) error {
	err := &AppError{Kind: KindValidation, Message: msg}
	if len(fields) > 0 {
		err.Fields = fields[0]
	}
	return err
}

func NewConflictError(msg string) error {
	return &AppError{Kind: KindConflict, Message: msg}
}

func NewAuthError(msg string) error {
	return &AppError{Kind: KindAuth, Message: msg}
}

func NewForbiddenError(msg string) error {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &AppError{Kind: KindNotFound, Message: msg}
}

// KindOf extracts the kind of err, or KindInternal for unrecognized errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
