package services

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuthentication ErrorKind = "authentication"
	KindForbidden      ErrorKind = "forbidden"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindInternal       ErrorKind = "internal"
)

// HTTPStatus maps a kind to its response status. Conflicts answer 400 like
// validation failures do.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is the failure type returned by every service operation. Message is
// safe to show to clients; Err carries the detail that only goes to the log.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so wrapped copies still match
// the sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetail returns a copy of e carrying err as the internal cause.
func (e *Error) WithDetail(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// WithMessage returns a copy of e with a more specific client message.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

var (
	ErrInvalidInput       = &Error{Kind: KindValidation, Code: "invalid_input", Message: "Datos inválidos."}
	ErrInvalidRange       = &Error{Kind: KindValidation, Code: "invalid_range", Message: "El progreso debe estar entre 0 y 100."}
	ErrInvalidCredentials = &Error{Kind: KindValidation, Code: "invalid_credentials", Message: "Credenciales inválidas."}
	ErrNotCompleted       = &Error{Kind: KindValidation, Code: "not_completed", Message: "Debes completar el curso para obtener el certificado."}

	ErrTokenMissing = &Error{Kind: KindAuthentication, Code: "token_missing", Message: "Acceso denegado. No se proporcionó un token."}
	ErrTokenInvalid = &Error{Kind: KindAuthentication, Code: "token_invalid", Message: "Token inválido."}
	ErrForbidden    = &Error{Kind: KindForbidden, Code: "forbidden", Message: "No tienes permiso para acceder a este recurso."}

	ErrCourseNotFound = &Error{Kind: KindNotFound, Code: "course_not_found", Message: "Curso no encontrado."}
	ErrUserNotFound   = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "Usuario no encontrado."}
	ErrNotEnrolled    = &Error{Kind: KindNotFound, Code: "not_enrolled", Message: "No estás inscrito en este curso."}

	ErrAlreadyEnrolled = &Error{Kind: KindConflict, Code: "already_enrolled", Message: "Ya estás inscrito en este curso."}
	ErrDuplicateName   = &Error{Kind: KindConflict, Code: "duplicate_name", Message: "Ya existe un curso con ese nombre."}
	ErrDuplicateEmail  = &Error{Kind: KindConflict, Code: "duplicate_email", Message: "El correo electrónico ya está registrado."}

	ErrInternal = &Error{Kind: KindInternal, Code: "internal", Message: "Error interno del servidor."}
)

// AsError classifies err. Anything that is not already a *Error is an
// internal failure wrapping err.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.WithDetail(err)
}

func internal(op string, err error) *Error {
	return ErrInternal.WithDetail(fmt.Errorf("%s: %w", op, err))
}
