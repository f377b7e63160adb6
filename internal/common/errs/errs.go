package errs

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failure so the API layer can map it to a response class
// without string matching. Authorization failures must stay distinguishable
// from business-rule failures.
type Kind string

const (
	KindAuthorization     Kind = "authorization"
	KindInvalidTransition Kind = "invalid_transition"
	KindConflict          Kind = "conflict"
	KindConfiguration     Kind = "configuration"
	KindNotFound          Kind = "not_found"
	KindValidation        Kind = "validation"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...any) *Error {
	return New(KindAuthorization, format, args...)
}

func InvalidTransition(format string, args ...any) *Error {
	return New(KindInvalidTransition, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func Configuration(format string, args ...any) *Error {
	return New(KindConfiguration, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

// KindOf extracts the kind from any error in the chain. Unclassified errors
// report an empty kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the response class the API layer returns.
// Configuration errors should never reach a live request; if one does it is
// treated as a server fault.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindAuthorization:
		return fiber.StatusForbidden
	case KindInvalidTransition:
		return fiber.StatusUnprocessableEntity
	case KindConflict:
		return fiber.StatusConflict
	case KindNotFound:
		return fiber.StatusNotFound
	case KindValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
