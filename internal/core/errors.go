// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenRevoked  = errors.New("token revoked")
	ErrTokenInvalid  = errors.New("token invalid")
)

// AppError is the wire error shape every endpoint returns:
// {"message": ..., "errorDetails": ..., "statusCode": ...}.
type AppError struct {
	Message      string `json:"message"`
	ErrorDetails any    `json:"errorDetails"`
	StatusCode   int    `json:"statusCode"`

	err error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.err
}

func NewAppError(
	message string,
	details any,
	statusCode int,
	sentinel error,
) *AppError {
	return &AppError{
		Message:      message,
		ErrorDetails: details,
		StatusCode:   statusCode,
		err:          sentinel,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// NotFoundError maps missing resources to HTTP 400, not 404. The public
// clients were built against that contract, so it is kept on purpose.
func NotFoundError(message string) *AppError {
	return NewAppError(message, nil, http.StatusBadRequest, ErrNotFound)
}

func BadRequestError(message string) *AppError {
	return NewAppError(message, nil, http.StatusBadRequest, ErrInvalidInput)
}

func ConflictError(message string) *AppError {
	return NewAppError(message, nil, http.StatusBadRequest, ErrDuplicateKey)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(message, nil, http.StatusUnauthorized, ErrUnauthorized)
}

func UnauthorizedErrorWithDetails(message string, details any) *AppError {
	return NewAppError(
		message,
		details,
		http.StatusUnauthorized,
		ErrUnauthorized,
	)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(message, nil, http.StatusForbidden, ErrForbidden)
}

func ForbiddenErrorWithDetails(message string, details any) *AppError {
	return NewAppError(message, details, http.StatusForbidden, ErrForbidden)
}

func QuotaExceededError(message string) *AppError {
	return NewAppError(message, nil, http.StatusForbidden, ErrQuotaExceeded)
}

func InternalError(message string, details any) *AppError {
	return NewAppError(
		message,
		details,
		http.StatusInternalServerError,
		nil,
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		"token expired",
		nil,
		http.StatusUnauthorized,
		ErrTokenExpired,
	)
}

func TokenRevokedError() *AppError {
	return NewAppError(
		"token revoked",
		nil,
		http.StatusUnauthorized,
		ErrTokenRevoked,
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		"invalid token",
		nil,
		http.StatusUnauthorized,
		ErrTokenInvalid,
	)
}
