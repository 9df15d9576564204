package apperror

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrUnavailable     = errors.New("unavailable")
	ErrUpgradeRequired = errors.New("upgrade required")
)

// AppError carries the wire-level error code alongside the human message.
// Every JSON error response is shaped {"error": Code, "message": Message};
// the sentinel in Err decides the HTTP status.
type AppError struct {
	Err     error  // sentinel classifying the error
	Code    string // machine-readable code, e.g. "missing_paper_file"
	Message string // human-readable description
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation returns a 400-class error with the given wire code.
func Validation(code, message string) *AppError {
	return &AppError{Err: ErrValidation, Code: code, Message: message}
}

// NotFound returns a 404-class error with the given wire code.
func NotFound(code, message string) *AppError {
	return &AppError{Err: ErrNotFound, Code: code, Message: message}
}

// TooLarge returns a 413-class error with the given wire code.
func TooLarge(code, message string) *AppError {
	return &AppError{Err: ErrPayloadTooLarge, Code: code, Message: message}
}

// Unavailable returns a 503-class error with the given wire code.
func Unavailable(code, message string) *AppError {
	return &AppError{Err: ErrUnavailable, Code: code, Message: message}
}

// UpgradeRequired returns a 426-class error with the given wire code.
func UpgradeRequired(code, message string) *AppError {
	return &AppError{Err: ErrUpgradeRequired, Code: code, Message: message}
}
