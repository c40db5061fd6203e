package errors

import "errors"

var (
	ErrTodoNotFound       = errors.New("Todo not found.")
	ErrBookNotFound       = errors.New("Item not found")
	ErrValidationFailed   = errors.New("validation failed")
	ErrMethodNotAllowed   = errors.New("method not allowed")
	ErrInternalServer     = errors.New("internal server error")
	ErrDatabaseConnection = errors.New("database connection failed")

	ErrConfigFileReadFailed = errors.New("failed to read config file")
	ErrConfigParseFailed    = errors.New("failed to parse config")
	ErrConfigInvalidFormat  = errors.New("invalid config value")

	ErrInvalidGzipRequest    = errors.New("invalid gzip request body")
	ErrGzipCompressionFailed = errors.New("gzip compression failed")
)
