package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Storage & Upload Errors
var (
	ErrUploadFailed       = errors.New("upload failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrTimeout            = errors.New("timeout")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing       = errors.New("configuration missing")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

// NewUploadError names the attachment field whose upload failed so the caller
// can tell the user which step went wrong.
func NewUploadError(field string, cause error) *ApiErr {
	status := http.StatusBadGateway
	if errors.Is(cause, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	return &ApiErr{
		StatusCode: status,
		err:        ErrUploadFailed,
		Details:    fmt.Sprintf("Uploading %s failed", field),
		Field:      field,
		Cause:      cause,
	}
}

func NewStorageUnavailableError(bucket string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrStorageUnavailable,
		Details:    fmt.Sprintf("Storage bucket %s is unavailable", bucket),
		Cause:      cause,
	}
}

func NewTimeoutError(operation string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusGatewayTimeout,
		err:        ErrTimeout,
		Details:    fmt.Sprintf("%s did not finish in time", operation),
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrEnvironmentVariable,
		Details:    fmt.Sprintf("Environment variable %s is not set or invalid", varName),
		Field:      varName,
	}
}

func IsUploadError(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

func IsStorageUnavailableError(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

func IsTimeoutError(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrDatabaseTimeout)
}
