package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes returned by the control surface.
const (
	// Authentication errors (AUTH_*)
	ErrInvalidToken          = "AUTH_001" // invalid bearer token
	ErrExpiredToken          = "AUTH_002" // expired bearer token
	ErrInsufficientPrivilege = "AUTH_003" // caller role not allowed

	// Validation errors (VAL_*)
	ErrInvalidRequest      = "VAL_001" // malformed request
	ErrMissingRequiredData = "VAL_002" // required data missing
	ErrInvalidFormat       = "VAL_003" // bad data format

	// Resource errors (RES_*)
	ErrAccountNotFound = "RES_001" // unknown account
	ErrJobNotFound     = "RES_002" // unknown report job

	// Server errors (SRV_*)
	ErrInternalServer    = "SRV_001" // internal server error
	ErrDatabaseOperation = "SRV_002" // database operation failed
	ErrExternalService   = "SRV_003" // reporting API failure
	ErrSchedulerState    = "SRV_004" // scheduler unavailable or in wrong state
)

// httpStatusMap maps error codes to HTTP status codes.
var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrAccountNotFound:       http.StatusNotFound,
	ErrJobNotFound:           http.StatusNotFound,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrExternalService:       http.StatusBadGateway,
	ErrSchedulerState:        http.StatusConflict,
}

// APIError is the standard error payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standard error payload to the HTTP response.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps a Go error into an APIError with the given code.
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
