package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer   = 1000
	ErrInvalidParams    = 1001
	ErrNotFound         = 1002
	ErrUnauthorized     = 1003
	ErrForbidden        = 1004
	ErrConflict         = 1005
	ErrStoreUnavailable = 1006
	ErrBadRequest       = 1007

	// Network registry errors (2000-2999)
	ErrNetworkNotFound     = 2000
	ErrNetworkInvalidInput = 2001
	ErrNetworkExists       = 2002

	// Share count errors (3000-3999)
	ErrShareInvalidInput = 3000
	ErrShareCacheFailed  = 3001

	// Statistics errors (4000-4999)
	ErrStatsInvalidInput  = 4000
	ErrStatsRecordFailed  = 4001
	ErrStatsInvalidRange  = 4002
	ErrStatsInvalidPeriod = 4003
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	// Common errors
	ErrInternalServer:   {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:    {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:         {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrUnauthorized:     {ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	ErrForbidden:        {ErrForbidden, http.StatusForbidden, "Forbidden"},
	ErrConflict:         {ErrConflict, http.StatusConflict, "Resource conflict"},
	ErrStoreUnavailable: {ErrStoreUnavailable, http.StatusServiceUnavailable, "Storage unavailable"},
	ErrBadRequest:       {ErrBadRequest, http.StatusBadRequest, "Bad request"},

	// Network registry errors
	ErrNetworkNotFound:     {ErrNetworkNotFound, http.StatusNotFound, "Social network not found"},
	ErrNetworkInvalidInput: {ErrNetworkInvalidInput, http.StatusBadRequest, "Invalid social network input"},
	ErrNetworkExists:       {ErrNetworkExists, http.StatusConflict, "Social network already exists"},

	// Share count errors
	ErrShareInvalidInput: {ErrShareInvalidInput, http.StatusBadRequest, "Invalid share count request"},
	ErrShareCacheFailed:  {ErrShareCacheFailed, http.StatusServiceUnavailable, "Share count cache unavailable"},

	// Statistics errors
	ErrStatsInvalidInput:  {ErrStatsInvalidInput, http.StatusBadRequest, "Invalid share event input"},
	ErrStatsRecordFailed:  {ErrStatsRecordFailed, http.StatusInternalServerError, "Failed to record share event"},
	ErrStatsInvalidRange:  {ErrStatsInvalidRange, http.StatusBadRequest, "Invalid analytics date range"},
	ErrStatsInvalidPeriod: {ErrStatsInvalidPeriod, http.StatusBadRequest, "Invalid analytics period"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsSuccess checks if the code represents success
func IsSuccess(code int) bool {
	return code == Success
}

// FormatError formats an error message with optional details
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
