package service

import "fmt"

// Error codes shared by every service. Handlers map these onto HTTP
// statuses.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeConflict       = "CONFLICT"
	CodeLaunchGated    = "LAUNCH_GATED"
	CodeQuotaExceeded  = "QUOTA_EXCEEDED"
	CodeInternal       = "INTERNAL_ERROR"
)

// ServiceError is a typed business-logic failure.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewServiceError builds a ServiceError with the given code and message.
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}
