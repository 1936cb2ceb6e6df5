// Package domainerrors is the application's error taxonomy. Every expected
// business failure surfaces as a DomainError with a stable code and an
// HTTP-equivalent status; storage and network faults are wrapped as
// InfrastructureError at the boundary that caught them. Handlers map either
// kind to a uniform response via Response.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	// Authentication
	CodeInvalidCredentials   Code = "INVALID_CREDENTIALS"
	CodeTwoFactorRequired    Code = "TWO_FACTOR_REQUIRED"
	CodeInvalidTwoFactorCode Code = "INVALID_TWO_FACTOR_CODE"
	CodeAccountNotVerified   Code = "ACCOUNT_NOT_VERIFIED"

	// Authorization
	CodeInsufficientPermissions Code = "INSUFFICIENT_PERMISSIONS"

	// User
	CodeUserNotFound Code = "USER_NOT_FOUND"
	CodeEmailExists  Code = "EMAIL_ALREADY_EXISTS"
	CodeWeakPassword Code = "WEAK_PASSWORD"

	// Subscription
	CodeSubscriptionRequired      Code = "SUBSCRIPTION_REQUIRED"
	CodeSubscriptionLimitExceeded Code = "SUBSCRIPTION_LIMIT_EXCEEDED"

	// Validation
	CodeValidation Code = "VALIDATION_ERROR"

	// Infrastructure
	CodeDatabase        Code = "DATABASE_ERROR"
	CodeExternalService Code = "EXTERNAL_SERVICE_ERROR"

	// Rate limiting
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"

	// Privacy / LGPD
	CodeConsentRequired    Code = "CONSENT_REQUIRED"
	CodeConsentNotFound    Code = "CONSENT_NOT_FOUND"
	CodeConsentExists      Code = "CONSENT_ALREADY_EXISTS"
	CodeDataRetentionError Code = "DATA_RETENTION_ERROR"
)

// statusByCode binds each code to its HTTP-equivalent status class exactly
// once, so callers never pick statuses ad hoc.
var statusByCode = map[Code]int{
	CodeInvalidCredentials:   http.StatusUnauthorized,
	CodeTwoFactorRequired:    http.StatusUnauthorized,
	CodeInvalidTwoFactorCode: http.StatusUnauthorized,
	CodeAccountNotVerified:   http.StatusUnauthorized,

	CodeInsufficientPermissions: http.StatusForbidden,

	CodeUserNotFound: http.StatusNotFound,
	CodeEmailExists:  http.StatusConflict,
	CodeWeakPassword: http.StatusBadRequest,

	CodeSubscriptionRequired:      http.StatusPaymentRequired,
	CodeSubscriptionLimitExceeded: http.StatusForbidden,

	CodeValidation: http.StatusBadRequest,

	CodeDatabase:        http.StatusInternalServerError,
	CodeExternalService: http.StatusInternalServerError,

	CodeRateLimitExceeded: http.StatusTooManyRequests,

	CodeConsentRequired:    http.StatusForbidden,
	CodeConsentNotFound:    http.StatusNotFound,
	CodeConsentExists:      http.StatusConflict,
	CodeDataRetentionError: http.StatusInternalServerError,
}

// DomainError is an expected business failure: validation, authorization,
// not-found, conflict. It travels in Result failures, never as a panic.
type DomainError struct {
	Code    Code
	Message string
	Status  int
	Context map[string]any
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds a DomainError; the status is derived from the code table.
func New(code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Status: statusFor(code)}
}

// Newf is New with fmt-style formatting.
func Newf(code Code, format string, args ...any) *DomainError {
	return New(code, fmt.Sprintf(format, args...))
}

// WithContext attaches a key/value pair for diagnostics and API payloads.
func (e *DomainError) WithContext(key string, value any) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Validation builds the standard field-level validation failure.
func Validation(field string, value any, constraint string) *DomainError {
	return New(CodeValidation, fmt.Sprintf("%s %s", field, constraint)).
		WithContext("field", field).
		WithContext("value", value).
		WithContext("constraint", constraint)
}

// InfrastructureError wraps a storage or network fault. The original cause
// is preserved for logs via Unwrap but never shown to API consumers.
type InfrastructureError struct {
	Code    Code
	Message string
	Status  int
	Service string
	cause   error
}

func (e *InfrastructureError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Code, e.Service, e.Message, e.cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Code, e.Service, e.Message)
}

func (e *InfrastructureError) Unwrap() error { return e.cause }

// Database wraps a persistence fault from the named operation.
func Database(operation string, cause error) *InfrastructureError {
	return &InfrastructureError{
		Code:    CodeDatabase,
		Message: operation + " failed",
		Status:  statusFor(CodeDatabase),
		Service: "database",
		cause:   cause,
	}
}

// ExternalService wraps a fault from a named external collaborator.
func ExternalService(service string, cause error) *InfrastructureError {
	return &InfrastructureError{
		Code:    CodeExternalService,
		Message: service + " call failed",
		Status:  statusFor(CodeExternalService),
		Service: service,
		cause:   cause,
	}
}

// HasCode reports whether err is a taxonomy error carrying the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	var ie *InfrastructureError
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}

// StatusOf maps any error to its HTTP-equivalent status. Unknown errors are
// treated as internal faults.
func StatusOf(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Status
	}
	var ie *InfrastructureError
	if errors.As(err, &ie) {
		return ie.Status
	}
	return http.StatusInternalServerError
}

func statusFor(code Code) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
