package common

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConfiguration for missing or invalid configuration values
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeValidation for request validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeAuth for authentication/authorization errors
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeOracle for language-model transport failures
	ErrorTypeOracle ErrorType = "oracle"
	// ErrorTypeContract for language-model responses that violate the JSON contract
	ErrorTypeContract ErrorType = "contract"
	// ErrorTypeProvider for tracking-system API failures
	ErrorTypeProvider ErrorType = "provider"
	// ErrorTypeNetwork for outbound network failures
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeInternal for internal system errors
	ErrorTypeInternal ErrorType = "internal"
)

// AssistantError represents a structured error with context
type AssistantError struct {
	Type      ErrorType              `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Cause     error                  `json:"-"`
}

// Error implements the error interface
func (e *AssistantError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Type, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AssistantError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AssistantError) WithContext(key string, value interface{}) *AssistantError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails sets the human-readable detail string
func (e *AssistantError) WithDetails(details string) *AssistantError {
	e.Details = details
	return e
}

// WithCause sets the underlying cause
func (e *AssistantError) WithCause(cause error) *AssistantError {
	e.Cause = cause
	return e
}

// NewError creates a new AssistantError
func NewError(errorType ErrorType, code, message string) *AssistantError {
	return &AssistantError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(code, message string) *AssistantError {
	return NewError(ErrorTypeConfiguration, code, message)
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *AssistantError {
	return NewError(ErrorTypeValidation, code, message)
}

// NewAuthError creates an authentication error
func NewAuthError(code, message string) *AssistantError {
	return NewError(ErrorTypeAuth, code, message)
}

// NewOracleError creates a language-model transport error
func NewOracleError(code, message string) *AssistantError {
	return NewError(ErrorTypeOracle, code, message)
}

// NewContractError creates a language-model contract error
func NewContractError(code, message string) *AssistantError {
	return NewError(ErrorTypeContract, code, message)
}

// NewProviderError creates a tracking-system error
func NewProviderError(code, message string) *AssistantError {
	return NewError(ErrorTypeProvider, code, message)
}

// NewNetworkError creates a network error
func NewNetworkError(code, message string) *AssistantError {
	return NewError(ErrorTypeNetwork, code, message)
}

// NewInternalError creates an internal system error
func NewInternalError(code, message string) *AssistantError {
	return NewError(ErrorTypeInternal, code, message)
}

// WrapError wraps an existing error with AssistantError context
func WrapError(err error, errorType ErrorType, code, message string) *AssistantError {
	return &AssistantError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Cause:     err,
	}
}

// IsErrorType reports whether err is (or wraps) an AssistantError of the given type
func IsErrorType(err error, errorType ErrorType) bool {
	var ae *AssistantError
	if errors.As(err, &ae) {
		return ae.Type == errorType
	}
	return false
}

// AsAssistantError extracts an AssistantError from err, or wraps err as an
// internal error so callers always have a typed error to report.
func AsAssistantError(err error) *AssistantError {
	var ae *AssistantError
	if errors.As(err, &ae) {
		return ae
	}
	return WrapError(err, ErrorTypeInternal, "INTERNAL_ERROR", "unexpected error")
}
