// Package apperrors defines application-level error types.
package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mealguard-dev/mealguard/internal/domain/entities"
)

// InputMalformedError indicates a profile or order was structurally invalid
// and no evaluation was attempted.
type InputMalformedError struct {
	Cause    error
	Problems []string
}

func (e *InputMalformedError) Error() string {
	if len(e.Problems) == 0 {
		return "input malformed"
	}
	return fmt.Sprintf("input malformed: %s", strings.Join(e.Problems, "; "))
}

func (e *InputMalformedError) Unwrap() error {
	return e.Cause
}

// NewInputMalformedError creates a new input malformed error.
func NewInputMalformedError(problems ...string) *InputMalformedError {
	return &InputMalformedError{Problems: problems, Cause: entities.ErrInputMalformed}
}

// AsInputMalformed converts a domain malformed error into the application
// type. ok is false for any other error.
func AsInputMalformed(err error) (*InputMalformedError, bool) {
	var app *InputMalformedError
	if errors.As(err, &app) {
		return app, true
	}
	var domain *entities.MalformedError
	if errors.As(err, &domain) {
		return &InputMalformedError{Problems: domain.Problems, Cause: err}, true
	}
	return nil, false
}

// RuleSetError indicates a rule set document was rejected.
type RuleSetError struct {
	Cause   error
	Source  string
	Details []string
}

func (e *RuleSetError) Error() string {
	msg := fmt.Sprintf("rule set %s rejected", e.Source)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if len(e.Details) > 0 {
		msg += "\n    - " + strings.Join(e.Details, "\n    - ")
	}
	return msg
}

func (e *RuleSetError) Unwrap() error {
	return e.Cause
}

// NewRuleSetError creates a new rule set error.
func NewRuleSetError(source string, cause error, details ...string) *RuleSetError {
	return &RuleSetError{Source: source, Cause: cause, Details: details}
}

// NotFoundError indicates a requested resource does not exist.
type NotFoundError struct {
	Cause    error
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, id string, cause error) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id, Cause: cause}
}

// AuthorizationError indicates the principal lacks a required role.
type AuthorizationError struct {
	Principal string
	Required  string
}

func (e *AuthorizationError) Error() string {
	if e.Principal == "" {
		return fmt.Sprintf("unauthenticated: role %s required", e.Required)
	}
	return fmt.Sprintf("principal %s lacks role %s", e.Principal, e.Required)
}

// NewAuthorizationError creates a new authorization error.
func NewAuthorizationError(principal, required string) *AuthorizationError {
	return &AuthorizationError{Principal: principal, Required: required}
}

// ConfigurationError indicates system config or setup issue.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}
