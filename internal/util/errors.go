// Package util provides utility functions and types for the edge gateway.
//
// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrNoRoute.
//   - Structured error types for context-rich errors that carry
//     additional fields (e.g., ConfigError, RuleCompileError). Each type
//     implements Error(), Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
//
// All custom error types must implement:
//
//	Error() string           – human-readable message
//	Unwrap() error           – if the type wraps another error
//	Is(target error) bool    – for errors.Is() compatibility
package util

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNoRoute        = errors.New("no route")
	ErrInvalidInput   = errors.New("invalid input")
	ErrBackendUnavail = errors.New("backend unavailable")
	ErrConfigInvalid  = errors.New("invalid configuration")
)

// CompileErrorKind classifies rule compilation failures.
type CompileErrorKind string

const (
	// InvalidPattern indicates a malformed regex or an empty/relative
	// literal pattern.
	InvalidPattern CompileErrorKind = "invalid_pattern"

	// InvalidCaptureReference indicates a rewrite template that
	// references a capture group its pattern does not define.
	InvalidCaptureReference CompileErrorKind = "invalid_capture_reference"
)

// RuleCompileError represents a routing rule compilation failure.
// A rule set containing any rule that fails to compile is rejected in
// its entirety; the previously active rule set remains in force.
type RuleCompileError struct {
	Rule    string
	Kind    CompileErrorKind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RuleCompileError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("rule %s: %s: %s", e.Rule, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *RuleCompileError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *RuleCompileError) Is(target error) bool {
	var other *RuleCompileError
	if errors.As(target, &other) {
		return other.Kind == "" || other.Kind == e.Kind
	}
	return errors.Is(e.Cause, target)
}

// NewRuleCompileError creates a new RuleCompileError.
func NewRuleCompileError(rule string, kind CompileErrorKind, message string) *RuleCompileError {
	return &RuleCompileError{Rule: rule, Kind: kind, Message: message}
}

// NewRuleCompileErrorWithCause creates a new RuleCompileError with a cause.
func NewRuleCompileErrorWithCause(rule string, kind CompileErrorKind, message string, cause error) *RuleCompileError {
	return &RuleCompileError{Rule: rule, Kind: kind, Message: message, Cause: cause}
}

// ConfigError represents a configuration-related error.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// RouteNotFoundError signals that no routing rule matched a request.
// It is a normal outcome, not a failure: the proxy layer maps it to a
// client-visible no-route response.
type RouteNotFoundError struct {
	Method string
	Path   string
}

// Error implements the error interface.
func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route for %s %s", e.Method, e.Path)
}

// Is checks if the error matches the target.
func (e *RouteNotFoundError) Is(target error) bool {
	if target == ErrNoRoute {
		return true
	}
	_, ok := target.(*RouteNotFoundError)
	return ok
}

// NewRouteNotFoundError creates a new RouteNotFoundError.
func NewRouteNotFoundError(method, path string) *RouteNotFoundError {
	return &RouteNotFoundError{Method: method, Path: path}
}
