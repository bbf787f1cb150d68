// Package errors provides structured error handling for Vitrine.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes for the CLI.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input
	ExitNotFound = 4 // Resource not found
)

// VitrineError is the structured error type for Vitrine.
type VitrineError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *VitrineError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *VitrineError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for VitrineError.
func (e *VitrineError) Is(target error) bool {
	var t *VitrineError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &VitrineError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &VitrineError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	// ErrCoreQuery covers any failure to retrieve balance data from the
	// core: network, chain RPC, or decoding on the core side.
	ErrCoreQuery = &VitrineError{
		Code:     "CORE_QUERY_FAILED",
		Message:  "core balance query failed",
		ExitCode: ExitGeneral,
	}

	ErrNetworkError = &VitrineError{
		Code:     "NETWORK_ERROR",
		Message:  "network communication failed",
		ExitCode: ExitGeneral,
	}

	ErrEntityNotFound = &VitrineError{
		Code:     "ENTITY_NOT_FOUND",
		Message:  "address not found",
		ExitCode: ExitNotFound,
	}

	ErrUnsupportedChain = &VitrineError{
		Code:     "UNSUPPORTED_CHAIN",
		Message:  "unsupported chain",
		ExitCode: ExitInput,
	}

	ErrInvalidAddress = &VitrineError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrInvalidAmount = &VitrineError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount format",
		ExitCode: ExitInput,
	}

	// Config-specific errors.
	ErrConfigNotFound = &VitrineError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &VitrineError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &VitrineError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}

	ErrCacheNotFound = &VitrineError{
		Code:     "CACHE_NOT_FOUND",
		Message:  "no cached data available",
		ExitCode: ExitNotFound,
	}

	ErrDispatcherClosed = &VitrineError{
		Code:     "DISPATCHER_CLOSED",
		Message:  "dispatcher has been shut down",
		ExitCode: ExitGeneral,
	}
)

// New creates a new VitrineError with the given code and message.
func New(code, message string) *VitrineError {
	return &VitrineError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var ve *VitrineError
	if errors.As(err, &ve) {
		return &VitrineError{
			Code:       ve.Code,
			Message:    fmt.Sprintf("%s: %s", msg, ve.Message),
			Details:    ve.Details,
			Suggestion: ve.Suggestion,
			Cause:      err,
			ExitCode:   ve.ExitCode,
		}
	}

	return &VitrineError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var ve *VitrineError
	if errors.As(err, &ve) {
		return &VitrineError{
			Code:       ve.Code,
			Message:    ve.Message,
			Details:    details,
			Suggestion: ve.Suggestion,
			Cause:      ve.Cause,
			ExitCode:   ve.ExitCode,
		}
	}

	return &VitrineError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var ve *VitrineError
	if errors.As(err, &ve) {
		return &VitrineError{
			Code:       ve.Code,
			Message:    ve.Message,
			Details:    ve.Details,
			Suggestion: suggestion,
			Cause:      ve.Cause,
			ExitCode:   ve.ExitCode,
		}
	}

	return &VitrineError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ve *VitrineError
	if errors.As(err, &ve) {
		return ve.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var ve *VitrineError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
