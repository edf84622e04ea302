// Package errors provides custom error types for the mcpsync system.
// These errors enable programmatic error checking at the engine boundary,
// where per-file failures must be recorded without aborting the run.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the mcpsync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNothingToSync indicates that no usable configuration files were found
	ErrNothingToSync = errors.New("nothing to sync")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ParseError represents an error when parsing a configuration document
type ParseError struct {
	Format  string // "json"
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, path, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// BackupError represents a failure to snapshot a file before writing it.
// The writer must not mutate a file whose snapshot failed.
type BackupError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *BackupError) Error() string {
	return fmt.Sprintf("backup of %s failed: %s", e.Path, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *BackupError) Unwrap() error {
	return e.Err
}

// NewBackupError creates a new BackupError
func NewBackupError(path string, err error) *BackupError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &BackupError{Path: path, Message: message, Err: err}
}

// WriteError represents a failure to persist a file after its snapshot
// succeeded. The snapshot remains on disk for manual recovery.
type WriteError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *WriteError) Error() string {
	return fmt.Sprintf("write of %s failed: %s", e.Path, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewWriteError creates a new WriteError
func NewWriteError(path string, err error) *WriteError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &WriteError{Path: path, Message: message, Err: err}
}

// UnknownServersError reports every server name in a removal request that
// is not present in the merged registry, so a caller removing a batch
// learns about all typos in one pass.
type UnknownServersError struct {
	Names []string
}

// Error implements the error interface
func (e *UnknownServersError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("server %s not found", e.Names[0])
	}
	return fmt.Sprintf("servers not found: %s", strings.Join(e.Names, ", "))
}

// Is implements errors.Is support
func (e *UnknownServersError) Is(target error) bool {
	return target == ErrNotFound
}

// NewUnknownServersError creates a new UnknownServersError
func NewUnknownServersError(names []string) *UnknownServersError {
	return &UnknownServersError{Names: names}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, path, err.Error(), err)
}
