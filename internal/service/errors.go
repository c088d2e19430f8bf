package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/octobees/portfolio-importer/api/internal/extractor"
	"github.com/octobees/portfolio-importer/api/internal/gateway"
)

// ValidationError collects human-readable messages per input field.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an error holding a single field message.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add records message against field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no message has been recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Merge copies every message of other into e.
func (e *ValidationError) Merge(other *ValidationError) {
	if other.Empty() {
		return
	}
	for field, messages := range other.Fields {
		for _, msg := range messages {
			e.Add(field, msg)
		}
	}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PersistenceError wraps a storage failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistenceErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var vErr *ValidationError
	var pErr *PersistenceError
	if errors.As(err, &vErr) || errors.As(err, &pErr) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// ImportError is returned by the import flow for every failure after input
// validation. The whole import has been rolled back when it is returned.
type ImportError struct {
	Username string
	URL      string
	Err      error
}

func (e *ImportError) Error() string {
	if e.IsExtraction() {
		return "failed to extract portfolio data: " + e.Err.Error()
	}
	return "failed to import portfolio: " + e.Err.Error()
}

func (e *ImportError) Unwrap() error { return e.Err }

// IsExtraction reports whether the import failed while talking to the extraction API.
func (e *ImportError) IsExtraction() bool {
	var gwErr *gateway.GatewayError
	var exErr *extractor.ExtractionError
	return errors.As(e.Err, &gwErr) || errors.As(e.Err, &exErr)
}
