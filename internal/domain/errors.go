package domain

import (
	"errors"
	"fmt"
)

// ErrorType classifies processing failures so the transport layer can map
// them to a response status without inspecting messages.
type ErrorType string

const (
	// ErrorTypeMalformedPayload: the inbound encoding could not be decoded
	// into document bytes. Client error, not retried.
	ErrorTypeMalformedPayload ErrorType = "malformed_payload"
	// ErrorTypeUnsupportedDocument: the decoded bytes were rejected as an
	// unrecognized, unreadable, or corrupt document.
	ErrorTypeUnsupportedDocument ErrorType = "unsupported_document"
	// ErrorTypeEngineUnavailable: the shared extraction engine could not
	// execute. Server error, the caller may retry.
	ErrorTypeEngineUnavailable ErrorType = "engine_unavailable"
	// ErrorTypeArtifactWrite: a diagnostic artifact could not be persisted.
	// Contained at the artifact writer, never surfaced to the caller.
	ErrorTypeArtifactWrite ErrorType = "artifact_write"
	// ErrorTypeInternal covers everything else.
	ErrorTypeInternal ErrorType = "internal"
)

// DomainError represents a processing error with its classification and an
// optional wrapped cause.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func MalformedPayloadError(message string, err error) *DomainError {
	return NewError(ErrorTypeMalformedPayload, message, err)
}

func UnsupportedDocumentError(message string, err error) *DomainError {
	return NewError(ErrorTypeUnsupportedDocument, message, err)
}

func EngineUnavailableError(message string, err error) *DomainError {
	return NewError(ErrorTypeEngineUnavailable, message, err)
}

func ArtifactWriteError(message string, err error) *DomainError {
	return NewError(ErrorTypeArtifactWrite, message, err)
}

func InternalError(message string, err error) *DomainError {
	return NewError(ErrorTypeInternal, message, err)
}

// TypeOf extracts the error type from err or any error it wraps.
// Non-domain errors report ErrorTypeInternal.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ErrorTypeInternal
}
