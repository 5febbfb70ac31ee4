package entities

import (
	"errors"
	"fmt"
)

// ErrorCategory is the user-facing class of a failure
type ErrorCategory string

const (
	CategoryInvalidFileType      ErrorCategory = "InvalidFileType"
	CategoryFileTooLarge         ErrorCategory = "FileTooLarge"
	CategorySerializationFailure ErrorCategory = "SerializationFailure"
)

var (
	// ErrInvalidFileType is returned for uploads outside the supported MIME types
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrFileTooLarge is returned for uploads above the configured size ceiling
	ErrFileTooLarge = errors.New("file too large")

	// ErrStaleResult is returned when a newer upload superseded a pipeline run
	ErrStaleResult = errors.New("result superseded by a newer upload")

	// ErrDeckNotFound is returned by deck stores for unknown ids
	ErrDeckNotFound = errors.New("deck not found")
)

// UploadError is a validation failure surfaced before any extraction runs
type UploadError struct {
	Category ErrorCategory
	Message  string
	err      error
}

// NewUploadError creates an upload error of the given category
func NewUploadError(category ErrorCategory, message string) *UploadError {
	var cause error
	switch category {
	case CategoryInvalidFileType:
		cause = ErrInvalidFileType
	case CategoryFileTooLarge:
		cause = ErrFileTooLarge
	}
	return &UploadError{Category: category, Message: message, err: cause}
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.err
}
