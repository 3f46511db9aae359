package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = errors.New("entity not found")

	ErrUserNotFound     error = &NotFoundError{Entity: "User"}
	ErrCarNotFound      error = &NotFoundError{Entity: "Car"}
	ErrPropertyNotFound error = &NotFoundError{Entity: "Property"}

	ErrMissingFields      = errors.New("Please fill all required fields")
	ErrMobileTaken        = errors.New("Mobile number already exists. Please use a different one.")
	ErrInvalidCredentials = errors.New("Invalid mobile number or password.")
	ErrUnauthenticated    = errors.New("Not logged in")

	// ErrStorage indicates a blob storage failure.
	ErrStorage = errors.New("storage error")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
)

// NotFoundError names the missing entity; its message is shown to users.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError carries user-facing messages, one per violated constraint.
type ValidationError struct {
	Messages []string
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return "Validation error: " + strings.Join(e.Messages, ", ")
}

// Add appends a message.
func (e *ValidationError) Add(msg string) {
	e.Messages = append(e.Messages, msg)
}

// OrNil returns nil when no messages were collected.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Messages) == 0 {
		return nil
	}
	return e
}

// UploadError is a rejected file upload. Always a client error.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string { return e.Message }

func NewTooManyFilesError(max int) *UploadError {
	return &UploadError{Message: fmt.Sprintf("Too many files. Max allowed is %d.", max)}
}

func NewFileTooLargeError(maxMB int64) *UploadError {
	return &UploadError{Message: fmt.Sprintf("One of the uploaded files is too large. Max allowed size is %dMB.", maxMB)}
}

func NewUnsupportedFileError() *UploadError {
	return &UploadError{Message: "Only .jpg, .jpeg and .png images are allowed."}
}
