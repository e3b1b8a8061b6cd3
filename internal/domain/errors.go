package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeUnavailable   = "UNAVAILABLE"
	ErrCodeUpstream      = "UPSTREAM_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidItemKind           = NewDomainError(ErrCodeValidation, "invalid knowledge item kind")
	ErrInvalidEmbeddingJobStatus = NewDomainError(ErrCodeValidation, "invalid embedding job status")
	ErrMissingRequiredField      = NewDomainError(ErrCodeValidation, "missing required field")
	ErrEmptyQuestion             = NewDomainError(ErrCodeValidation, "question cannot be empty")
	ErrEmptyAudio                = NewDomainError(ErrCodeValidation, "audio payload cannot be empty")
)

// Not found errors
var (
	ErrItemNotFound = NewDomainError(ErrCodeNotFound, "knowledge item not found")
)

// Authorization errors
var (
	ErrInvalidAdminToken = NewDomainError(ErrCodeUnauthorized, "invalid admin token")
)

// Pipeline failure taxonomy. Retrieval failures never surface to callers:
// a partial failure is logged and the surviving namespaces are used, a total
// failure degrades to the no-knowledge answer. Generation failures degrade
// to a fixed message. Embedding, translation and transcription failures are
// surfaced to the caller.
var (
	ErrEmbeddingFailed       = NewDomainError(ErrCodeUnavailable, "embedding generation failed")
	ErrRetrievalFailed       = NewDomainError(ErrCodeUnavailable, "all namespace queries failed")
	ErrGenerationUnavailable = NewDomainError(ErrCodeUnavailable, "completion model returned no usable response")
	ErrTranslationFailed     = NewDomainError(ErrCodeUpstream, "translation failed")
	ErrTranscriptionFailed   = NewDomainError(ErrCodeUpstream, "transcription failed")
)
