package analyses

import (
	"errors"

	"placement-readiness/internal/shared/server/respond"
)

var (
	// ErrInvalidStatus indicates a confidence status other than known or needs_practice.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidInput indicates a submission that fails boundary validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtractionFailed indicates an upload whose text could not be read.
	ErrExtractionFailed = errors.New("extraction failed")
)

const (
	ErrorCodeValidation   = respond.CodeValidation
	ErrorCodeNotFound     = "not_found"
	ErrorCodeUnsupported  = "unsupported_media_type"
	ErrorCodeExtraction   = "extraction_failed"
	ErrorCodeStorage      = "storage_error"
	ErrorCodeInternal     = "internal_error"
	ErrorCodeTooLarge     = "payload_too_large"
	ErrorCodeUnknownSkill = "unknown_skill"
)
