package history

import "errors"

var (
	// ErrNotFound indicates no report with the requested id exists.
	ErrNotFound = errors.New("not found")

	// ErrUnknownSkill indicates the skill is not among the report's extracted skills.
	ErrUnknownSkill = errors.New("unknown skill")

	// ErrInvalidConfidence indicates a status other than known or needs_practice.
	ErrInvalidConfidence = errors.New("invalid confidence status")

	// ErrInvalidReport indicates a report without an id or creation time.
	ErrInvalidReport = errors.New("invalid report")

	// ErrStorage indicates the backing blob store failed to read or write history.
	ErrStorage = errors.New("history storage unavailable")
)
