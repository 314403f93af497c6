package journey

import "errors"

var (
	// ErrInvalidArgument indicates a blank name or an out-of-range stage
	ErrInvalidArgument = errors.New("journey.invalid_argument")

	// ErrSessionNotFound indicates that no session has been saved yet
	ErrSessionNotFound = errors.New("journey.session_not_found")

	// ErrMalformedSession indicates a stored session document that cannot be decoded
	ErrMalformedSession = errors.New("journey.malformed_session")

	// ErrNilSession indicates an attempt to save a nil session
	ErrNilSession = errors.New("journey.nil_session")
)
