package records

import "errors"

var (
	// ErrSourceUnavailable marks a read that could not produce a snapshot.
	// Callers treat it as "no data".
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNotMapping is returned when a snapshot root is not a keyed mapping.
	ErrNotMapping = errors.New("snapshot is not a mapping")

	// ErrMalformedEntry marks a snapshot entry whose document is not a mapping.
	ErrMalformedEntry = errors.New("malformed entry")

	// ErrInvalidFieldValue marks a field value that failed coercion.
	ErrInvalidFieldValue = errors.New("invalid field value")

	// ErrEmptyInput is returned when a statistic is requested over no data.
	ErrEmptyInput = errors.New("empty input")
)
