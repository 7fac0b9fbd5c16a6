package stores

import (
	"errors"
	"fmt"

	"player-analytics/internal/records"
)

var (
	ErrInvalidPath     = errors.New("invalid store path")
	ErrMissingIndex    = errors.New("ordering index not defined")
	ErrUnexpectedReply = errors.New("unexpected store reply")
)

func errUnavailable(store, op, path string, cause error) error {
	return fmt.Errorf("%w: %s %s %q: %w", records.ErrSourceUnavailable, store, op, path, cause)
}
