package sensor

import "errors"

var (
	// ErrMalformedMapping is returned when a mapping line is not identifier=name.
	ErrMalformedMapping = errors.New("sensor: malformed mapping line")

	// ErrEmptyIdentifier is returned when a mapping line has no identifier.
	ErrEmptyIdentifier = errors.New("sensor: empty identifier")
)
