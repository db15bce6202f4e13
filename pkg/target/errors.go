package target

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProvider is returned for provider ids missing from the registry.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoMatch is returned when a line does not have the provider's format.
	ErrNoMatch = errors.New("line does not match the provider format")

	// ErrNoPath is returned when a provider needs the current buffer path
	// and none is known.
	ErrNoPath = errors.New("no buffer path available")
)

// ParseError reports a line that could not be turned into a target.
type ParseError struct {
	Provider string
	Line     string
	Err      error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("failed to parse preview target for provider %q from %q", e.Provider, e.Line)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
