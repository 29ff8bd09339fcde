package format

import "fmt"

// UnsupportedError marks a syntax construct the printer deliberately does
// not handle yet. It aborts formatting of the current file with the name of
// the construct; it is a distinct type so callers and tests can tell it
// apart from contract-violation panics and ordinary I/O failures.
type UnsupportedError struct {
	Construct string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("format: unsupported construct: %s", e.Construct)
}

// Unsupported builds an UnsupportedError for the named construct.
func Unsupported(construct string) error {
	return &UnsupportedError{Construct: construct}
}
