package polyfmt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedFormat    = errors.New("polyfmt: unsupported format")
	ErrUnsupportedExtension = errors.New("polyfmt: unsupported file extension")
	ErrNoSuccessfulParse    = errors.New("polyfmt: no format was able to parse the source")
	ErrNoMatchingFile       = errors.New("polyfmt: no matching file")
	ErrIO                   = errors.New("polyfmt: i/o error")
	ErrLimitExceeded        = errors.New("polyfmt: limit exceeded")
	ErrInvalidPayload       = errors.New("polyfmt: invalid compressed payload")

	// ErrNoCandidates is returned when probing is asked to try an empty list of formats.
	ErrNoCandidates = fmt.Errorf("%w: no candidate formats", ErrUnsupportedFormat)
)

// FormatError is a decode or encode failure reported by a single format's codec.
type FormatError struct {
	Format Format
	Op     string // "decode" or "encode"
	Err    error
}

func (e *FormatError) Error() string {
	return "polyfmt: " + e.Format.String() + " " + e.Op + ": " + e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }

// Attempt records why one candidate format rejected the input.
type Attempt struct {
	Format Format
	Err    error
}

// ProbeError is returned when every candidate format failed to decode the input.
// Attempts are kept in the order they were tried.
type ProbeError struct {
	Attempts []Attempt
}

func (e *ProbeError) Error() string {
	var b strings.Builder
	b.WriteString(ErrNoSuccessfulParse.Error())
	for i, a := range e.Attempts {
		if i == 0 {
			b.WriteString(" (")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(a.Err.Error())
	}
	if len(e.Attempts) > 0 {
		b.WriteByte(')')
	}
	return b.String()
}

func (e *ProbeError) Is(target error) bool { return target == ErrNoSuccessfulParse }

func (e *ProbeError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}

// Err returns the error recorded for f, or nil if f was not attempted.
func (e *ProbeError) Err(f Format) error {
	for _, a := range e.Attempts {
		if a.Format == f {
			return a.Err
		}
	}
	return nil
}

// ExtensionError reports a file extension that maps to no enabled format.
type ExtensionError struct {
	Ext string
}

func (e *ExtensionError) Error() string {
	if e.Ext == "" {
		return ErrUnsupportedExtension.Error() + ": file has no extension"
	}
	return fmt.Sprintf("%s %q", ErrUnsupportedExtension.Error(), e.Ext)
}

func (e *ExtensionError) Unwrap() error { return ErrUnsupportedExtension }

func ioError(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}
