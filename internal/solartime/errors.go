package solartime

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Input validation errors. Every one reaches callers wrapped in *InputError so
// the offending field can be named.
var (
	// ErrInvalidDateTime indicates the civil date/time could not be parsed
	ErrInvalidDateTime = errors.New("invalid date/time")

	// ErrDateOutOfRange indicates a year outside the supported calendar range
	ErrDateOutOfRange = errors.New("date out of supported range")

	// ErrUnknownTimezone indicates an unknown IANA id or malformed offset
	ErrUnknownTimezone = errors.New("unknown timezone")

	// ErrCoordinateOutOfRange indicates NaN, infinite or out-of-range degrees
	ErrCoordinateOutOfRange = errors.New("coordinate out of range")

	// ErrMissingLongitude indicates solar time was requested without a longitude
	ErrMissingLongitude = errors.New("longitude required for solar time")
)

// Local time resolution errors.
var (
	// ErrAmbiguousTime indicates a wall time that occurs twice (clocks set back)
	ErrAmbiguousTime = errors.New("ambiguous local time")

	// ErrNonexistentTime indicates a wall time skipped by a forward transition
	ErrNonexistentTime = errors.New("nonexistent local time")
)

// InputError names the request field that failed validation.
type InputError struct {
	Field string
	Value string
	Err   error
}

func (e *InputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

func inputErr(field, value string, err error) error {
	return &InputError{Field: field, Value: value, Err: err}
}

// AmbiguousTimeError reports a wall time that maps to more than one instant.
type AmbiguousTimeError struct {
	Local   string
	Zone    string
	Earlier time.Time
	Later   time.Time
}

func (e *AmbiguousTimeError) Error() string {
	return fmt.Sprintf("%s in %s occurs twice (%s and %s)", e.Local, e.Zone,
		e.Earlier.Format("-07:00"), e.Later.Format("-07:00"))
}

func (e *AmbiguousTimeError) Unwrap() error { return ErrAmbiguousTime }

// NonexistentTimeError reports a wall time inside a forward DST gap.
type NonexistentTimeError struct {
	Local string
	Zone  string
}

func (e *NonexistentTimeError) Error() string {
	return fmt.Sprintf("%s does not exist in %s", e.Local, e.Zone)
}

func (e *NonexistentTimeError) Unwrap() error { return ErrNonexistentTime }

// Field returns the request field an error refers to, or "" when the error is
// not a validation failure.
func Field(err error) string {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Field
	}
	if errors.Is(err, ErrAmbiguousTime) || errors.Is(err, ErrNonexistentTime) {
		return FieldDateTime
	}
	return ""
}

// Request field names used in errors.
const (
	FieldDateTime  = "dateTime"
	FieldTimezone  = "timezone"
	FieldLongitude = "longitude"
	FieldLatitude  = "latitude"
	FieldGender    = "gender"
)

func formatFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", f), "0"), ".")
}
