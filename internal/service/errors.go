package service

import (
	"errors"
	"fmt"
	"math"
)

// Expected outcomes of the booking services.  Handlers map each of these
// to a status code; any other error is an internal failure.
var (
	// ErrNotFound is returned when an enrollment, ticket, room, hotel or
	// booking referenced by the request does not exist.
	ErrNotFound = errors.New("no result for this search")

	// ErrInvalidBooking is returned when a booking rule is violated:
	// the ticket does not allow a hotel, the room is full, or the
	// caller has no booking to update.
	ErrInvalidBooking = errors.New("booking requirements failed")

	// ErrInvalidData is returned for malformed input such as a
	// non-positive id or an empty enrollment name.
	ErrInvalidData = errors.New("invalid data")

	// ErrHotelNotAllowed is returned by hotel browsing when the caller's
	// ticket does not cover accommodation.
	ErrHotelNotAllowed = errors.New("invalid hotel information")
)

// InvalidDataError names the input field that failed numeric validation.
// It matches ErrInvalidData with errors.Is.
type InvalidDataError struct {
	Field string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidData.Error(), e.Field)
}

func (e *InvalidDataError) Is(target error) bool { return target == ErrInvalidData }

func invalidData(field string) error { return &InvalidDataError{Field: field} }

// maxExactID is the largest integer a float64 holds without loss.
const maxExactID = 1 << 53

// UserIDFromNumber converts a decoded numeric principal id (JWT numbers
// decode as float64) into a user id.  NaN, infinities, fractions and
// non-positive values are rejected with ErrInvalidData.
func UserIDFromNumber(v float64) (uint64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v != math.Trunc(v) || v > maxExactID {
		return 0, invalidData("userId")
	}
	return uint64(v), nil
}
