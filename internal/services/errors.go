package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP status codes.
var (
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound is returned when a record lookup finds nothing.
	ErrNotFound = errors.New("not found")

	// ErrMissingFields is returned when a request omits required input.
	ErrMissingFields = errors.New("all fields are required")

	// ErrBadTimestamp is returned when the client timestamp does not parse
	// as an ISO-8601 instant.
	ErrBadTimestamp = errors.New("clientTimestamp must be a valid ISO date string")

	// ErrTimestampSkew is returned when the client timestamp differs from
	// the server clock by more than the configured tolerance.
	ErrTimestampSkew = errors.New("time difference between client and server is not within the allowed range")

	// ErrOpenSession is returned on clock-in while a session is already open.
	ErrOpenSession = errors.New("cannot clock in, last record was not clocked out")

	// ErrNoOpenSession is returned on clock-out when no session is open.
	ErrNoOpenSession = errors.New("cannot clock out, no existing clock-in record found")
)
