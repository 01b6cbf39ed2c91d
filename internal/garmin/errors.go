package garmin

import "fmt"

// TransportError is returned for any HTTP status other than 200 or 204.
type TransportError struct {
	Status int
	URL    string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("garmin: unexpected status %d for %s", e.Status, e.URL)
}

// AuthenticationError is returned when the SSO handshake fails. Garmin's SSO
// frontend answers bad credentials with HTTP 200 and an error page, so the
// missing ticket in the response body is the only failure signal available.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return "garmin: authentication failed: " + e.Reason
}

// DecodeError is returned when a response body is not valid JSON where JSON
// is expected.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("garmin: decoding response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
