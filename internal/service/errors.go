package service

import "errors"

// ValidationError is a client error: missing or malformed fields, an invalid
// enum value, or an empty update body. The message names the violated
// constraint and is returned verbatim with a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(msg string) error {
	return &ValidationError{Message: msg}
}

var (
	// ErrInvalidCredentials is returned on a failed login. Unknown email and
	// wrong password are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("Invalid email or password")

	// ErrUnauthenticated covers every bearer-token failure with one uniform
	// message, regardless of cause.
	ErrUnauthenticated = errors.New("Could not validate credentials")

	// ErrForbidden is returned when the token resolves to a valid but
	// deactivated admin, a distinct outcome from not being authenticated.
	ErrForbidden = errors.New("Admin account is inactive")
)
