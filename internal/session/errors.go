package session

import "errors"

// Error taxonomy for the session protocol. Handlers map these to HTTP
// statuses; anything unlisted is treated as an internal error (500) and
// surfaced to the client as a generic message.
var (
	// ErrInvalidInput: user-correctable input shape problems (400).
	ErrInvalidInput = errors.New("session: invalid input")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password (401). The message is deliberately uniform so the
	// endpoint cannot be used to probe which emails are registered.
	ErrInvalidCredentials = errors.New("session: invalid email or password")

	// ErrInvalidAppToken: missing or unverifiable bootstrap token (401).
	ErrInvalidAppToken = errors.New("session: invalid app token")

	// ErrUnauthenticated: no verifiable auth or refresh token (401).
	ErrUnauthenticated = errors.New("session: not authenticated")

	// ErrEmailTaken: duplicate registration (409).
	ErrEmailTaken = errors.New("session: email already registered")

	// ErrTooManyAttempts: rate-limit threshold hit (429). No
	// retry-after precision on purpose.
	ErrTooManyAttempts = errors.New("session: too many attempts, try again later")
)
