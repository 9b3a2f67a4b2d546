package shared

import "fmt"

var (
	// Authentication
	ErrSignInRequired = fmt.Errorf("sign in required")
	ErrAuthFailed     = fmt.Errorf("authentication failed")
	ErrSessionExpired = fmt.Errorf("session expired")

	// User-initiated aborts. Operations gated on a prompt finish silently
	// when the user declines; this sentinel never reaches the user as an
	// error message.
	ErrConfirmationDeclined = fmt.Errorf("confirmation declined")

	// Remote store
	ErrConstraint   = fmt.Errorf("already present or rejected by the server")
	ErrNotFound     = fmt.Errorf("not found")
	ErrTransport    = fmt.Errorf("request failed")
	ErrRemoteStatus = fmt.Errorf("unexpected response status")
	ErrTimeout      = fmt.Errorf("operation timed out")

	// Input validation
	ErrInvalidInput   = fmt.Errorf("invalid input")
	ErrMissingConfig  = fmt.Errorf("configuration not found")
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
	ErrOwnerOnly      = fmt.Errorf("only the owner may modify this")
	ErrNothingPlaying = fmt.Errorf("nothing is playing")
)
