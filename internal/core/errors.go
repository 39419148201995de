package core

// Error codes attached to client-visible error notices.
const (
	ErrCodeNotLoggedIn        = "not_logged_in"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeUnexpected         = "unexpected_error"
	ErrCodePeerNotFound       = "peer_not_found"
	ErrCodeBadRequest         = "bad_request"
	ErrCodeNotInRoom          = "not_in_room"
)

// CoreError wraps a code and a short human-readable message. Only the message
// is ever shown to clients; internal detail stays in the server log.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
