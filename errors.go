package gotrue

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	// ErrorCodeValidationFailed is used for client-side validation failures
	// detected before any network call is made.
	ErrorCodeValidationFailed = "validation_failed"

	// ErrorCodeSessionMissing indicates that no usable session, access token
	// or refresh token is available for the requested operation.
	ErrorCodeSessionMissing = "session_missing"

	// ErrorCodeUnknown is used when the server returned an error body the
	// client could not map to a more specific code.
	ErrorCodeUnknown = "unknown"
)

// ============================================================================
// Error - classified auth error
// ============================================================================

// Error represents an error classified as belonging to the auth domain:
// either a client-side validation failure or an error response returned by
// the GoTrue server. Anything that is not an *Error (transport faults,
// malformed response bodies) is unclassified and should be handled as an
// unexpected failure by the caller.
type Error struct {
	// Status is the HTTP status code of the response, or 0 for errors
	// raised before any network call.
	Status int `json:"-"`

	// Code is the GoTrue error code (e.g. "validation_failed", "otp_expired")
	Code string `json:"error_code"`

	// Message is a human-readable description of the error
	Message string `json:"msg"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("gotrue: %s: %s", e.Code, e.Message)
}

// SessionMissingError reports that the client has no current session (or no
// refresh token) to satisfy an operation that requires one.
type SessionMissingError struct{}

// Error implements the error interface.
func (e *SessionMissingError) Error() string {
	return "gotrue: session missing: no current session or refresh token available"
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrMissingCredentials is returned when neither an email address nor a
	// phone number is present on a credentials value.
	ErrMissingCredentials = &Error{
		Code:    ErrorCodeValidationFailed,
		Message: "you must provide either an email or phone number",
	}

	// ErrMissingPassword is returned when a password-based operation is
	// attempted without a password.
	ErrMissingPassword = &Error{
		Code:    ErrorCodeValidationFailed,
		Message: "you must provide a password",
	}

	// ErrMissingToken is returned when an operation requires an explicit
	// access token and none was supplied.
	ErrMissingToken = &Error{
		Code:    ErrorCodeValidationFailed,
		Message: "you must provide an access token",
	}
)

// NewValidationError creates a client-side validation *Error with the given
// message. No network call has been made when one of these is returned.
func NewValidationError(format string, args ...any) *Error {
	return &Error{
		Code:    ErrorCodeValidationFailed,
		Message: fmt.Sprintf(format, args...),
	}
}

// ============================================================================
// Classification Helpers
// ============================================================================

// IsAuthError reports whether err is classified as an auth-domain error:
// an *Error or a *SessionMissingError anywhere in its chain. Errors for
// which this returns false are unexpected faults (network, decoding) and
// should be propagated rather than treated as a normal auth outcome.
func IsAuthError(err error) bool {
	var authErr *Error
	if errors.As(err, &authErr) {
		return true
	}
	var missing *SessionMissingError
	return errors.As(err, &missing)
}

// IsSessionMissing reports whether err indicates an absent session or
// refresh token.
func IsSessionMissing(err error) bool {
	var missing *SessionMissingError
	return errors.As(err, &missing)
}

// ============================================================================
// Error Parsing
// ============================================================================

// parseErrorResponse turns a non-2xx GoTrue response body into a typed
// *Error. GoTrue has used a few different error shapes over its lifetime,
// so each known shape is tried in turn before falling back to a generic
// error built from the status code.
func parseErrorResponse(status int, body []byte) error {
	// Modern shape: {"code":400,"error_code":"...","msg":"..."}
	var errResp struct {
		ErrorCode string `json:"error_code"`
		Msg       string `json:"msg"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.ErrorCode != "" {
		return &Error{Status: status, Code: errResp.ErrorCode, Message: errResp.Msg}
	}

	// OAuth-style shape: {"error":"...","error_description":"..."}
	var oauthResp struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &oauthResp); err == nil && oauthResp.Error != "" {
		return &Error{Status: status, Code: oauthResp.Error, Message: oauthResp.ErrorDescription}
	}

	// Bare message shapes: {"msg":"..."} or {"message":"..."}
	var msgResp struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msgResp); err == nil {
		if msg := msgResp.Msg; msg != "" {
			return &Error{Status: status, Code: ErrorCodeUnknown, Message: msg}
		}
		if msg := msgResp.Message; msg != "" {
			return &Error{Status: status, Code: ErrorCodeUnknown, Message: msg}
		}
	}

	// Fallback: generic error from status code
	return &Error{
		Status:  status,
		Code:    ErrorCodeUnknown,
		Message: fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status)),
	}
}
