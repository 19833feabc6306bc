package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// TransientError is a failure the caller may retry: rate limits, server
// errors, network failures and timeouts.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("temporary API failure (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("temporary API failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// AuthError means the API key was rejected. It ends an interactive session.
type AuthError struct {
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// UploadError reports one attachment that could not be uploaded
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("could not upload %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// UnknownModelError is returned by SetModel for names outside the model list
type UnknownModelError struct {
	Name      string
	Available []string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model: %s. Available: %s", e.Name, strings.Join(e.Available, ", "))
}

// Classify maps an SDK or transport error onto the package's error types.
// Errors that fit no category, including context cancellation, are returned
// unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var transient *TransientError
	var auth *AuthError
	if errors.As(err, &transient) || errors.As(err, &auth) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Err: err}
	}

	if code, msg, ok := apiErrorDetails(err); ok {
		switch {
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return &AuthError{StatusCode: code, Err: err}
		case code == http.StatusBadRequest && isInvalidKeyMessage(msg):
			return &AuthError{StatusCode: code, Err: err}
		case code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
			return &TransientError{StatusCode: code, Err: err}
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &TransientError{Err: err}
	}

	return err
}

// apiErrorDetails extracts the HTTP code from a genai.APIError in either
// value or pointer form.
func apiErrorDetails(err error) (int, string, bool) {
	var valErr genai.APIError
	if errors.As(err, &valErr) {
		return valErr.Code, valErr.Message, true
	}
	var ptrErr *genai.APIError
	if errors.As(err, &ptrErr) && ptrErr != nil {
		return ptrErr.Code, ptrErr.Message, true
	}
	return 0, "", false
}

func isInvalidKeyMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "api key not valid") || strings.Contains(lower, "api_key_invalid")
}

// IsTransient reports whether err is worth retrying
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(Classify(err), &transient)
}

// IsAuth reports whether err means the API key was rejected
func IsAuth(err error) bool {
	var auth *AuthError
	return errors.As(Classify(err), &auth)
}
