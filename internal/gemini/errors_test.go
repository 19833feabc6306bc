package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantTransient bool
		wantAuth      bool
	}{
		{"nil", nil, false, false},
		{"rate limited", genai.APIError{Code: 429}, true, false},
		{"server error", genai.APIError{Code: 500}, true, false},
		{"unavailable pointer", &genai.APIError{Code: 503}, true, false},
		{"unauthorized", genai.APIError{Code: 401}, false, true},
		{"forbidden", genai.APIError{Code: 403}, false, true},
		{"invalid key", genai.APIError{Code: 400, Message: "API key not valid. Please pass a valid API key."}, false, true},
		{"bad request", genai.APIError{Code: 400, Message: "invalid argument"}, false, false},
		{"not found", genai.APIError{Code: 404}, false, false},
		{"wrapped", fmt.Errorf("send: %w", genai.APIError{Code: 502}), true, false},
		{"deadline", context.DeadlineExceeded, true, false},
		{"cancelled", context.Canceled, false, false},
		{"network", &net.OpError{Op: "dial", Err: timeoutErr{}}, true, false},
		{"plain", errors.New("other"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTransient, IsTransient(tt.err), "IsTransient")
			assert.Equal(t, tt.wantAuth, IsAuth(tt.err), "IsAuth")
		})
	}
}

func TestClassify_PreservesCause(t *testing.T) {
	cause := genai.APIError{Code: 429, Message: "quota"}
	err := Classify(cause)

	var apiErr genai.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "quota", apiErr.Message)

	assert.Same(t, err, Classify(err).(*TransientError), "already classified errors pass through")
}

func TestClassify_CancelledIsUnchanged(t *testing.T) {
	assert.Equal(t, context.Canceled, Classify(context.Canceled))
}
