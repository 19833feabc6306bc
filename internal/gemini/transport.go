package gemini

import (
	"net/http"
	"time"
)

// NewHTTPClient returns a client for the Gemini API. timeout bounds the
// wait for response headers only. A streamed reply may take longer than
// timeout to arrive in full, and uploads carry their own deadline.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	return &http.Client{Transport: transport}
}
