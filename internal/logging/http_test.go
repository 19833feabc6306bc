package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestIsSensitiveHeader(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"Authorization", true},
		{"authorization", true},
		{"Api-Key", true},
		{"X-API-KEY", true},
		{"X-Goog-Api-Key", true},
		{"Cookie", true},
		{"Content-Type", false},
		{"Accept", false},
		{"User-Agent", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := isSensitiveHeader(tt.header); got != tt.want {
				t.Errorf("isSensitiveHeader(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestRedactURL(t *testing.T) {
	u, _ := url.Parse("https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-pro:generateContent?key=AIzaSecret&alt=sse")
	got := redactURL(u)

	if strings.Contains(got, "AIzaSecret") {
		t.Errorf("redactURL() leaked key: %s", got)
	}
	if !strings.Contains(got, "alt=sse") {
		t.Errorf("redactURL() dropped other params: %s", got)
	}

	plain, _ := url.Parse("https://example.com/path?x=1")
	if got := redactURL(plain); got != "https://example.com/path?x=1" {
		t.Errorf("redactURL() = %q, want unchanged", got)
	}
	if got := redactURL(nil); got != "" {
		t.Errorf("redactURL(nil) = %q", got)
	}
}

func TestTruncateBody(t *testing.T) {
	tests := []struct {
		name    string
		body    []byte
		maxSize int
		wantEnd string
	}{
		{
			name:    "small body",
			body:    []byte("hello"),
			maxSize: 100,
			wantEnd: "hello",
		},
		{
			name:    "large body",
			body:    []byte(strings.Repeat("a", 200)),
			maxSize: 50,
			wantEnd: "...[truncated]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateBody(tt.body, tt.maxSize)
			if !strings.HasSuffix(got, tt.wantEnd) {
				t.Errorf("truncateBody() should end with %q", tt.wantEnd)
			}
		})
	}
}

func TestRedactSensitiveFields(t *testing.T) {
	input := map[string]interface{}{
		"username": "john",
		"password": "secret123",
		"api_key":  "key123",
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": float64(8192),
		},
		"data": map[string]interface{}{
			"token":         "token123",
			"refresh_token": "r123",
			"message":       "hello",
		},
	}

	result := redactSensitiveFields(input).(map[string]interface{})

	if result["username"] != "john" {
		t.Error("username should not be redacted")
	}
	if result["password"] != "[REDACTED]" {
		t.Error("password should be redacted")
	}
	if result["api_key"] != "[REDACTED]" {
		t.Error("api_key should be redacted")
	}

	gen := result["generationConfig"].(map[string]interface{})
	if gen["maxOutputTokens"] != float64(8192) {
		t.Error("maxOutputTokens should not be redacted")
	}

	nested := result["data"].(map[string]interface{})
	if nested["token"] != "[REDACTED]" {
		t.Error("nested token should be redacted")
	}
	if nested["refresh_token"] != "[REDACTED]" {
		t.Error("nested refresh_token should be redacted")
	}
	if nested["message"] != "hello" {
		t.Error("nested message should not be redacted")
	}
}

func TestRoundTripper_LogsAndPreservesBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"echo":` + string(body) + `}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	client := NewDebugHTTPClient(logger, &http.Client{Timeout: 5 * time.Second})

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1beta/models?key=secret", strings.NewReader(`{"n":1}`))
	req.Header.Set("X-Goog-Api-Key", "secret")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Body.Close()

	got, _ := io.ReadAll(resp.Body)
	if string(got) != `{"echo":{"n":1}}` {
		t.Errorf("response body = %q", got)
	}

	out := buf.String()
	if strings.Contains(out, "secret") {
		t.Errorf("log output leaked credentials: %s", out)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected request and response lines, got %d", len(lines))
	}
	var entry logEntry
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Message != "HTTP Response" {
		t.Errorf("Message = %q", entry.Message)
	}
	if entry.Fields["status"] != float64(200) {
		t.Errorf("status = %v", entry.Fields["status"])
	}
}

func TestNewDebugHTTPClient_KeepsBaseTransport(t *testing.T) {
	base := &http.Client{Timeout: 3 * time.Second, Transport: &http.Transport{ResponseHeaderTimeout: time.Second}}
	client := NewDebugHTTPClient(New(Options{Level: LevelNone}), base)

	if client == base {
		t.Fatal("base client should not be modified")
	}
	if client.Timeout != base.Timeout {
		t.Errorf("Timeout = %v, want %v", client.Timeout, base.Timeout)
	}
	rt, ok := client.Transport.(*RoundTripperWrapper)
	if !ok {
		t.Fatalf("Transport = %T, want *RoundTripperWrapper", client.Transport)
	}
	if rt.wrapped != base.Transport {
		t.Error("logging transport should wrap the base transport")
	}
}
