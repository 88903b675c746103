package logger

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSafeHeaders_RedactsSensitiveValues(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/capsules/1", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	req.Header.Set("X-API-Key", "key123")
	req.Header.Set("X-User-Signature", "abcdef")
	req.Header.Set("X-User-ID", "alice")

	got := SafeHeaders(req)
	for _, secret := range []string{"topsecret", "key123", "abcdef"} {
		if strings.Contains(got, secret) {
			t.Fatalf("sensitive value %q leaked: %s", secret, got)
		}
	}
	if !strings.Contains(got, "alice") {
		t.Fatalf("non-sensitive header dropped: %s", got)
	}
	if !strings.Contains(got, "<redacted>") {
		t.Fatalf("expected redaction marker: %s", got)
	}
}
