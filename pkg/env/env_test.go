package env

import "testing"

func TestGetPrefersPrefixedKey(t *testing.T) {
	t.Setenv("LOG_FORMAT", "console")
	if got := Get("LOG_FORMAT", "json"); got != "console" {
		t.Fatalf("expected bare key fallback, got %q", got)
	}

	t.Setenv("SWEETSHOP_LOG_FORMAT", "json")
	if got := Get("LOG_FORMAT", "text"); got != "json" {
		t.Fatalf("expected prefixed key to win, got %q", got)
	}
	if got := Get("SWEETSHOP_LOG_FORMAT", "text"); got != "json" {
		t.Fatalf("prefixed lookups should not double the prefix, got %q", got)
	}
}

func TestGetFallback(t *testing.T) {
	t.Setenv("SWEETSHOP_MISSING_KEY", "  ")
	if got := Get("MISSING_KEY", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
}
