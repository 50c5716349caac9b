package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"postgres_password", "hunter2", "slug", "cafe", "DSN", "postgres://x"})
	if len(out) != 6 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("password not redacted: %v", out[1])
	}
	if out[3] != "cafe" {
		t.Fatalf("slug altered: %v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Fatalf("dsn not redacted: %v", out[5])
	}
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"kind", "subject", "orphan"})
	if len(out) != 3 || out[2] != "orphan" {
		t.Fatalf("dangling key dropped: %v", out)
	}
}
