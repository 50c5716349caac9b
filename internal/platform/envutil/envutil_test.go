package envutil

import "testing"

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("FRAYER_TEST_INT", "abc")
	if got := Int("FRAYER_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("got %d want 7", got)
	}
	t.Setenv("FRAYER_TEST_INT", " 42 ")
	if got := Int("FRAYER_TEST_INT", 7, nil); got != 42 {
		t.Fatalf("got %d want 42", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("FRAYER_TEST_BOOL", "On")
	if !Bool("FRAYER_TEST_BOOL", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("FRAYER_TEST_BOOL", "maybe")
	if Bool("FRAYER_TEST_BOOL", false) {
		t.Fatalf("expected default false")
	}
}

func TestStringTrimsAndDefaults(t *testing.T) {
	t.Setenv("FRAYER_TEST_STR", "   ")
	if got := String("FRAYER_TEST_STR", "def", nil); got != "def" {
		t.Fatalf("got %q want def", got)
	}
	t.Setenv("FRAYER_TEST_STR", " sqlite ")
	if got := String("FRAYER_TEST_STR", "def", nil); got != "sqlite" {
		t.Fatalf("got %q want sqlite", got)
	}
}
