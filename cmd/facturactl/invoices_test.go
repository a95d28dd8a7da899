package main

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("short string changed: %q", got)
	}

	got := truncate("Instalación eléctrica del almacén", 12)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 12 {
		t.Fatalf("rune length = %d, want 12", n)
	}
}
