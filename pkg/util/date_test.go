package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2026-03-02")
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDate(got) != "2026-03-02" {
		t.Fatalf("unexpected date %v", got)
	}

	got, ok = ParseDate("2026-03-02T09:30:00Z")
	if !ok {
		t.Fatalf("expected RFC3339 fallback")
	}
	if FormatDate(got) != "2026-03-02" {
		t.Fatalf("unexpected date %v", got)
	}

	if _, ok := ParseDate("not a date"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hello" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("short", 100); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("pad   ", 4); got != "pad" {
		t.Fatalf("got %q", got)
	}
}
