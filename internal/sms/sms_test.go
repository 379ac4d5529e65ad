package sms

import (
	"strings"
	"testing"
	"time"
)

func TestValidPhone(t *testing.T) {
	valid := []string{"+12065551234", "+19995550000"}
	for _, p := range valid {
		if !ValidPhone(p) {
			t.Fatalf("expected %q to be valid", p)
		}
	}
	invalid := []string{
		"",
		"2065551234",     // no country code
		"+1206555123",    // too short
		"+120655512345",  // too long
		"+442071234567",  // not US
		"+11065551234",   // area code cannot start with 1
		"+1206555123a",   // non-digit
	}
	for _, p := range invalid {
		if ValidPhone(p) {
			t.Fatalf("expected %q to be invalid", p)
		}
	}
}

func TestWithinSendWindow(t *testing.T) {
	cases := []struct {
		hour int
		want bool
	}{
		{13, true},  // 8am EST
		{20, true},  // afternoon everywhere
		{23, true},
		{0, true},  // 4pm PST
		{3, true},  // 7pm PST
		{4, false}, // 8pm PST, window closed
		{8, false},
		{12, false}, // 7am EST, too early
	}
	for _, tc := range cases {
		at := time.Date(2026, 3, 15, tc.hour, 30, 0, 0, time.UTC)
		if got := WithinSendWindow(at); got != tc.want {
			t.Fatalf("WithinSendWindow(hour=%d) = %v, want %v", tc.hour, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	short := "pick up your docs"
	if got := Truncate(short, SingleLimit); got != short {
		t.Fatalf("short message must pass through, got %q", got)
	}
	long := strings.Repeat("a", 200)
	got := Truncate(long, SingleLimit)
	if len(got) != SingleLimit {
		t.Fatalf("expected truncation to %d chars, got %d", SingleLimit, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got[len(got)-5:])
	}
}

func TestUploadLinkMessage(t *testing.T) {
	got := UploadLinkMessage("John", "https://short.url/abc", 30)
	want := "Hi John, upload your tax docs: https://short.url/abc (valid 30d). Reply STOP to opt out."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReminderMessagePlural(t *testing.T) {
	one := ReminderMessage("Ann", 1, "https://x")
	if !strings.Contains(one, "1 tax document from") {
		t.Fatalf("expected singular form, got %q", one)
	}
	many := ReminderMessage("Ann", 3, "https://x")
	if !strings.Contains(many, "3 tax documents from") {
		t.Fatalf("expected plural form, got %q", many)
	}
}
