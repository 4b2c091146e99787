package dates

import (
	"testing"
	"time"
)

func TestKeyAndParseRoundTrip(t *testing.T) {
	key := "2024-03-09"
	if got := Key(Parse(key)); got != key {
		t.Errorf("round trip = %q, want %q", got, key)
	}
}

func TestAddDays(t *testing.T) {
	cases := []struct {
		key  string
		days int
		want string
	}{
		{"2024-01-31", 1, "2024-02-01"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-01-01", -1, "2023-12-31"},
		{"2024-01-01", 0, "2024-01-01"},
	}
	for _, tc := range cases {
		if got := AddDays(tc.key, tc.days); got != tc.want {
			t.Errorf("AddDays(%q, %d) = %q, want %q", tc.key, tc.days, got, tc.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"2024-01-01", "2024-01-10", 9},
		{"2024-01-10", "2024-01-01", -9},
		{"2024-01-01", "2024-01-01", 0},
		{"2024-02-28", "2024-03-01", 2},
	}
	for _, tc := range cases {
		if got := DaysBetween(tc.a, tc.b); got != tc.want {
			t.Errorf("DaysBetween(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2024, 5, 6, 23, 59, 0, 0, time.UTC)
	if got := Today(now); got != "2024-05-06" {
		t.Errorf("Today = %q, want 2024-05-06", got)
	}
}

func TestValid(t *testing.T) {
	if !Valid("2024-01-02") {
		t.Error("Valid(2024-01-02) = false")
	}
	for _, bad := range []string{"", "2024-1-2", "yesterday", "2024-13-01"} {
		if Valid(bad) {
			t.Errorf("Valid(%q) = true", bad)
		}
	}
}

func TestMonth(t *testing.T) {
	if got := Month("2024-01-31"); got != "2024-01" {
		t.Errorf("Month = %q, want 2024-01", got)
	}
}
