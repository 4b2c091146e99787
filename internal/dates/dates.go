// Package dates implements arithmetic over YYYY-MM-DD date keys.
//
// All persisted dates in this application are plain calendar-day strings in
// this format, so lexicographic comparison of two keys is equivalent to
// chronological comparison. Arithmetic is done in whole calendar days,
// never elapsed wall-clock time, so DST transitions cannot shift a date.
package dates

import "time"

// Layout is the date-key format.
const Layout = "2006-01-02"

// Key formats a time as a date key in the time's own location.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the date key for the given clock reading.
func Today(now time.Time) string {
	return Key(now)
}

// Parse converts a date key to a time at midnight UTC. Malformed keys
// return the zero time.
func Parse(key string) time.Time {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Valid reports whether key is a well-formed date key.
func Valid(key string) bool {
	_, err := time.Parse(Layout, key)
	return err == nil
}

// AddDays returns the date key days calendar days after key. Negative
// values move backwards.
func AddDays(key string, days int) string {
	return Key(Parse(key).AddDate(0, 0, days))
}

// DaysBetween returns the number of calendar days from a to b. The result
// is negative when b is before a.
func DaysBetween(a, b string) int {
	return int(Parse(b).Sub(Parse(a)).Hours() / 24)
}

// Month returns the YYYY-MM prefix of a date key.
func Month(key string) string {
	if len(key) < 7 {
		return key
	}
	return key[:7]
}
