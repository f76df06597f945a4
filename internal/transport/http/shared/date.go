package shared

import "time"

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar date at
// UTC midnight. A timestamp keeps the date it names in its own offset, so
// "2024-06-30T23:30:00-06:00" is 30 June.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		var tsErr error
		if parsed, tsErr = time.Parse(time.RFC3339, value); tsErr != nil {
			return time.Time{}, err
		}
	}
	y, m, d := parsed.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
