package util

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LocalDateTime is the wire format for exam schedule timestamps. Clients may
// send ISO 8601 with an offset ("2025-08-06T09:00:00.000Z") or a bare local
// date-time ("2025-08-06T09:00:00"); both normalize to UTC internally.
type LocalDateTime struct {
	time.Time
}

const layout = "2006-01-02T15:04:05"

var ErrBadDateTime = errors.New("invalid date/time format, expected ISO 8601")

func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadDateTime
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(layout, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %s", ErrBadDateTime, s)
}

func (ldt *LocalDateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	ldt.Time = t
	return nil
}

func (ldt LocalDateTime) MarshalJSON() ([]byte, error) {
	if ldt.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + ldt.UTC().Format(layout) + `Z"`), nil
}

