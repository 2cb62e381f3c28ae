package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Timestamp is a publication instant.
// A naive timestamp carries no zone offset and is rejected by validation.
type Timestamp struct {
	time.Time
	Naive bool
}

// At wraps a timezone-aware instant
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		time.RFC1123Z,
		time.RFC822Z,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"2006-01-02 15:04:05.999999999 -0700 MST", // time.Time.String()
		"2006-01-02T15:04:05-0700",
	}
	// Layouts where the zone is given by abbreviation only
	abbrevLayouts = []string{
		time.RFC1123,
		"Mon, 2 Jan 2006 15:04:05 MST",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02",
	}
)

// ParseTimestamp parses a timestamp string.
// Values without a zone offset are returned as naive timestamps.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return At(t), nil
		}
	}

	for _, layout := range abbrevLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return fromAbbrev(t), nil
		}
	}

	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t, Naive: true}, nil
		}
	}

	return Timestamp{}, errors.Errorf("unsupported timestamp format %q", s)
}

// fromAbbrev handles a time parsed from a zone abbreviation.
// time.Parse resolves an abbreviation only against the local zone, and
// otherwise invents a zero-offset zone with that name. Such values keep
// their wall clock but are marked naive.
func fromAbbrev(t time.Time) Timestamp {
	name, offset := t.Zone()
	if offset != 0 {
		return At(t)
	}

	switch name {
	case "UTC", "GMT":
		return At(t.UTC())
	}

	naive := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return Timestamp{Time: naive, Naive: true}
}

func (t Timestamp) MarshalText() ([]byte, error) {
	if t.IsZero() {
		return []byte{}, nil
	}

	if t.Naive {
		return []byte(t.Time.Format(naiveLayouts[0])), nil
	}

	return []byte(t.Time.Format(time.RFC3339Nano)), nil
}

func (t *Timestamp) UnmarshalText(text []byte) error {
	ts, err := ParseTimestamp(string(text))
	if err != nil {
		return err
	}

	*t = ts
	return nil
}

// MarshalJSON shadows the method promoted from time.Time, which would drop the naive flag.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	text, err := t.MarshalText()
	if err != nil {
		return nil, err
	}

	return json.Marshal(string(text))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "timestamp must be a string")
	}

	return t.UnmarshalText([]byte(s))
}
