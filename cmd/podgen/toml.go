package main

import (
	"time"

	"github.com/pkg/errors"

	"github.com/mxpv/podgen/pkg/model"
)

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	res, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	*d = Duration{res}
	return nil
}

// StringSlice is a toml extension that lets you to specify either a string
// value (a slice with just one element) or a string slice.
type StringSlice []string

func (s *StringSlice) UnmarshalTOML(v interface{}) error {
	switch value := v.(type) {
	case string:
		*s = []string{value}
		return nil
	case []interface{}:
		out := make([]string, 0, len(value))
		for _, item := range value {
			str, ok := item.(string)
			if !ok {
				return errors.Errorf("expected a string, got %T", item)
			}
			out = append(out, str)
		}
		*s = out
		return nil
	}

	return errors.New("failed to decode string (slice) field")
}

// Size is a byte count given either as an integer or as a
// human-readable string like "52 MB".
type Size int64

func (s *Size) UnmarshalTOML(v interface{}) error {
	switch value := v.(type) {
	case int64:
		if value < 0 {
			return errors.Errorf("size can't be negative (got %d)", value)
		}
		*s = Size(value)
		return nil
	case string:
		n, err := model.ParseSize(value)
		if err != nil {
			return err
		}
		*s = Size(n)
		return nil
	}

	return errors.Errorf("failed to decode size from %T", v)
}

// MediaDuration is an episode running time given as seconds
// or as a string like "1:02:03" or "PT1H2M3S".
type MediaDuration struct {
	time.Duration
}

func (d *MediaDuration) UnmarshalTOML(v interface{}) error {
	switch value := v.(type) {
	case int64:
		d.Duration = time.Duration(value) * time.Second
		return nil
	case float64:
		d.Duration = time.Duration(value * float64(time.Second))
		return nil
	case string:
		res, err := model.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = res
		return nil
	}

	return errors.Errorf("failed to decode duration from %T", v)
}

// Local date-times carry these location names when decoded from TOML.
const (
	tomlLocalDatetime = "datetime-local"
	tomlLocalDate     = "date-local"
	tomlLocalTime     = "time-local"
)

// Date is a publication date given either as a TOML date-time or as a string.
// Values without a zone offset are kept as naive timestamps and rejected on validation.
type Date struct {
	model.Timestamp
}

func (d *Date) UnmarshalTOML(v interface{}) error {
	switch value := v.(type) {
	case string:
		ts, err := model.ParseTimestamp(value)
		if err != nil {
			return err
		}
		d.Timestamp = ts
		return nil

	case time.Time:
		switch value.Location().String() {
		case tomlLocalTime:
			return errors.New("a time without a date is not a valid publication date")
		case tomlLocalDatetime, tomlLocalDate:
			naive := time.Date(value.Year(), value.Month(), value.Day(),
				value.Hour(), value.Minute(), value.Second(), value.Nanosecond(), time.UTC)
			d.Timestamp = model.Timestamp{Time: naive, Naive: true}
		default:
			d.Timestamp = model.At(value)
		}
		return nil
	}

	return errors.Errorf("failed to decode date from %T", v)
}
