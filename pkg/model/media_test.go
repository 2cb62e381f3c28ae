package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeFromURL(t *testing.T) {
	tests := map[string]string{
		"https://example.com/ep1.mp3":           "audio/mpeg",
		"https://example.com/ep1.M4A?token=123": "audio/x-m4a",
		"https://example.com/video/ep1.mp4":     "video/mp4",
		"http://example.com/book.epub":          "document/x-epub",
	}

	for in, expected := range tests {
		actual, err := TypeFromURL(in)
		assert.NoError(t, err, in)
		assert.Equal(t, expected, actual, in)
	}

	_, err := TypeFromURL("https://example.com/ep1.ogg")
	assert.True(t, errors.Is(err, ErrInvalidFieldFormat))
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":        0,
		"1000":    1000,
		"52 MB":   52000000,
		"1 KiB":   1024,
		"1.5 GiB": 1610612736,
	}

	for in, expected := range tests {
		actual, err := ParseSize(in)
		require.NoError(t, err, in)
		assert.EqualValues(t, expected, actual, in)
	}

	_, err := ParseSize("-1")
	assert.Error(t, err)

	_, err = ParseSize("12 parsecs")
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	tests := map[string]time.Duration{
		"":         0,
		"90":       90 * time.Second,
		"3:05":     3*time.Minute + 5*time.Second,
		"01:02:03": time.Hour + 2*time.Minute + 3*time.Second,
		"PT1H2M3S": time.Hour + 2*time.Minute + 3*time.Second,
	}

	for in, expected := range tests {
		actual, err := ParseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, actual, in)
	}

	_, err := ParseDuration("1:2:3:4")
	assert.Error(t, err)

	_, err = ParseDuration("ten minutes")
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", FormatDuration(0))
	assert.Equal(t, "3:05", FormatDuration(3*time.Minute+5*time.Second))
	assert.Equal(t, "1:02:03", FormatDuration(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "25:00:00", FormatDuration(25*time.Hour))
}
