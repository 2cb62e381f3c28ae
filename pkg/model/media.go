package model

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/BrianHicks/finch/duration"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// Media types supported by Apple Podcasts, keyed by file extension
var mediaTypes = map[string]string{
	"m4a":  "audio/x-m4a",
	"mp3":  "audio/mpeg",
	"mov":  "video/quicktime",
	"mp4":  "video/mp4",
	"m4v":  "video/x-m4v",
	"pdf":  "application/pdf",
	"epub": "document/x-epub",
}

// TypeFromURL detects the enclosure MIME type by the URL file extension
func TypeFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse URL %q", rawURL)
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
	mimeType, ok := mediaTypes[ext]
	if !ok {
		return "", &FieldError{
			Kind:     ErrInvalidFieldFormat,
			Entity:   "enclosure",
			Field:    "type",
			Expected: fmt.Sprintf("a known media extension, got %q", ext),
		}
	}

	return mimeType, nil
}

// ParseSize parses a byte count, either plain ("1000") or with SI/IEC units ("52 MB", "1.5 GiB")
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, errors.Errorf("size can't be negative (got %d)", n)
		}
		return n, nil
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse size %q", s)
	}

	return int64(n), nil
}

// ParseDuration accepts HH:MM:SS, MM:SS, plain seconds or ISO 8601 (PT1H2M3S)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if strings.HasPrefix(s, "P") {
		d, err := duration.FromString(s)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to parse ISO 8601 duration %q", s)
		}
		return d.ToDuration(), nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, errors.Errorf("invalid duration format %q", s)
	}

	var total float64
	for _, part := range parts {
		value, err := strconv.ParseFloat(part, 64)
		if err != nil || value < 0 {
			return 0, errors.Errorf("invalid duration format %q", s)
		}
		total = total*60 + value
	}

	return time.Duration(total * float64(time.Second)), nil
}

// FormatDuration renders itunes:duration as H:MM:SS, or M:SS for episodes shorter than an hour
func FormatDuration(d time.Duration) string {
	seconds := int64(d / time.Second)
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}

	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
