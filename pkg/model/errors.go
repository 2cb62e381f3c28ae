package model

import (
	"errors"
	"fmt"
)

var (
	ErrMissingRequiredField     = errors.New("missing required field")
	ErrInvalidFieldFormat       = errors.New("invalid field format")
	ErrInvalidEpisodeIdentifier = errors.New("invalid episode identifier")
	ErrEnclosureSizeFetch       = errors.New("failed to fetch enclosure size")
)

// FieldError describes a validation failure of a single field.
// Kind is one of ErrMissingRequiredField, ErrInvalidFieldFormat or ErrInvalidEpisodeIdentifier.
type FieldError struct {
	Kind error
	// Entity is the owner of the field, e.g. `feed` or `episode "ep1"`
	Entity string
	Field  string
	// Expected describes the required format
	Expected string
}

func (e *FieldError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s: %s %q (expected %s)", e.Kind, e.Entity, e.Field, e.Expected)
	}

	return fmt.Sprintf("%s: %s %q", e.Kind, e.Entity, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// FetchError is returned when the size of an enclosure could not be fetched
type FetchError struct {
	EpisodeID string
	URL       string
	Err       error
}

func (e *FetchError) Error() string {
	if e.EpisodeID == "" {
		return fmt.Sprintf("%s %s: %v", ErrEnclosureSizeFetch, e.URL, e.Err)
	}

	return fmt.Sprintf("%s for episode %q (%s): %v", ErrEnclosureSizeFetch, e.EpisodeID, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrEnclosureSizeFetch
}
