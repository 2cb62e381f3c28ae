package feed

import (
	"github.com/mxpv/podgen/pkg/model"
)

// Config is an immutable set of serializer options
type Config struct {
	// Generator is written to <generator>, omitted when empty
	Generator string
	// Indent is a per level indentation of the output, no indentation when empty
	Indent string
	// Sort optionally orders items by publication date.
	// Episodes keep insertion order by default.
	Sort model.Sorting
}

// DefaultConfig returns the options used by the podgen CLI unless overridden
func DefaultConfig() Config {
	return Config{
		Generator: model.DefaultGenerator,
		Indent:    model.DefaultIndent,
		Sort:      model.SortingNone,
	}
}
