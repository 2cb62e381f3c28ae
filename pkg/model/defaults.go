package model

import (
	"time"
)

const (
	DefaultGenerator    = "podgen (https://github.com/mxpv/podgen)"
	DefaultUserAgent    = "podgen"
	DefaultFetchTimeout = 5 * time.Second
	DefaultConcurrency  = 4
	DefaultIndent       = "  "

	DefaultLogMaxSize    = 50 // megabytes
	DefaultLogMaxAge     = 30 // days
	DefaultLogMaxBackups = 7
)
