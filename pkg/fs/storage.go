package fs

import (
	"context"
	"io"
)

// Sizer reports the size in bytes of a media file.
// Missing files are reported with an error matching os.ErrNotExist.
type Sizer interface {
	Size(ctx context.Context, name string) (int64, error)
}

// Storage is a file system to write generated feeds to.
type Storage interface {
	Sizer

	// Create will create a new file from reader, replacing an existing one
	Create(ctx context.Context, name string, reader io.Reader) (int64, error)

	// Path returns where a file name is stored
	Path(name string) (string, error)
}
