//go:generate mockgen -source=deps.go -destination=deps_mock_test.go -package=enclosure

package enclosure

import (
	"context"
)

type sizer interface {
	Size(ctx context.Context, name string) (int64, error)
}

// mediaSource also reports the media type along with the size
type mediaSource interface {
	sizer
	Head(ctx context.Context, name string) (int64, string, error)
}
