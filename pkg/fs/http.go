package fs

import (
	"context"
	"mime"
	"net/http"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// HTTP reads remote file sizes and media types with HEAD requests.
type HTTP struct {
	client    *http.Client
	userAgent string
}

func NewHTTP(client *http.Client, userAgent string) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTP{client: client, userAgent: userAgent}
}

// Size issues a HEAD request to url and returns its Content-Length.
// Redirects are followed by the client.
func (h *HTTP) Size(ctx context.Context, url string) (int64, error) {
	size, _, err := h.Head(ctx, url)
	return size, err
}

// Head issues a HEAD request to url and returns its Content-Length and media type.
// The media type is empty if the server did not send a Content-Type.
func (h *HTTP) Head(ctx context.Context, url string) (int64, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, "", errors.Wrap(err, "failed to create request")
	}

	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	log.WithField("url", url).Debug("sending HEAD request")
	resp, err := h.client.Do(req)
	if err != nil {
		return 0, "", errors.Wrap(err, "HEAD request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return 0, "", errors.Wrapf(os.ErrNotExist, "server responded with %s", resp.Status)
	case resp.StatusCode >= 300:
		return 0, "", errors.Errorf("server responded with %s", resp.Status)
	}

	if resp.ContentLength < 0 {
		return 0, "", errors.New("server did not report Content-Length")
	}

	var mediaType string
	if header := resp.Header.Get("Content-Type"); header != "" {
		mediaType, _, err = mime.ParseMediaType(header)
		if err != nil {
			return 0, "", errors.Wrapf(err, "invalid Content-Type %q", header)
		}
	}

	return resp.ContentLength, mediaType, nil
}
