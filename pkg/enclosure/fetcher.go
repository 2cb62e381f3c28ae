// Package enclosure fills in enclosure sizes and media types by asking where the media is hosted.
// Fetching is always explicit: nothing in validation or serialization calls it.
package enclosure

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mxpv/podgen/pkg/fs"
	"github.com/mxpv/podgen/pkg/model"
)

// Fetcher looks up enclosure metadata.
// URLs under a mounted prefix are served from local or S3 storage, anything else
// over http and https uses HEAD requests.
type Fetcher struct {
	http        sizer
	mounts      []mount
	timeout     time.Duration
	concurrency int
	err         error
}

// mount maps public URLs starting with prefix to names in a storage
type mount struct {
	prefix *url.URL
	source sizer
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithHTTP sets the client and User-Agent used for HEAD requests
func WithHTTP(client *http.Client, userAgent string) Option {
	return func(f *Fetcher) {
		f.http = fs.NewHTTP(client, userAgent)
	}
}

// WithLocal serves URLs starting with prefix from a local directory.
// The rest of the URL path is the file name relative to the directory.
func WithLocal(prefix string, local fs.Sizer) Option {
	return func(f *Fetcher) {
		f.mount(prefix, local)
	}
}

// WithS3 serves URLs starting with prefix from an S3 bucket.
// The rest of the URL path is the object key (below the bucket prefix).
func WithS3(prefix string, s3 fs.Sizer) Option {
	return func(f *Fetcher) {
		f.mount(prefix, s3)
	}
}

// WithTimeout limits every single request
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithConcurrency limits the number of requests Populate runs at once
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		http:        fs.NewHTTP(&http.Client{}, model.DefaultUserAgent),
		timeout:     model.DefaultFetchTimeout,
		concurrency: model.DefaultConcurrency,
	}

	for _, fn := range opts {
		fn(f)
	}

	if f.err != nil {
		return nil, f.err
	}

	return f, nil
}

func (f *Fetcher) mount(prefix string, source sizer) {
	u, err := url.Parse(prefix)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		f.err = errors.Errorf("invalid URL prefix %q, expected an absolute http(s) URL", prefix)
		return
	}

	if source == nil {
		f.err = errors.Errorf("no storage for URL prefix %q", prefix)
		return
	}

	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	f.mounts = append(f.mounts, mount{prefix: u, source: source})
}

// Size returns the size in bytes of the media file at rawURL.
// Errors are *model.FetchError.
func (f *Fetcher) Size(ctx context.Context, rawURL string) (int64, error) {
	size, _, err := f.head(ctx, "", rawURL, false)
	return size, err
}

// Populate fills in enclosure lengths and missing media types of feed episodes.
// Episodes with a known length are skipped unless overwrite is set.
// A media type given by the caller is never replaced.
// The feed must not be modified until Populate returns.
func (f *Fetcher) Populate(ctx context.Context, feed *model.Feed, overwrite bool) error {
	if feed == nil {
		return nil
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(f.concurrency)

	for _, episode := range feed.Episodes {
		if episode == nil || episode.Enclosure.URL == "" {
			continue
		}

		needLength := episode.Enclosure.Length <= 0 || overwrite
		needType := episode.Enclosure.Type == ""
		if !needLength && !needType {
			continue
		}

		episode := episode
		group.Go(func() error {
			size, mediaType, err := f.head(ctx, episode.ID, episode.Enclosure.URL, needType)
			if err != nil {
				return err
			}

			if needLength {
				episode.Enclosure.Length = size
			}
			if needType {
				episode.Enclosure.Type = mediaType
			}
			return nil
		})
	}

	return group.Wait()
}

func (f *Fetcher) head(ctx context.Context, episodeID string, rawURL string, needType bool) (int64, string, error) {
	fail := func(err error) error {
		return &model.FetchError{EpisodeID: episodeID, URL: rawURL, Err: err}
	}

	source, name, err := f.resolve(rawURL)
	if err != nil {
		return 0, "", fail(err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var (
		size      int64
		mediaType string
	)

	typed, ok := source.(mediaSource)
	if ok {
		size, mediaType, err = typed.Head(ctx, name)
	} else {
		size, err = source.Size(ctx, name)
	}
	if err != nil {
		return 0, "", fail(err)
	}

	if size < 0 {
		return 0, "", fail(errors.Errorf("invalid size %d", size))
	}

	if needType && mediaType == "" {
		if ok {
			return 0, "", fail(errors.New("no media type reported"))
		}

		// Local files carry no metadata besides the extension
		if mediaType, err = model.TypeFromURL(rawURL); err != nil {
			return 0, "", fail(err)
		}
	}

	log.WithFields(log.Fields{
		"episode_id": episodeID,
		"url":        rawURL,
		"size":       size,
		"type":       mediaType,
	}).Debug("fetched enclosure metadata")

	return size, mediaType, nil
}

// resolve picks the storage with the longest matching prefix, or HTTP if none matches
func (f *Fetcher) resolve(rawURL string) (sizer, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to parse URL")
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, "", errors.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	var best *mount
	for idx := range f.mounts {
		m := &f.mounts[idx]
		if m.prefix.Scheme != scheme || !strings.EqualFold(m.prefix.Host, u.Host) {
			continue
		}
		if !strings.HasPrefix(u.Path, m.prefix.Path) {
			continue
		}
		if best == nil || len(m.prefix.Path) > len(best.prefix.Path) {
			best = m
		}
	}

	if best == nil {
		return f.http, rawURL, nil
	}

	name := strings.TrimPrefix(u.Path, best.prefix.Path)
	if name == "" {
		return nil, "", errors.Errorf("URL %q has no file name after prefix %q", rawURL, best.prefix)
	}

	return best.source, name, nil
}
