package main

import (
	"net/url"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/mxpv/podgen/pkg/feed"
	"github.com/mxpv/podgen/pkg/fs"
	"github.com/mxpv/podgen/pkg/model"
)

var feedIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

type Config struct {
	// Output is where and how XML files are written
	Output Output `toml:"output"`
	// Fetch configures enclosure size lookups (--fetch-sizes)
	Fetch Fetch `toml:"fetch"`
	// Log is the optional logging configuration
	Log Log `toml:"log"`
	// Feeds to generate.
	// ID is used as the file name: {Output.Dir}/{FEED_ID}.xml
	Feeds map[string]*Feed `toml:"feeds"`
}

type Output struct {
	// Dir is a directory to write XML files to, defaults to the config file directory
	Dir string `toml:"dir"`
	// Generator is the value of the <generator> element
	Generator string `toml:"generator"`
	// Indent is the indentation of nested elements, empty string produces compact XML
	Indent *string `toml:"indent"`
	// Sort is the episode order, "asc" or "desc" by publication date. Insertion order by default
	Sort model.Sorting `toml:"sort"`
}

type Fetch struct {
	// Timeout is the limit of each single request
	Timeout Duration `toml:"timeout"`
	// Concurrency is the number of requests to run at once
	Concurrency int `toml:"concurrency"`
	// UserAgent is sent with HEAD requests
	UserAgent string `toml:"user_agent"`
	// LocalRoot is a directory the files under LocalPrefix are served from
	LocalRoot string `toml:"local_root"`
	// LocalPrefix is the public URL of LocalRoot, e.g. "https://example.com/media/"
	LocalPrefix string `toml:"local_prefix"`
	// Overwrite replaces sizes that are already known
	Overwrite bool `toml:"overwrite"`
	// S3 looks up enclosure URLs under S3.URLPrefix in a bucket
	S3 *fs.S3Config `toml:"s3"`
}

type Log struct {
	// Filename to write the log to (instead of stdout)
	Filename string `toml:"filename"`
	// MaxSize is the maximum size of the log file in MB
	MaxSize int `toml:"max_size"`
	// MaxBackups is the maximum number of log file backups to keep after rotation
	MaxBackups int `toml:"max_backups"`
	// MaxAge is the maximum number of days to keep the logs for
	MaxAge int `toml:"max_age"`
	// Compress old backups
	Compress bool `toml:"compress"`
}

// Person is an RSS author of an episode
type Person struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

type Category struct {
	Name          string      `toml:"name"`
	Subcategories StringSlice `toml:"subcategories"`
}

// Feed is a podcast description
type Feed struct {
	ID            string            `toml:"-"`
	Title         string            `toml:"title"`
	Description   string            `toml:"description"`
	Link          string            `toml:"link"`
	Language      string            `toml:"language"`
	Subtitle      string            `toml:"subtitle"`
	Summary       string            `toml:"summary"`
	Author        string            `toml:"author"`
	OwnerName     string            `toml:"owner_name"`
	OwnerEmail    string            `toml:"owner_email"`
	Categories    []Category        `toml:"categories"`
	Keywords      StringSlice       `toml:"keywords"`
	Explicit      model.Explicit    `toml:"explicit"`
	Image         string            `toml:"image"`
	Copyright     string            `toml:"copyright"`
	PubDate       Date              `toml:"pub_date"`
	LastBuildDate Date              `toml:"last_build_date"`
	FeedURL       string            `toml:"feed_url"`
	NewFeedURL    string            `toml:"new_feed_url"`
	Type          model.PodcastType `toml:"type"`
	Block         bool              `toml:"block"`
	Complete      bool              `toml:"complete"`
	// Sort overrides the output episode order for this feed
	Sort model.Sorting `toml:"sort"`
	// Hooks are commands to run after the feed has been written
	Hooks    []*feed.ExecHook `toml:"hooks"`
	Episodes []*Episode       `toml:"episodes"`
}

type Episode struct {
	// ID is the episode GUID, defaults to a name based UUID of URL
	ID        string `toml:"id"`
	PermaLink bool   `toml:"permalink"`
	Title     string `toml:"title"`
	// URL is the enclosure URL
	URL string `toml:"url"`
	// Size is the enclosure size in bytes, can be filled in with --fetch-sizes
	Size Size `toml:"size"`
	// Type is the enclosure MIME type, detected from the URL extension when empty
	Type            string            `toml:"type"`
	PubDate         Date              `toml:"pub_date"`
	Link            string            `toml:"link"`
	Description     string            `toml:"description"`
	Content         string            `toml:"content"`
	Subtitle        string            `toml:"subtitle"`
	Summary         string            `toml:"summary"`
	Author          string            `toml:"author"`
	Authors         []Person          `toml:"authors"`
	Image           string            `toml:"image"`
	Duration        MediaDuration     `toml:"duration"`
	Episode         int               `toml:"episode"`
	Season          int               `toml:"season"`
	EpisodeType     model.EpisodeType `toml:"episode_type"`
	Explicit        model.Explicit    `toml:"explicit"`
	Block           *bool             `toml:"block"`
	ClosedCaptioned *bool             `toml:"closed_captioned"`
	Order           int               `toml:"order"`
	Comments        string            `toml:"comments"`
	Categories      StringSlice       `toml:"categories"`
	// CategoryDomain is the taxonomy of all episode categories
	CategoryDomain string `toml:"category_domain"`
}

// LoadConfig loads TOML configuration from a file path
func LoadConfig(path string) (*Config, error) {
	config := Config{}
	_, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config file")
	}

	for id, f := range config.Feeds {
		f.ID = id
	}

	config.applyDefaults(path)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	var result *multierror.Error

	if len(c.Feeds) == 0 {
		result = multierror.Append(result, errors.New("at least one feed must be specified"))
	}

	if err := validateSort(c.Output.Sort); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "output"))
	}

	if c.Fetch.Concurrency < 0 {
		result = multierror.Append(result, errors.New("fetch concurrency can't be negative"))
	}

	if (c.Fetch.LocalRoot == "") != (c.Fetch.LocalPrefix == "") {
		result = multierror.Append(result, errors.New("fetch local_root and local_prefix must be specified together"))
	} else if c.Fetch.LocalPrefix != "" && !isHTTPURL(c.Fetch.LocalPrefix) {
		result = multierror.Append(result, errors.Errorf("fetch local_prefix %q must be an absolute http(s) URL", c.Fetch.LocalPrefix))
	}

	if s3 := c.Fetch.S3; s3 != nil {
		if s3.Bucket == "" {
			result = multierror.Append(result, errors.New("S3 bucket is required when [fetch.s3] is specified"))
		}
		if !isHTTPURL(s3.URLPrefix) {
			result = multierror.Append(result, errors.Errorf("S3 url_prefix %q must be an absolute http(s) URL", s3.URLPrefix))
		}
	}

	for id, f := range c.Feeds {
		if !feedIDRegex.MatchString(id) {
			result = multierror.Append(result, errors.Errorf("feed ID %q must match %s", id, feedIDRegex))
		}

		if err := validateSort(f.Sort); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "feed %q", id))
		}

		for idx, hook := range f.Hooks {
			if hook == nil || len(hook.Command) == 0 {
				result = multierror.Append(result, errors.Errorf("hook #%d of feed %q has no command", idx+1, id))
			}
		}
	}

	return result.ErrorOrNil()
}

func isHTTPURL(value string) bool {
	u, err := url.Parse(value)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateSort(sort model.Sorting) error {
	switch sort {
	case model.SortingNone, model.SortingAsc, model.SortingDesc:
		return nil
	default:
		return errors.Errorf("unsupported sort %q, must be %q or %q", sort, model.SortingAsc, model.SortingDesc)
	}
}

func (c *Config) applyDefaults(configPath string) {
	if c.Output.Dir == "" {
		c.Output.Dir = filepath.Dir(configPath)
	}

	if c.Output.Generator == "" {
		c.Output.Generator = model.DefaultGenerator
	}

	if c.Output.Indent == nil {
		indent := model.DefaultIndent
		c.Output.Indent = &indent
	}

	if c.Fetch.Timeout.Duration == 0 {
		c.Fetch.Timeout.Duration = model.DefaultFetchTimeout
	}

	if c.Fetch.Concurrency == 0 {
		c.Fetch.Concurrency = model.DefaultConcurrency
	}

	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = model.DefaultUserAgent
	}

	if c.Log.Filename != "" {
		if c.Log.MaxSize == 0 {
			c.Log.MaxSize = model.DefaultLogMaxSize
		}
		if c.Log.MaxAge == 0 {
			c.Log.MaxAge = model.DefaultLogMaxAge
		}
		if c.Log.MaxBackups == 0 {
			c.Log.MaxBackups = model.DefaultLogMaxBackups
		}
	}

	for _, f := range c.Feeds {
		if f.Sort == model.SortingNone {
			f.Sort = c.Output.Sort
		}

		for _, episode := range f.Episodes {
			if episode == nil {
				continue
			}

			if episode.ID == "" && episode.URL != "" {
				episode.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(episode.URL)).String()
			}

			if episode.Type == "" && episode.URL != "" {
				// Unknown extensions are reported by feed validation
				if mimeType, err := model.TypeFromURL(episode.URL); err == nil {
					episode.Type = mimeType
				}
			}
		}
	}
}
