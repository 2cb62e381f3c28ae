package feed

import (
	"fmt"
	"mime"
	"net/mail"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/language"

	"github.com/mxpv/podgen/pkg/model"
)

const feedEntity = "feed"

// Validate checks a feed and all of its episodes.
// The first problem found is returned: feed fields are checked first, then episodes in order.
func Validate(f *model.Feed) error {
	errs := check(f)
	if len(errs) == 0 {
		return nil
	}

	return errs[0]
}

// ValidateAll reports every problem of a feed at once
func ValidateAll(f *model.Feed) error {
	var result *multierror.Error
	for _, err := range check(f) {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

type checker struct {
	errs []error
}

func (c *checker) fail(kind error, entity, field, expected string) {
	c.errs = append(c.errs, &model.FieldError{
		Kind:     kind,
		Entity:   entity,
		Field:    field,
		Expected: expected,
	})
}

// required reports a missing field and returns false if value is blank
func (c *checker) required(entity, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.fail(model.ErrMissingRequiredField, entity, field, "")
		return false
	}

	return true
}

// text rejects values which can't be carried by an XML 1.0 document, even inside CDATA
func (c *checker) text(entity, field, value string) {
	if !isXMLText(value) {
		c.fail(model.ErrInvalidFieldFormat, entity, field, "UTF-8 text without control characters")
	}
}

func (c *checker) email(entity, field, value string) {
	if c.required(entity, field, value) {
		if _, err := mail.ParseAddress(value); err != nil {
			c.fail(model.ErrInvalidFieldFormat, entity, field, "e-mail address")
		}
	}
}

func (c *checker) url(entity, field, value string) {
	if value == "" {
		return
	}

	if !isAbsoluteURL(value) {
		c.fail(model.ErrInvalidFieldFormat, entity, field, "absolute http(s) URL")
	}
}

func (c *checker) image(entity, field, value string) {
	if value == "" {
		return
	}

	if !isAbsoluteURL(value) {
		c.fail(model.ErrInvalidFieldFormat, entity, field, "absolute http(s) URL")
		return
	}

	u, _ := url.Parse(value)
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".jpg", ".jpeg", ".png":
	default:
		c.fail(model.ErrInvalidFieldFormat, entity, field, "URL of a .jpg or .png image")
	}
}

func (c *checker) timestamp(entity, field string, ts model.Timestamp) {
	if !ts.IsZero() && ts.Naive {
		c.fail(model.ErrInvalidFieldFormat, entity, field, "timezone-aware timestamp")
	}
}

func (c *checker) explicit(entity string, value model.Explicit) {
	switch value {
	case "", model.ExplicitYes, model.ExplicitNo, model.ExplicitClean:
	default:
		c.fail(model.ErrInvalidFieldFormat, entity, "itunes:explicit", `one of "yes", "no", "clean"`)
	}
}

func (c *checker) nonNegative(entity, field string, value int) {
	if value < 0 {
		c.fail(model.ErrInvalidFieldFormat, entity, field, "non-negative integer")
	}
}

func check(f *model.Feed) []error {
	c := &checker{}

	if f == nil {
		c.fail(model.ErrMissingRequiredField, feedEntity, "channel", "")
		return c.errs
	}

	c.required(feedEntity, "title", f.Title)
	c.required(feedEntity, "description", f.Description)

	if c.required(feedEntity, "link", f.Link) {
		c.url(feedEntity, "link", f.Link)
	}

	if c.required(feedEntity, "language", f.Language) {
		if _, err := language.Parse(f.Language); err != nil {
			c.fail(model.ErrInvalidFieldFormat, feedEntity, "language", "locale code such as \"en\" or \"en-us\"")
		}
	}

	c.image(feedEntity, "itunes:image", f.Image)
	c.url(feedEntity, "atom:link", f.FeedURL)
	c.url(feedEntity, "itunes:new-feed-url", f.NewFeedURL)
	c.timestamp(feedEntity, "pubDate", f.PubDate)
	c.timestamp(feedEntity, "lastBuildDate", f.LastBuildDate)
	c.explicit(feedEntity, f.Explicit)

	switch f.Type {
	case "", model.TypeEpisodic, model.TypeSerial:
	default:
		c.fail(model.ErrInvalidFieldFormat, feedEntity, "itunes:type", `one of "episodic", "serial"`)
	}

	if f.Owner != nil {
		c.email(feedEntity, "itunes:owner/itunes:email", f.Owner.Email)
		c.text(feedEntity, "itunes:owner/itunes:name", f.Owner.Name)
		c.text(feedEntity, "itunes:owner/itunes:email", f.Owner.Email)
	}

	for _, category := range f.Categories {
		c.required(feedEntity, "itunes:category", category.Name)
		c.text(feedEntity, "itunes:category", category.Name)
		for _, sub := range category.Subcategories {
			c.required(feedEntity, "itunes:category/itunes:category", sub)
			c.text(feedEntity, "itunes:category/itunes:category", sub)
		}
	}

	c.text(feedEntity, "title", f.Title)
	c.text(feedEntity, "description", f.Description)
	c.text(feedEntity, "link", f.Link)
	c.text(feedEntity, "language", f.Language)
	c.text(feedEntity, "copyright", f.Copyright)
	c.text(feedEntity, "itunes:subtitle", f.Subtitle)
	c.text(feedEntity, "itunes:summary", f.Summary)
	c.text(feedEntity, "itunes:author", f.Author)
	c.text(feedEntity, "itunes:image", f.Image)
	c.text(feedEntity, "atom:link", f.FeedURL)
	c.text(feedEntity, "itunes:new-feed-url", f.NewFeedURL)
	for _, keyword := range f.Keywords {
		c.text(feedEntity, "itunes:keywords", keyword)
	}

	ids := make(map[string]int, len(f.Episodes))
	for idx, episode := range f.Episodes {
		entity := episodeEntity(idx, episode)
		if episode == nil {
			c.fail(model.ErrMissingRequiredField, entity, "item", "")
			continue
		}

		if c.required(entity, "guid", episode.ID) {
			if prev, ok := ids[episode.ID]; ok {
				c.fail(model.ErrInvalidEpisodeIdentifier, entity, "guid", fmt.Sprintf("unique value, already used by episode #%d", prev+1))
			} else {
				ids[episode.ID] = idx
			}

			if episode.IsPermaLink {
				c.url(entity, "guid", episode.ID)
			}
		}

		checkEpisode(c, entity, episode)
	}

	return c.errs
}

func checkEpisode(c *checker, entity string, episode *model.Episode) {
	c.required(entity, "title", episode.Title)

	if c.required(entity, "enclosure/url", episode.Enclosure.URL) {
		c.url(entity, "enclosure/url", episode.Enclosure.URL)
	}

	if episode.Enclosure.Length < 0 {
		c.fail(model.ErrInvalidFieldFormat, entity, "enclosure/length", "non-negative byte count")
	}

	if c.required(entity, "enclosure/type", episode.Enclosure.Type) {
		mediaType, _, err := mime.ParseMediaType(episode.Enclosure.Type)
		if slash := strings.Index(mediaType, "/"); err != nil || slash <= 0 || slash == len(mediaType)-1 {
			c.fail(model.ErrInvalidFieldFormat, entity, "enclosure/type", "MIME type such as \"audio/mpeg\"")
		}
	}

	if episode.PubDate.IsZero() {
		c.fail(model.ErrMissingRequiredField, entity, "pubDate", "")
	} else {
		c.timestamp(entity, "pubDate", episode.PubDate)
	}

	c.url(entity, "link", episode.Link)
	c.url(entity, "comments", episode.Comments)
	c.image(entity, "itunes:image", episode.Image)
	c.explicit(entity, episode.Explicit)
	c.nonNegative(entity, "itunes:episode", episode.Episode)
	c.nonNegative(entity, "itunes:season", episode.Season)
	c.nonNegative(entity, "itunes:order", episode.Order)

	if episode.Duration < 0 {
		c.fail(model.ErrInvalidFieldFormat, entity, "itunes:duration", "non-negative duration")
	}

	switch episode.EpisodeType {
	case "", model.EpisodeFull, model.EpisodeTrailer, model.EpisodeBonus:
	default:
		c.fail(model.ErrInvalidFieldFormat, entity, "itunes:episodeType", `one of "full", "trailer", "bonus"`)
	}

	for _, author := range episode.Authors {
		c.email(entity, "author", author.Email)
		c.text(entity, "author", author.Name)
		c.text(entity, "author", author.Email)
	}

	for _, category := range episode.Categories {
		c.required(entity, "category", category.Name)
		c.text(entity, "category", category.Name)
		c.text(entity, "category", category.Domain)
	}

	c.text(entity, "guid", episode.ID)
	c.text(entity, "title", episode.Title)
	c.text(entity, "enclosure/url", episode.Enclosure.URL)
	c.text(entity, "enclosure/type", episode.Enclosure.Type)
	c.text(entity, "link", episode.Link)
	c.text(entity, "description", episode.Description)
	c.text(entity, "content:encoded", episode.Content)
	c.text(entity, "itunes:subtitle", episode.Subtitle)
	c.text(entity, "itunes:summary", episode.Summary)
	c.text(entity, "itunes:author", episode.Author)
	c.text(entity, "itunes:image", episode.Image)
	c.text(entity, "comments", episode.Comments)
}

func episodeEntity(idx int, episode *model.Episode) string {
	if episode == nil || episode.ID == "" {
		return fmt.Sprintf("episode #%d", idx+1)
	}

	return fmt.Sprintf("episode #%d (%q)", idx+1, episode.ID)
}

// isXMLText reports whether value is valid UTF-8 made of XML 1.0 characters
func isXMLText(value string) bool {
	if !utf8.ValidString(value) {
		return false
	}

	for _, r := range value {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}

	return true
}

func isAbsoluteURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
