package feed

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	rssparser "github.com/mmcdole/gofeed/rss"
	"github.com/pkg/errors"

	"github.com/mxpv/podgen/pkg/model"
)

// Parse reads an RSS document back into the feed model.
// Values that can't be represented by the model (e.g. malformed numbers) are skipped.
func Parse(r io.Reader) (*model.Feed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read feed")
	}

	fp := gofeed.NewParser()
	parsed, err := fp.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse feed")
	}

	// The universal feed drops category domains, take them from the RSS items
	var rawItems []*rssparser.Item
	if parsed.FeedType == "rss" {
		if raw, err := (&rssparser.Parser{}).Parse(bytes.NewReader(data)); err == nil && len(raw.Items) == len(parsed.Items) {
			rawItems = raw.Items
		}
	}

	f := &model.Feed{
		Title:         parsed.Title,
		Description:   parsed.Description,
		Link:          parsed.Link,
		Language:      parsed.Language,
		Copyright:     parsed.Copyright,
		FeedURL:       parsed.FeedLink,
		PubDate:       timestamp(parsed.PublishedParsed),
		LastBuildDate: timestamp(parsed.UpdatedParsed),
	}

	if parsed.Image != nil {
		f.Image = parsed.Image.URL
	}

	if it := parsed.ITunesExt; it != nil {
		f.Author = it.Author
		f.Subtitle = it.Subtitle
		f.Summary = it.Summary
		f.Explicit = model.Explicit(it.Explicit)
		f.Type = model.PodcastType(it.Type)
		f.NewFeedURL = it.NewFeedURL
		f.Block = isYes(it.Block)
		f.Complete = isYes(it.Complete)
		f.Keywords = splitKeywords(it.Keywords)

		if it.Image != "" {
			f.Image = it.Image
		}

		if it.Owner != nil {
			f.Owner = &model.Owner{Name: it.Owner.Name, Email: it.Owner.Email}
		}

		f.Categories = parseCategories(parsed.Extensions, it.Categories)
	}

	for idx, entry := range parsed.Items {
		episode := parseItem(entry)
		if rawItems != nil {
			episode.Categories = itemCategories(rawItems[idx].Categories)
		}
		f.AddEpisode(episode)
	}

	return f, nil
}

func parseItem(entry *gofeed.Item) *model.Episode {
	episode := &model.Episode{
		ID:          entry.GUID,
		Title:       entry.Title,
		Link:        entry.Link,
		Description: entry.Description,
		Content:     entry.Content,
		PubDate:     timestamp(entry.PublishedParsed),
	}

	for _, name := range entry.Categories {
		episode.Categories = append(episode.Categories, model.ItemCategory{Name: name})
	}

	// gofeed falls back to itunes:author, only addresses come from <author>
	for _, person := range entry.Authors {
		if person != nil && person.Email != "" {
			episode.Authors = append(episode.Authors, model.Person{Name: person.Name, Email: person.Email})
		}
	}

	if len(entry.Enclosures) > 0 {
		enc := entry.Enclosures[0]
		length, _ := strconv.ParseInt(strings.TrimSpace(enc.Length), 10, 64)
		episode.Enclosure = model.Enclosure{URL: enc.URL, Length: length, Type: enc.Type}
	}

	if entry.Image != nil {
		episode.Image = entry.Image.URL
	}

	it := entry.ITunesExt
	if it == nil {
		return episode
	}

	episode.Author = it.Author
	episode.Subtitle = it.Subtitle
	episode.Summary = it.Summary
	episode.Explicit = model.Explicit(it.Explicit)
	episode.EpisodeType = model.EpisodeType(it.EpisodeType)
	episode.Block = optionalYes(it.Block)
	episode.ClosedCaptioned = optionalYes(it.IsClosedCaptioned)
	episode.Episode = atoi(it.Episode)
	episode.Season = atoi(it.Season)
	episode.Order = atoi(it.Order)

	if it.Image != "" {
		episode.Image = it.Image
	}

	if d, err := model.ParseDuration(it.Duration); err == nil {
		episode.Duration = d
	}

	return episode
}

// parseCategories prefers raw extension elements, as gofeed keeps only the first subcategory
func parseCategories(extensions ext.Extensions, fallback []*ext.ITunesCategory) []model.Category {
	var out []model.Category

	if raw, ok := extensions["itunes"]["category"]; ok {
		for _, elem := range raw {
			category := model.Category{Name: elem.Attrs["text"]}
			for _, sub := range elem.Children["category"] {
				category.Subcategories = append(category.Subcategories, sub.Attrs["text"])
			}
			out = append(out, category)
		}
		return out
	}

	for _, c := range fallback {
		category := model.Category{Name: c.Text}
		if c.Subcategory != nil {
			category.Subcategories = []string{c.Subcategory.Text}
		}
		out = append(out, category)
	}

	return out
}

func timestamp(t *time.Time) model.Timestamp {
	if t == nil {
		return model.Timestamp{}
	}

	return model.At(*t)
}

func isYes(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "yes" || value == "true"
}

// optionalYes keeps an absent flag apart from an explicit "no"
func optionalYes(value string) *bool {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	v := isYes(value)
	return &v
}

func itemCategories(raw []*rssparser.Category) []model.ItemCategory {
	var out []model.ItemCategory
	for _, c := range raw {
		if c != nil {
			out = append(out, model.ItemCategory{Name: c.Value, Domain: c.Domain})
		}
	}

	return out
}

func atoi(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}

	return n
}

func splitKeywords(value string) []string {
	var out []string
	for _, keyword := range strings.Split(value, ",") {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			out = append(out, keyword)
		}
	}

	return out
}
