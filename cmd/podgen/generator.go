package main

import (
	"bytes"
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mxpv/podgen/pkg/feed"
	"github.com/mxpv/podgen/pkg/fs"
	"github.com/mxpv/podgen/pkg/model"
)

// SizeFetcher fills in enclosure lengths and missing media types
type SizeFetcher interface {
	Populate(ctx context.Context, feed *model.Feed, overwrite bool) error
}

// Generator renders configured feeds to XML files
type Generator struct {
	config  *Config
	storage fs.Storage
	fetcher SizeFetcher
}

// NewGenerator creates a generator; fetcher may be nil to keep sizes as configured
func NewGenerator(config *Config, storage fs.Storage, fetcher SizeFetcher) (*Generator, error) {
	if config == nil {
		return nil, errors.New("config can't be nil")
	}

	if storage == nil {
		return nil, errors.New("storage can't be nil")
	}

	return &Generator{config: config, storage: storage, fetcher: fetcher}, nil
}

// Generate writes {FEED_ID}.xml and runs the feed hooks
func (g *Generator) Generate(ctx context.Context, feedConfig *Feed) error {
	logger := log.WithField("feed_id", feedConfig.ID)
	logger.Infof("-> generating %q", feedConfig.Title)
	started := time.Now()

	podcast := buildFeed(feedConfig)

	if g.fetcher != nil {
		logger.Debug("fetching enclosure sizes")
		if err := g.fetcher.Populate(ctx, podcast, g.config.Fetch.Overwrite); err != nil {
			return err
		}
	}

	serializer := feed.New(g.serializerConfig(feedConfig))

	data, err := serializer.Bytes(podcast)
	if err != nil {
		return errors.Wrapf(err, "failed to build feed %q", feedConfig.ID)
	}

	name := feedConfig.ID + ".xml"
	if _, err := g.storage.Create(ctx, name, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "failed to write feed %q", feedConfig.ID)
	}

	feedPath, err := g.storage.Path(name)
	if err != nil {
		return errors.Wrap(err, "failed to resolve feed path")
	}

	logger.WithFields(log.Fields{
		"path":     feedPath,
		"episodes": len(podcast.Episodes),
	}).Infof("successfully generated feed in %s", time.Since(started))

	env := feed.HookEnv(feedConfig.ID, feedPath, len(podcast.Episodes))
	for idx, hook := range feedConfig.Hooks {
		logger.Debugf("invoking hook %d", idx+1)
		if err := hook.Invoke(ctx, env); err != nil {
			logger.WithError(err).Errorf("failed to execute hook %d", idx+1)
		}
	}

	return nil
}

// Check reports every problem of a feed without writing anything
func (g *Generator) Check(feedConfig *Feed) error {
	return feed.ValidateAll(buildFeed(feedConfig))
}

func (g *Generator) serializerConfig(feedConfig *Feed) feed.Config {
	cfg := feed.DefaultConfig()
	cfg.Generator = g.config.Output.Generator
	cfg.Sort = feedConfig.Sort

	if g.config.Output.Indent != nil {
		cfg.Indent = *g.config.Output.Indent
	}

	return cfg
}

func buildFeed(cfg *Feed) *model.Feed {
	podcast := &model.Feed{
		Title:         cfg.Title,
		Description:   cfg.Description,
		Link:          cfg.Link,
		Language:      cfg.Language,
		Subtitle:      cfg.Subtitle,
		Summary:       cfg.Summary,
		Author:        cfg.Author,
		Keywords:      cfg.Keywords,
		Explicit:      cfg.Explicit,
		Image:         cfg.Image,
		Copyright:     cfg.Copyright,
		PubDate:       cfg.PubDate.Timestamp,
		LastBuildDate: cfg.LastBuildDate.Timestamp,
		FeedURL:       cfg.FeedURL,
		NewFeedURL:    cfg.NewFeedURL,
		Type:          cfg.Type,
		Block:         cfg.Block,
		Complete:      cfg.Complete,
	}

	if cfg.OwnerName != "" || cfg.OwnerEmail != "" {
		podcast.Owner = &model.Owner{Name: cfg.OwnerName, Email: cfg.OwnerEmail}
	}

	for _, category := range cfg.Categories {
		podcast.Categories = append(podcast.Categories, model.Category{
			Name:          category.Name,
			Subcategories: category.Subcategories,
		})
	}

	for _, episode := range cfg.Episodes {
		if episode == nil {
			podcast.AddEpisode(nil)
			continue
		}

		podcast.AddEpisode(buildEpisode(episode))
	}

	return podcast
}

func buildEpisode(episode *Episode) *model.Episode {
	out := &model.Episode{
		ID:          episode.ID,
		IsPermaLink: episode.PermaLink,
		Title:       episode.Title,
		Enclosure: model.Enclosure{
			URL:    episode.URL,
			Length: int64(episode.Size),
			Type:   episode.Type,
		},
		PubDate:         episode.PubDate.Timestamp,
		Link:            episode.Link,
		Description:     episode.Description,
		Content:         episode.Content,
		Subtitle:        episode.Subtitle,
		Summary:         episode.Summary,
		Author:          episode.Author,
		Image:           episode.Image,
		Duration:        episode.Duration.Duration,
		Episode:         episode.Episode,
		Season:          episode.Season,
		EpisodeType:     episode.EpisodeType,
		Explicit:        episode.Explicit,
		Block:           episode.Block,
		ClosedCaptioned: episode.ClosedCaptioned,
		Order:           episode.Order,
		Comments:        episode.Comments,
	}

	for _, author := range episode.Authors {
		out.Authors = append(out.Authors, model.Person{Name: author.Name, Email: author.Email})
	}

	for _, name := range episode.Categories {
		out.Categories = append(out.Categories, model.ItemCategory{Name: name, Domain: episode.CategoryDomain})
	}

	return out
}
