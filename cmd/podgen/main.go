package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mxpv/podgen/pkg/enclosure"
	"github.com/mxpv/podgen/pkg/fs"
)

type Opts struct {
	ConfigPath string   `long:"config" short:"c" default:"podgen.toml" env:"PODGEN_CONFIG_PATH" description:"path to the TOML feed description"`
	Debug      bool     `long:"debug" description:"enable debug logging"`
	Check      bool     `long:"check" description:"validate feeds and report every problem without writing files"`
	FetchSizes bool     `long:"fetch-sizes" description:"look up missing enclosure sizes and media types before writing"`
	Feeds      []string `long:"feed" short:"f" description:"generate only the given feed ID (can be repeated)"`
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	})

	// Environment overrides may live in a .env file next to the binary
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("failed to load .env file")
	}

	// Parse args
	opts := Opts{}
	_, err := flags.Parse(&opts)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.WithError(err).Fatal("failed to parse command line arguments")
	}

	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}

	log.WithFields(log.Fields{
		"version": version,
		"commit":  commit,
		"date":    date,
	}).Debug("running podgen")

	// Load TOML file
	log.Debugf("loading configuration %q", opts.ConfigPath)
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration file")
	}

	if cfg.Log.Filename != "" {
		log.Infof("writing logs to %s", cfg.Log.Filename)
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.Log.Filename,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		})
	}

	feeds, err := selectFeeds(cfg, opts.Feeds)
	if err != nil {
		log.WithError(err).Fatal("invalid feed selection")
	}

	storage, err := fs.NewLocal(cfg.Output.Dir)
	if err != nil {
		log.WithError(err).Fatal("failed to open output directory")
	}

	var fetcher SizeFetcher
	if opts.FetchSizes {
		fetcher, err = newFetcher(cfg)
		if err != nil {
			log.WithError(err).Fatal("failed to create enclosure size fetcher")
		}
	}

	generator, err := NewGenerator(cfg, storage, fetcher)
	if err != nil {
		log.WithError(err).Fatal("failed to create generator")
	}

	if opts.Check {
		if !check(generator, feeds) {
			os.Exit(1)
		}
		return
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-stop:
			log.Info("interrupted, cancelling")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Feeds are independent: one failure doesn't stop the others
	var group errgroup.Group
	for _, feedConfig := range feeds {
		feedConfig := feedConfig
		group.Go(func() error {
			if err := generator.Generate(ctx, feedConfig); err != nil {
				log.WithError(err).Errorf("failed to generate feed %q", feedConfig.ID)
				return err
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		cancel()
		os.Exit(1)
	}
}

func check(generator *Generator, feeds []*Feed) bool {
	ok := true
	for _, feedConfig := range feeds {
		logger := log.WithField("feed_id", feedConfig.ID)
		if err := generator.Check(feedConfig); err != nil {
			logger.Errorf("feed is invalid: %v", err)
			ok = false
			continue
		}
		logger.Info("feed is valid")
	}

	return ok
}

func selectFeeds(cfg *Config, ids []string) ([]*Feed, error) {
	var feeds []*Feed

	if len(ids) == 0 {
		for _, f := range cfg.Feeds {
			feeds = append(feeds, f)
		}
	} else {
		for _, id := range ids {
			f, ok := cfg.Feeds[id]
			if !ok {
				return nil, errors.Errorf("unknown feed %q", id)
			}
			feeds = append(feeds, f)
		}
	}

	sort.Slice(feeds, func(i, j int) bool {
		return feeds[i].ID < feeds[j].ID
	})

	return feeds, nil
}

func newFetcher(cfg *Config) (*enclosure.Fetcher, error) {
	opts := []enclosure.Option{
		enclosure.WithHTTP(&http.Client{}, cfg.Fetch.UserAgent),
		enclosure.WithTimeout(cfg.Fetch.Timeout.Duration),
		enclosure.WithConcurrency(cfg.Fetch.Concurrency),
	}

	if cfg.Fetch.LocalRoot != "" {
		local, err := fs.NewLocal(cfg.Fetch.LocalRoot)
		if err != nil {
			return nil, err
		}
		opts = append(opts, enclosure.WithLocal(cfg.Fetch.LocalPrefix, local))
	}

	if cfg.Fetch.S3 != nil {
		s3, err := fs.NewS3(*cfg.Fetch.S3)
		if err != nil {
			return nil, err
		}
		log.Debugf("serving %s from bucket %s", cfg.Fetch.S3.URLPrefix, s3.Bucket())
		opts = append(opts, enclosure.WithS3(cfg.Fetch.S3.URLPrefix, s3))
	}

	return enclosure.NewFetcher(opts...)
}
