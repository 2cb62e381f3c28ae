package model

import (
	"time"
)

// Explicit is the iTunes parental advisory value
type Explicit string

const (
	ExplicitYes   = Explicit("yes")
	ExplicitNo    = Explicit("no")
	ExplicitClean = Explicit("clean")
)

// PodcastType tells podcast apps how to present episodes
type PodcastType string

const (
	TypeEpisodic = PodcastType("episodic")
	TypeSerial   = PodcastType("serial")
)

type EpisodeType string

const (
	EpisodeFull    = EpisodeType("full")
	EpisodeTrailer = EpisodeType("trailer")
	EpisodeBonus   = EpisodeType("bonus")
)

// Enclosure points to the downloadable media of an episode
type Enclosure struct {
	URL string
	// Length is the size of the media in bytes
	Length int64
	// Type is a MIME type, e.g. "audio/mpeg"
	Type string
}

type Owner struct {
	Name  string
	Email string
}

// Person is an RSS <author> of an episode, rendered as "email (name)"
type Person struct {
	Name  string
	Email string
}

// ItemCategory is a plain RSS <category> of an episode
type ItemCategory struct {
	Name string
	// Domain identifies the taxonomy the name belongs to
	Domain string
}

// Category is an entry of the iTunes category taxonomy
type Category struct {
	Name          string
	Subcategories []string
}

type Episode struct {
	// ID is the episode GUID, must be stable across edits
	ID          string
	IsPermaLink bool
	Title       string
	Enclosure   Enclosure
	PubDate     Timestamp
	Link        string
	// Description may contain limited markup
	Description string
	// Content is the full episode notes (content:encoded)
	Content         string
	Subtitle string
	Summary  string
	// Author is the iTunes author name
	Author string
	// Authors are RSS authors, each one needs an e-mail address
	Authors     []Person
	Image       string
	Duration    time.Duration
	Episode     int
	Season      int
	EpisodeType EpisodeType
	Explicit    Explicit
	// Block and ClosedCaptioned are omitted from the output when nil
	Block           *bool
	ClosedCaptioned *bool
	// Order overrides the default episode ordering in podcast directories (1-based)
	Order      int
	Comments   string
	Categories []ItemCategory
}

type Feed struct {
	Title string
	// Description may contain limited markup
	Description string
	// Link is a URL of the podcast website
	Link string
	// Language is a locale code (ISO 639 / BCP 47)
	Language      string
	Subtitle      string
	Summary       string
	Author        string
	Owner         *Owner
	Categories    []Category
	Keywords      []string
	Explicit      Explicit
	Image         string
	Copyright     string
	PubDate       Timestamp
	LastBuildDate Timestamp
	// FeedURL is where the feed itself is published (atom:link rel="self")
	FeedURL    string
	NewFeedURL string
	Type       PodcastType
	Block      bool
	Complete   bool
	// Episodes in display order
	Episodes []*Episode
}

// AddEpisode appends an episode, keeping insertion order
func (f *Feed) AddEpisode(episode *Episode) {
	f.Episodes = append(f.Episodes, episode)
}

// Sorting is an explicit episode order requested by the caller
type Sorting string

const (
	// SortingNone keeps insertion order
	SortingNone = Sorting("")
	SortingAsc  = Sorting("asc")
	SortingDesc = Sorting("desc")
)
