package feed

import (
	"bytes"
	"encoding/xml"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mxpv/podgen/pkg/model"
)

const (
	rssVersion = "2.0"

	NamespaceITunes  = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	NamespaceContent = "http://purl.org/rss/1.0/modules/content/"
	NamespaceAtom    = "http://www.w3.org/2005/Atom"
)

type rss struct {
	XMLName   xml.Name `xml:"rss"`
	Version   string   `xml:"version,attr"`
	ITunesNS  string   `xml:"xmlns:itunes,attr"`
	ContentNS string   `xml:"xmlns:content,attr"`
	AtomNS    string   `xml:"xmlns:atom,attr"`
	Channel   channel  `xml:"channel"`
}

// cdata wraps text which is allowed to carry markup
type cdata struct {
	Text string `xml:",cdata"`
}

type channel struct {
	Title         string            `xml:"title"`
	Link          string            `xml:"link"`
	Description   cdata             `xml:"description"`
	Language      string            `xml:"language"`
	Copyright     string            `xml:"copyright,omitempty"`
	PubDate       string            `xml:"pubDate,omitempty"`
	LastBuildDate string            `xml:"lastBuildDate,omitempty"`
	Generator     string            `xml:"generator,omitempty"`
	Categories    []string          `xml:"category"`
	Image         *image            `xml:"image"`
	AtomLink      *atomLink         `xml:"atom:link"`
	IAuthor       string            `xml:"itunes:author,omitempty"`
	ISubtitle     string            `xml:"itunes:subtitle,omitempty"`
	ISummary      *cdata            `xml:"itunes:summary"`
	IOwner        *owner            `xml:"itunes:owner"`
	IImage        *itunesImage      `xml:"itunes:image"`
	ICategories   []*itunesCategory `xml:"itunes:category"`
	IKeywords     string            `xml:"itunes:keywords,omitempty"`
	IExplicit     string            `xml:"itunes:explicit,omitempty"`
	IType         string            `xml:"itunes:type,omitempty"`
	IBlock        string            `xml:"itunes:block,omitempty"`
	IComplete     string            `xml:"itunes:complete,omitempty"`
	INewFeedURL   string            `xml:"itunes:new-feed-url,omitempty"`
	Items         []*item           `xml:"item"`
}

type image struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type owner struct {
	Name  string `xml:"itunes:name,omitempty"`
	Email string `xml:"itunes:email"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
}

type itunesCategory struct {
	Text          string            `xml:"text,attr"`
	Subcategories []*itunesCategory `xml:"itunes:category"`
}

type item struct {
	Title            string       `xml:"title"`
	Link             string       `xml:"link,omitempty"`
	Description      *cdata       `xml:"description"`
	Content          *cdata       `xml:"content:encoded"`
	Authors          []string     `xml:"author"`
	Categories       []category   `xml:"category"`
	Comments         string       `xml:"comments,omitempty"`
	Enclosure        enclosure    `xml:"enclosure"`
	GUID             guid         `xml:"guid"`
	PubDate          string       `xml:"pubDate"`
	IAuthor          string       `xml:"itunes:author,omitempty"`
	ISubtitle        string       `xml:"itunes:subtitle,omitempty"`
	ISummary         *cdata       `xml:"itunes:summary"`
	IImage           *itunesImage `xml:"itunes:image"`
	IDuration        string       `xml:"itunes:duration,omitempty"`
	IExplicit        string       `xml:"itunes:explicit,omitempty"`
	IEpisode         int          `xml:"itunes:episode,omitempty"`
	ISeason          int          `xml:"itunes:season,omitempty"`
	IEpisodeType     string       `xml:"itunes:episodeType,omitempty"`
	IBlock           string       `xml:"itunes:block,omitempty"`
	IClosedCaptioned string       `xml:"itunes:isClosedCaptioned,omitempty"`
	IOrder           int          `xml:"itunes:order,omitempty"`
}

type category struct {
	Domain string `xml:"domain,attr,omitempty"`
	Name   string `xml:",chardata"`
}

type enclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

type guid struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Serializer turns a feed model into an RSS 2.0 document with iTunes extensions
type Serializer struct {
	cfg Config
}

func New(cfg Config) *Serializer {
	return &Serializer{cfg: cfg}
}

// Encode validates the feed and writes the XML document to w.
// Nothing is written if the feed is invalid.
func (s *Serializer) Encode(w io.Writer, f *model.Feed) error {
	data, err := s.Bytes(f)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write feed")
	}

	return nil
}

// Bytes validates the feed and returns the XML document
func (s *Serializer) Bytes(f *model.Feed) ([]byte, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}

	doc := rss{
		Version:   rssVersion,
		ITunesNS:  NamespaceITunes,
		ContentNS: NamespaceContent,
		AtomNS:    NamespaceAtom,
		Channel:   s.buildChannel(f),
	}

	buf := &bytes.Buffer{}
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(buf)
	enc.Indent("", s.cfg.Indent)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "failed to marshal feed")
	}
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

func (s *Serializer) buildChannel(f *model.Feed) channel {
	ch := channel{
		Title:         f.Title,
		Link:          f.Link,
		Description:   cdata{Text: f.Description},
		Language:      f.Language,
		Copyright:     f.Copyright,
		PubDate:       formatDate(f.PubDate),
		LastBuildDate: formatDate(f.LastBuildDate),
		Generator:     s.cfg.Generator,
		IAuthor:       f.Author,
		ISubtitle:     f.Subtitle,
		ISummary:      optionalCDATA(f.Summary),
		IKeywords:     strings.Join(f.Keywords, ","),
		IExplicit:     string(f.Explicit),
		IType:         string(f.Type),
		IBlock:        yes(f.Block),
		IComplete:     yes(f.Complete),
		INewFeedURL:   f.NewFeedURL,
	}

	if f.Image != "" {
		ch.Image = &image{URL: f.Image, Title: f.Title, Link: f.Link}
		ch.IImage = &itunesImage{Href: f.Image}
	}

	if f.FeedURL != "" {
		ch.AtomLink = &atomLink{Href: f.FeedURL, Rel: "self", Type: "application/rss+xml"}
	}

	if f.Owner != nil {
		ch.IOwner = &owner{Name: f.Owner.Name, Email: f.Owner.Email}
	}

	for _, category := range f.Categories {
		ic := &itunesCategory{Text: category.Name}
		for _, sub := range category.Subcategories {
			ic.Subcategories = append(ic.Subcategories, &itunesCategory{Text: sub})
		}

		ch.Categories = append(ch.Categories, category.Name)
		ch.ICategories = append(ch.ICategories, ic)
	}

	for _, episode := range sortEpisodes(f.Episodes, s.cfg.Sort) {
		ch.Items = append(ch.Items, buildItem(episode))
	}

	return ch
}

func buildItem(episode *model.Episode) *item {
	// Readers without content:encoded support still get the notes
	description := episode.Description
	if description == "" {
		description = episode.Content
	}

	it := &item{
		Title:       episode.Title,
		Link:        episode.Link,
		Description: optionalCDATA(description),
		Content:     optionalCDATA(episode.Content),
		Comments:    episode.Comments,
		Enclosure: enclosure{
			URL:    episode.Enclosure.URL,
			Length: episode.Enclosure.Length,
			Type:   episode.Enclosure.Type,
		},
		GUID: guid{
			IsPermaLink: episode.IsPermaLink,
			Value:       episode.ID,
		},
		PubDate:          formatDate(episode.PubDate),
		IAuthor:          episode.Author,
		ISubtitle:        episode.Subtitle,
		ISummary:         optionalCDATA(episode.Summary),
		IExplicit:        string(episode.Explicit),
		IEpisode:         episode.Episode,
		ISeason:          episode.Season,
		IEpisodeType:     string(episode.EpisodeType),
		IBlock:           yesNo(episode.Block),
		IClosedCaptioned: yesNo(episode.ClosedCaptioned),
		IOrder:           episode.Order,
	}

	for _, author := range episode.Authors {
		it.Authors = append(it.Authors, formatPerson(author))
	}

	for _, c := range episode.Categories {
		it.Categories = append(it.Categories, category{Domain: c.Domain, Name: c.Name})
	}

	if episode.Image != "" {
		it.IImage = &itunesImage{Href: episode.Image}
	}

	if episode.Duration > 0 {
		it.IDuration = model.FormatDuration(episode.Duration)
	}

	return it
}

// sort.Interface implementation
type timeSlice []*model.Episode

func (p timeSlice) Len() int {
	return len(p)
}

// In ascending order
func (p timeSlice) Less(i, j int) bool {
	return p[i].PubDate.Before(p[j].PubDate.Time)
}

func (p timeSlice) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
}

// sortEpisodes returns episodes in the requested order, the input slice is left untouched
func sortEpisodes(episodes []*model.Episode, sorting model.Sorting) []*model.Episode {
	switch sorting {
	case model.SortingAsc:
		sorted := append(timeSlice(nil), episodes...)
		sort.Stable(sorted)
		return sorted
	case model.SortingDesc:
		sorted := append(timeSlice(nil), episodes...)
		sort.Stable(sort.Reverse(sorted))
		return sorted
	default:
		return episodes
	}
}

// formatDate renders RFC 2822 in the zone of the timestamp
func formatDate(ts model.Timestamp) string {
	if ts.IsZero() {
		return ""
	}

	return ts.Format(time.RFC1123Z)
}

func optionalCDATA(text string) *cdata {
	if text == "" {
		return nil
	}

	return &cdata{Text: text}
}

func yes(value bool) string {
	if value {
		return "yes"
	}

	return ""
}

func yesNo(value *bool) string {
	switch {
	case value == nil:
		return ""
	case *value:
		return "yes"
	default:
		return "no"
	}
}

// formatPerson renders an RSS author as "email (name)"
func formatPerson(p model.Person) string {
	if p.Name == "" {
		return p.Email
	}

	return p.Email + " (" + p.Name + ")"
}
