package feed

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxpv/podgen/pkg/model"
)

func TestParse_RoundTrip(t *testing.T) {
	out, err := New(DefaultConfig()).Bytes(exampleFeed())
	require.NoError(t, err)

	f, err := Parse(bytes.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, "Example Show", f.Title)
	assert.Equal(t, "A show.", f.Description)
	assert.Equal(t, "https://example.com", f.Link)
	assert.Equal(t, "en", f.Language)

	require.Len(t, f.Episodes, 1)
	ep := f.Episodes[0]
	assert.Equal(t, "ep1", ep.ID)
	assert.Equal(t, "Ep 1", ep.Title)
	assert.Equal(t, model.Enclosure{URL: "https://example.com/ep1.mp3", Length: 1000, Type: "audio/mpeg"}, ep.Enclosure)
	assert.True(t, ep.PubDate.Equal(testDate))
	assert.False(t, ep.PubDate.Naive)

	// A parsed feed can be serialized again
	again, err := New(DefaultConfig()).Bytes(f)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestParse_ITunes(t *testing.T) {
	src := exampleFeed()
	src.Author = "Jane Doe"
	src.Subtitle = "Short"
	src.Summary = "<b>Long</b> summary"
	src.Image = "https://example.com/cover.jpg"
	src.Explicit = model.ExplicitYes
	src.Keywords = []string{"news", "tech"}
	src.Owner = &model.Owner{Name: "Jane Doe", Email: "jane@example.com"}
	src.Categories = []model.Category{
		{Name: "Technology"},
		{Name: "Society & Culture", Subcategories: []string{"Documentary", "Philosophy"}},
	}
	src.LastBuildDate = model.At(time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC))

	ep := src.Episodes[0]
	ep.Description = "<p>Notes</p>"
	ep.Content = "<p>Full notes</p>"
	ep.Link = "https://example.com/ep1"
	ep.Duration = time.Hour + 2*time.Minute + 3*time.Second
	ep.Episode = 3
	ep.Season = 2
	ep.Order = 1
	ep.EpisodeType = model.EpisodeFull
	ep.ClosedCaptioned = boolPtr(true)
	ep.Block = boolPtr(false)
	ep.Authors = []model.Person{{Name: "Jane Doe", Email: "jane@example.com"}}
	ep.Categories = []model.ItemCategory{
		{Name: "Interview"},
		{Name: "Talk/Tech", Domain: "https://example.com/taxonomy"},
	}

	out, err := New(DefaultConfig()).Bytes(src)
	require.NoError(t, err)

	f, err := Parse(bytes.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", f.Author)
	assert.Equal(t, "Short", f.Subtitle)
	assert.Equal(t, "<b>Long</b> summary", f.Summary)
	assert.Equal(t, "https://example.com/cover.jpg", f.Image)
	assert.Equal(t, model.ExplicitYes, f.Explicit)
	assert.Equal(t, []string{"news", "tech"}, f.Keywords)
	assert.Equal(t, &model.Owner{Name: "Jane Doe", Email: "jane@example.com"}, f.Owner)
	assert.Equal(t, src.Categories, f.Categories)
	assert.True(t, f.LastBuildDate.Equal(src.LastBuildDate.Time))

	require.Len(t, f.Episodes, 1)
	got := f.Episodes[0]
	assert.Equal(t, "<p>Notes</p>", got.Description)
	assert.Equal(t, "<p>Full notes</p>", got.Content)
	assert.Equal(t, "https://example.com/ep1", got.Link)
	assert.Equal(t, ep.Duration, got.Duration)
	assert.Equal(t, 3, got.Episode)
	assert.Equal(t, 2, got.Season)
	assert.Equal(t, 1, got.Order)
	assert.Equal(t, model.EpisodeFull, got.EpisodeType)
	require.NotNil(t, got.ClosedCaptioned)
	assert.True(t, *got.ClosedCaptioned)
	require.NotNil(t, got.Block)
	assert.False(t, *got.Block)
	assert.Equal(t, ep.Authors, got.Authors)
	assert.Equal(t, ep.Categories, got.Categories)
}

func TestParse_AbsentFlags(t *testing.T) {
	out, err := New(DefaultConfig()).Bytes(exampleFeed())
	require.NoError(t, err)

	f, err := Parse(bytes.NewReader(out))
	require.NoError(t, err)

	require.Len(t, f.Episodes, 1)
	assert.Nil(t, f.Episodes[0].Block)
	assert.Nil(t, f.Episodes[0].ClosedCaptioned)
	assert.Empty(t, f.Episodes[0].Authors)
}

func boolPtr(v bool) *bool {
	return &v
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("definitely not a feed"))
	assert.Error(t, err)
}
