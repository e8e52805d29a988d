package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"popular", CategoryPopular},
		{"now_playing", CategoryNowPlaying},
		{"top_rated", CategoryTopRated},
		{"upcoming", CategoryUpcoming},
		{"", CategoryPopular},
		{"latest", CategoryPopular},
		{"TOP_RATED", CategoryPopular},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.in))
		})
	}
}

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "Now Playing", CategoryNowPlaying.Title())
	assert.Equal(t, "", Category("bogus").Title())
	assert.Len(t, Categories, 4)
}

func TestMovieTrailer(t *testing.T) {
	m := Movie{Videos: &Videos{Results: []Video{
		{Key: "a", Site: "Vimeo", Type: "Trailer"},
		{Key: "b", Site: "YouTube", Type: "Teaser"},
		{Key: "c", Site: "YouTube", Type: "Trailer"},
	}}}
	trailer := m.Trailer()
	if assert.NotNil(t, trailer) {
		assert.Equal(t, "c", trailer.Key)
	}
	assert.Nil(t, Movie{}.Trailer())
}
