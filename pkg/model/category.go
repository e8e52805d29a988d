package model

// Category is one of the fixed server-defined listing buckets.
type Category string

const (
	CategoryPopular    Category = "popular"
	CategoryNowPlaying Category = "now_playing"
	CategoryTopRated   Category = "top_rated"
	CategoryUpcoming   Category = "upcoming"
)

// Categories lists the buckets in tab order.
var Categories = []Category{
	CategoryPopular,
	CategoryTopRated,
	CategoryUpcoming,
	CategoryNowPlaying,
}

var categoryTitles = map[Category]string{
	CategoryPopular:    "Popular",
	CategoryTopRated:   "Top Rated",
	CategoryUpcoming:   "Upcoming",
	CategoryNowPlaying: "Now Playing",
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	_, ok := categoryTitles[c]
	return ok
}

// Title is the display label for the category.
func (c Category) Title() string {
	return categoryTitles[c]
}

// ParseCategory returns the named category, falling back to popular for
// anything outside the enumerated set.
func ParseCategory(s string) Category {
	c := Category(s)
	if !c.Valid() {
		return CategoryPopular
	}
	return c
}
