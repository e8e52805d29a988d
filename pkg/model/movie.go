package model

// Movie is a catalog record as returned by TMDB. List endpoints fill the summary
// fields; the detail endpoint additionally fills runtime, budget, revenue, genres
// and the appended credits, videos and reviews.
type Movie struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	OriginalTitle    string   `json:"original_title,omitempty"`
	Overview         string   `json:"overview,omitempty"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	ReleaseDate      string   `json:"release_date"`
	Runtime          int      `json:"runtime,omitempty"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	Popularity       float64  `json:"popularity,omitempty"`
	Budget           int64    `json:"budget,omitempty"`
	Revenue          int64    `json:"revenue,omitempty"`
	OriginalLanguage string   `json:"original_language"`
	GenreIDs         []int    `json:"genre_ids,omitempty"`
	Genres           []Genre  `json:"genres,omitempty"`
	Tagline          string   `json:"tagline,omitempty"`
	Status           string   `json:"status,omitempty"`
	Credits          *Credits `json:"credits,omitempty"`
	Videos           *Videos  `json:"videos,omitempty"`
	Reviews          *Reviews `json:"reviews,omitempty"`
}

// HasPoster reports whether the movie can be rendered in a poster grid.
func (m Movie) HasPoster() bool {
	return m.PosterPath != ""
}

// Trailer returns the first YouTube trailer among the appended videos, if any.
func (m Movie) Trailer() *Video {
	if m.Videos == nil {
		return nil
	}
	for i := range m.Videos.Results {
		v := m.Videos.Results[i]
		if v.Site == "YouTube" && v.Type == "Trailer" {
			return &v
		}
	}
	return nil
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type CrewMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

type Videos struct {
	Results []Video `json:"results"`
}

type Video struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type Reviews struct {
	Results []Review `json:"results"`
}

type Review struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
}

// MoviePage is the envelope of every paginated catalog endpoint.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}
