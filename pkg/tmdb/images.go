package tmdb

import "strings"

const imageBaseURL = "https://image.tmdb.org/t/p"

// Image sizes used by the UI.
const (
	PosterSize   = "w500"
	BackdropSize = "original"
	ProfileSize  = "w185"
	ThumbSize    = "w342"
)

// ImageURL builds an absolute image URL, or "" when path is empty.
func ImageURL(path, size string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if size == "" {
		size = PosterSize
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return imageBaseURL + "/" + size + path
}
