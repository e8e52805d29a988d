package listing

// DefaultPageRadius is the number of page links shown either side of the current page.
const DefaultPageRadius = 2

// PageControls describes explicit Previous/Next pagination.
type PageControls struct {
	Pages       []int `json:"pages"`
	Current     int   `json:"current"`
	Total       int   `json:"total"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// PageWindow returns the page numbers within radius of current, clamped to [1, total].
func PageWindow(current, total, radius int) []int {
	if total < 1 {
		return []int{}
	}
	if radius < 0 {
		radius = 0
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := max(1, current-radius)
	end := min(total, current+radius)

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Controls builds the Previous/Next view for current out of total pages.
func Controls(current, total, radius int) PageControls {
	return PageControls{
		Pages:       PageWindow(current, total, radius),
		Current:     current,
		Total:       total,
		HasPrevious: current > 1,
		HasNext:     current < total,
	}
}
