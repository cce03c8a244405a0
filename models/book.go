package models

import "fmt"

// Book is one row of a scraped bookshelf.
type Book struct {
	Title string `json:"title"`
	ISBN  string `json:"isbn"`
}

// String renders the book the way the shelf list shows it.
func (b Book) String() string {
	return fmt.Sprintf(" '%s' (ISBN: %s)", b.Title, b.ISBN)
}

// SearchStatus classifies the page the aggregator returned.
type SearchStatus string

const (
	SearchFound     SearchStatus = "found"
	SearchNoResults SearchStatus = "no_results"
	SearchError     SearchStatus = "error"
)

// SearchOutcome is what a price search hands back to the UI loop.
type SearchOutcome struct {
	Status SearchStatus `json:"status"`

	// URL is the results page. Set only when Status is SearchFound.
	URL string `json:"url,omitempty"`
}
