package models

// ShelfRequest is the payload for POST /api/v1/shelf.
type ShelfRequest struct {
	// URL is the "All" view of a Goodreads bookshelf. Required.
	URL string `json:"url" binding:"required"`
}

// SearchRequest is the payload for POST /api/v1/search.
//
// MaxPrice is kept as the raw field text so the form can report exactly
// what was typed when it is not a number.
type SearchRequest struct {
	Title    string `json:"title"`
	MaxPrice string `json:"max_price"`
}
