package models

// Label is a text widget. Color is "" for the default colour or "red".
type Label struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

// Link is the clickable result label.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// FormView is a snapshot of every widget on the form.
type FormView struct {
	Status Label `json:"status"`

	// Books is the shelf in display order; BooksText is the same list as
	// it appears in the scrollable text area.
	Books     []Book `json:"books"`
	BooksText string `json:"books_text"`

	// SearchEnabled reveals the title, price and search widgets.
	SearchEnabled bool `json:"search_enabled"`

	SearchStatus Label `json:"search_status"`

	// Searching is true while the background price search runs.
	Searching bool `json:"searching"`

	// ResultLink is nil until a search finds listings.
	ResultLink *Link `json:"result_link,omitempty"`
}

// FormResponse wraps a FormView for the JSON API.
type FormResponse struct {
	Success bool         `json:"success"`
	Form    *FormView    `json:"form,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
