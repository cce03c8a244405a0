package ui

import (
	"errors"
	"fmt"

	"github.com/use-agent/bookbuddy/models"
	"github.com/use-agent/bookbuddy/shelf"
)

// Texts shown on the form.
const (
	MsgGenerating   = "Generating your bookshelf... This may take a few moments..."
	MsgShelfReady   = "Here is your bookshelf:"
	MsgScrapeError  = "Error- please ensure the URL was entered properly."
	MsgSearching    = "Searching for books..."
	MsgBookNotFound = "Book not found. Please make sure to enter the exact title."
	MsgNoResults    = "Sorry, no results matched your book and price. Please try again."
	MsgSearchError  = "Error occurred during search. Please try again."
	MsgResultLink   = "Click here for all the books we found!"
	MsgNoISBN       = "Invalid input: this book has no ISBN, please search manually."
	MsgNegative     = "Invalid input: Price cannot be negative."
)

const colorError = "red"

// Form is the widget state of the window. Only the UI loop touches it.
type Form struct {
	shelf *shelf.Shelf

	status        models.Label
	searchEnabled bool
	searchStatus  models.Label
	searching     bool
	resultLink    *models.Link
}

func newForm() *Form {
	return &Form{shelf: shelf.New()}
}

// Shelf exposes the books scraped so far.
func (f *Form) Shelf() *shelf.Shelf { return f.shelf }

func (f *Form) setStatus(text, color string) {
	f.status = models.Label{Text: text, Color: color}
}

func (f *Form) setSearchStatus(text, color string) {
	f.searchStatus = models.Label{Text: text, Color: color}
}

// showShelf refreshes the list and reveals the search widgets once there
// is at least one book.
func (f *Form) showShelf() {
	f.setStatus(MsgShelfReady, "")
	if f.shelf.Len() > 0 {
		f.searchEnabled = true
	}
}

func (f *Form) beginSearch() {
	f.searching = true
	f.setSearchStatus(MsgSearching, "")
}

// DisplaySearchResult replaces the search status and any previous result
// link with what the outcome calls for. Only a found outcome with a URL
// produces a link.
func (f *Form) DisplaySearchResult(outcome models.SearchOutcome) {
	f.searching = false
	f.setSearchStatus("", "")
	f.resultLink = nil

	switch {
	case outcome.Status == models.SearchFound && outcome.URL != "":
		f.resultLink = &models.Link{Text: MsgResultLink, URL: outcome.URL}
	case outcome.Status == models.SearchNoResults:
		f.setSearchStatus(MsgNoResults, colorError)
	default:
		f.setSearchStatus(MsgSearchError, colorError)
	}
}

// View snapshots every widget.
func (f *Form) View() models.FormView {
	v := models.FormView{
		Status:        f.status,
		Books:         f.shelf.Books(),
		BooksText:     f.shelf.Text(),
		SearchEnabled: f.searchEnabled,
		SearchStatus:  f.searchStatus,
		Searching:     f.searching,
	}
	if f.resultLink != nil {
		link := *f.resultLink
		v.ResultLink = &link
	}
	return v
}

// budgetMessage is the red label text for a rejected budget.
func budgetMessage(raw string, err error) string {
	if errors.Is(err, ErrBudgetNegative) {
		return MsgNegative
	}
	return fmt.Sprintf("Invalid input: could not convert %q to a price.", raw)
}
