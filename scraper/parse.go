package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/bookbuddy/models"
)

// noTitle is used when the title cell has no link.
const noTitle = "No title found"

// Goodreads shelf table cells ("All" view, table layout).
var (
	isbnCell  = cascadia.MustCompile("td.field.isbn")
	isbnValue = cascadia.MustCompile("div.value")
	titleCell = cascadia.MustCompile("td.field.title")
	titleLink = cascadia.MustCompile("a")
)

// ParseShelf extracts one book per ISBN cell in document order. The title
// comes from the nearest preceding title cell in the same row.
//
// Duplicates are returned as found; the shelf dedups them.
func ParseShelf(rawHTML string) ([]models.Book, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	var books []models.Book
	doc.FindMatcher(isbnCell).Each(func(_ int, cell *goquery.Selection) {
		isbn := collapse(cell.FindMatcher(isbnValue).First().Text())

		title := noTitle
		link := cell.PrevAllMatcher(titleCell).First().FindMatcher(titleLink).First()
		if link.Length() > 0 {
			title = collapse(link.Text())
		}

		books = append(books, models.Book{Title: title, ISBN: isbn})
	})

	return books, nil
}

// collapse trims text and folds inner whitespace runs (series suffixes sit
// on their own line inside the title link) into single spaces.
func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
