package shelf

import (
	"strings"

	"github.com/use-agent/bookbuddy/models"
)

// Shelf is the in-memory book list plus the set of keys already seen.
// It lives for the whole process and is never persisted.
//
// Shelf is not safe for concurrent use; the UI loop owns it.
type Shelf struct {
	books []models.Book
	seen  map[string]struct{}
}

// New returns an empty shelf.
func New() *Shelf {
	return &Shelf{seen: make(map[string]struct{})}
}

// Add appends every book whose key has not been seen before and returns
// how many were appended. Order is preserved.
func (s *Shelf) Add(books ...models.Book) int {
	added := 0
	for _, b := range books {
		k := key(b)
		if _, dup := s.seen[k]; dup {
			continue
		}
		s.seen[k] = struct{}{}
		s.books = append(s.books, b)
		added++
	}
	return added
}

// FindByTitle returns the first book whose title equals title, ignoring case.
func (s *Shelf) FindByTitle(title string) (models.Book, bool) {
	for _, b := range s.books {
		if strings.EqualFold(b.Title, title) {
			return b, true
		}
	}
	return models.Book{}, false
}

// Books returns a copy of the list.
func (s *Shelf) Books() []models.Book {
	out := make([]models.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Len reports the number of books.
func (s *Shelf) Len() int { return len(s.books) }

// Text renders the list one book per line.
func (s *Shelf) Text() string {
	var b strings.Builder
	for _, book := range s.books {
		b.WriteString(book.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// key is the ISBN; rows without one fall back to the title so a second
// scrape of the same page does not repeat them.
func key(b models.Book) string {
	if b.ISBN != "" {
		return "isbn:" + b.ISBN
	}
	return "title:" + strings.ToLower(b.Title)
}
