package ui

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/use-agent/bookbuddy/models"
)

// ShelfScraper loads a bookshelf page and returns its rows.
type ShelfScraper interface {
	ScrapeShelf(ctx context.Context, shelfURL string) ([]models.Book, error)
}

// PriceSearcher runs one price search on the aggregator.
type PriceSearcher interface {
	SearchPrices(ctx context.Context, isbn string, maxPrice float64) (models.SearchOutcome, error)
}

// URLOpener shows a URL to the user, normally in the system browser.
type URLOpener interface {
	Open(url string) error
}

// ErrClosed is returned once the UI loop has stopped.
var ErrClosed = errors.New("ui: window closed")

// Window owns the form and runs the UI loop. All widget changes happen on
// the loop; everything else posts closures to it with Call or After.
//
// A price search runs on one background goroutine which hands its outcome
// back with After.
type Window struct {
	scraper  ShelfScraper
	searcher PriceSearcher
	opener   URLOpener

	form  *Form
	queue chan func(*Form)
	done  chan struct{}

	// runCtx is set by Run before the loop starts and read only on the loop.
	runCtx context.Context

	scrapeMu sync.Mutex
	workers  sync.WaitGroup
}

// NewWindow returns a window with an empty shelf. Call Run to start the loop.
func NewWindow(sc ShelfScraper, ps PriceSearcher, op URLOpener) *Window {
	return &Window{
		scraper:  sc,
		searcher: ps,
		opener:   op,
		form:     newForm(),
		queue:    make(chan func(*Form), 16),
		done:     make(chan struct{}),
	}
}

// Run processes queued closures until ctx is cancelled. Background
// searches started from the loop inherit ctx.
func (w *Window) Run(ctx context.Context) {
	w.runCtx = ctx
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-w.queue:
			fn(w.form)
		}
	}
}

// Call runs fn on the loop and waits for it to finish.
func (w *Window) Call(ctx context.Context, fn func(*Form)) error {
	finished := make(chan struct{})
	wrapped := func(f *Form) {
		defer close(finished)
		fn(f)
	}

	select {
	case w.queue <- wrapped:
	case <-w.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-w.done:
		// The loop may have run fn just before exiting.
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// After queues fn for the loop without waiting. It is dropped if the loop
// has already stopped.
func (w *Window) After(fn func(*Form)) {
	select {
	case w.queue <- fn:
	case <-w.done:
		slog.Debug("ui: dropping callback, window closed")
	}
}

// Snapshot returns the current state of every widget.
func (w *Window) Snapshot(ctx context.Context) (models.FormView, error) {
	var v models.FormView
	err := w.Call(ctx, func(f *Form) { v = f.View() })
	return v, err
}

// ScrapeShelf scrapes the bookshelf at shelfURL into the shelf. Only one
// scrape runs at a time.
//
// On failure the status label shows the generic scrape error and the
// error is returned for the caller's response.
func (w *Window) ScrapeShelf(ctx context.Context, shelfURL string) error {
	if !w.scrapeMu.TryLock() {
		return models.NewScrapeError(models.ErrCodeBusy, "a bookshelf scrape is already running", nil)
	}
	defer w.scrapeMu.Unlock()

	if err := w.Call(ctx, func(f *Form) { f.setStatus(MsgGenerating, "") }); err != nil {
		return err
	}

	books, err := w.scraper.ScrapeShelf(ctx, shelfURL)
	if err != nil {
		slog.Error("bookshelf scrape failed", "url", shelfURL, "error", err)
		// The request context may be gone; the label must still change.
		w.After(func(f *Form) { f.setStatus(MsgScrapeError, colorError) })
		return err
	}

	// The scrape finished; show it even if the caller has gone away.
	var added int
	err = w.Call(context.WithoutCancel(ctx), func(f *Form) {
		added = f.shelf.Add(books...)
		f.showShelf()
	})
	if err != nil {
		return err
	}

	slog.Info("bookshelf updated", "rows", len(books), "added", added)
	return nil
}

// SubmitSearch handles the search button: title lookup, budget validation,
// then one background search. Validation failures only change the search
// status label. A click while a search is running is ignored.
//
// started reports whether a worker was launched.
func (w *Window) SubmitSearch(ctx context.Context, title, rawPrice string) (started bool, err error) {
	err = w.Call(ctx, func(f *Form) {
		if f.searching {
			return
		}
		f.setSearchStatus("", "")

		book, ok := f.shelf.FindByTitle(title)
		if !ok {
			f.setSearchStatus(MsgBookNotFound, colorError)
			return
		}

		maxPrice, budgetErr := ParseBudget(rawPrice)
		if budgetErr != nil {
			f.setSearchStatus(budgetMessage(rawPrice, budgetErr), colorError)
			return
		}

		if book.ISBN == "" {
			f.setSearchStatus(MsgNoISBN, colorError)
			return
		}

		f.beginSearch()
		w.workers.Add(1)
		go w.search(w.runCtx, book.ISBN, maxPrice)
		started = true
	})
	return started, err
}

// search is the background worker. It never touches the form directly.
func (w *Window) search(ctx context.Context, isbn string, maxPrice float64) {
	defer w.workers.Done()

	outcome, err := w.searcher.SearchPrices(ctx, isbn, maxPrice)
	if err != nil {
		slog.Error("price search failed", "isbn", isbn, "max", maxPrice, "error", err)
		outcome = models.SearchOutcome{Status: models.SearchError}
	}

	w.After(func(f *Form) { f.DisplaySearchResult(outcome) })
}

// OpenResult opens the current result link with the URLOpener.
func (w *Window) OpenResult(ctx context.Context) error {
	var target string
	err := w.Call(ctx, func(f *Form) {
		if f.resultLink != nil {
			target = f.resultLink.URL
		}
	})
	if err != nil {
		return err
	}
	if target == "" {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "there is no search result to open", nil)
	}

	if err := w.opener.Open(target); err != nil {
		slog.Error("opening result link failed", "url", target, "error", err)
		return models.NewScrapeError(models.ErrCodeInternal, "could not open the system browser", err)
	}
	return nil
}

// Wait blocks until every background search has handed back its outcome.
func (w *Window) Wait() {
	w.workers.Wait()
}
