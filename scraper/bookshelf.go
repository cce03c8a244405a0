package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/use-agent/bookbuddy/models"
)

// shelfMarker appears once the shelf table header has rendered.
const shelfMarker = `//*[contains(text(), 'my rating')]`

const scrollToBottomJS = `() => window.scrollTo(0, document.body.scrollHeight)`

// ScrapeShelf loads a Goodreads bookshelf and returns its books.
//
// Steps:
//  1. Validate the URL.
//  2. Launch a browser and block heavy resources.
//  3. Navigate and wait for the "my rating" header (MarkerTimeout).
//  4. Scroll to the bottom ScrollAttempts times, pausing ScrollPause each
//     time, so the infinite-scroll rows load.
//  5. Parse the rendered HTML.
func (s *Scraper) ScrapeShelf(ctx context.Context, shelfURL string) ([]models.Book, error) {
	if err := ValidateShelfURL(shelfURL); err != nil {
		return nil, err
	}

	if s.goodreadsCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.goodreadsCfg.Timeout)
		defer cancel()
	}

	sess, err := s.openSession(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.close()

	if len(s.browserCfg.BlockedResourceTypes) > 0 {
		router := setupHijack(sess.page, s.browserCfg.BlockedResourceTypes)
		defer func() { _ = router.Stop() }()
	}

	p := sess.page.Context(ctx)

	if err := p.Navigate(shelfURL); err != nil {
		return nil, categorizeError(err, models.ErrCodeNavigation, "navigation to bookshelf failed")
	}

	if _, err := p.Timeout(s.goodreadsCfg.MarkerTimeout).ElementX(shelfMarker); err != nil {
		if ctx.Err() != nil {
			return nil, categorizeError(ctx.Err(), models.ErrCodeNavigation, "bookshelf did not load")
		}
		return nil, models.NewScrapeError(
			models.ErrCodeMarkerNotFound,
			fmt.Sprintf("bookshelf table did not appear within %s", s.goodreadsCfg.MarkerTimeout),
			err,
		)
	}

	for i := 0; i < s.goodreadsCfg.ScrollAttempts; i++ {
		if _, err := p.Eval(scrollToBottomJS); err != nil {
			return nil, categorizeError(err, models.ErrCodeNavigation, fmt.Sprintf("scroll %d failed", i+1))
		}
		select {
		case <-time.After(s.goodreadsCfg.ScrollPause):
		case <-ctx.Done():
			return nil, categorizeError(ctx.Err(), models.ErrCodeNavigation, "scrolling interrupted")
		}
	}

	rawHTML, err := p.HTML()
	if err != nil {
		return nil, categorizeError(err, models.ErrCodeNavigation, "failed to extract page HTML")
	}

	books, err := ParseShelf(rawHTML)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to parse bookshelf", err)
	}

	slog.Info("bookshelf scraped", "url", shelfURL, "rows", len(books))
	return books, nil
}

// ValidateShelfURL rejects anything that is not an absolute http(s) URL.
func ValidateShelfURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.NewScrapeError(
			models.ErrCodeInvalidInput,
			"bookshelf URL must be an absolute http or https URL",
			err,
		)
	}
	return nil
}
