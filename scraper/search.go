package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/bookbuddy/models"
)

// noResultsMarker is printed by the aggregator when nothing matches.
const noResultsMarker = "Sorry, can't find"

// Form controls on the aggregator's used-book search page.
const (
	advancedToggle = "#showadvanced"
	isbnField      = `[name="isbn"]`
	maxPriceField  = `[name="max"]`
)

// SearchPrices runs the aggregator's advanced search for isbn with a price
// ceiling and classifies the page it lands on.
//
// A failure anywhere returns a ScrapeError; the caller turns that into an
// error outcome.
func (s *Scraper) SearchPrices(ctx context.Context, isbn string, maxPrice float64) (models.SearchOutcome, error) {
	if s.searchCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.searchCfg.Timeout)
		defer cancel()
	}

	sess, err := s.openSession(ctx)
	if err != nil {
		return models.SearchOutcome{Status: models.SearchError}, err
	}
	defer sess.close()

	outcome, err := s.runSearch(ctx, sess, isbn, maxPrice)
	if err != nil {
		return models.SearchOutcome{Status: models.SearchError}, err
	}

	slog.Info("price search finished", "isbn", isbn, "max", maxPrice, "status", outcome.Status)
	return outcome, nil
}

func (s *Scraper) runSearch(ctx context.Context, sess *session, isbn string, maxPrice float64) (models.SearchOutcome, error) {
	wait := s.searchCfg.WaitTimeout
	p := sess.page.Context(ctx)

	if err := p.Navigate(s.searchCfg.URL); err != nil {
		return models.SearchOutcome{}, categorizeError(err, models.ErrCodeNavigation, "navigation to search page failed")
	}

	toggle, err := p.Timeout(wait).Element(advancedToggle)
	if err != nil {
		return models.SearchOutcome{}, searchError(err, "advanced search toggle not found")
	}
	if _, err := toggle.Context(ctx).Timeout(wait).WaitInteractable(); err != nil {
		return models.SearchOutcome{}, searchError(err, "advanced search toggle not clickable")
	}
	if err := toggle.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return models.SearchOutcome{}, searchError(err, "clicking advanced search toggle failed")
	}

	isbnInput, err := p.Timeout(wait).Element(isbnField)
	if err != nil {
		return models.SearchOutcome{}, searchError(err, "isbn field not found")
	}
	isbnInput = isbnInput.Context(ctx)
	if err := isbnInput.Input(isbn); err != nil {
		return models.SearchOutcome{}, searchError(err, "typing isbn failed")
	}

	priceInput, err := p.Timeout(wait).Element(maxPriceField)
	if err != nil {
		return models.SearchOutcome{}, searchError(err, "max price field not found")
	}
	priceInput = priceInput.Context(ctx)
	if err := priceInput.SelectAllText(); err != nil {
		return models.SearchOutcome{}, searchError(err, "clearing max price failed")
	}
	if err := priceInput.Input(FormatPrice(maxPrice)); err != nil {
		return models.SearchOutcome{}, searchError(err, "typing max price failed")
	}

	// Register the load waiter before submitting so the event is not missed.
	waitLoad := p.Timeout(wait).WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := isbnInput.Type(input.Enter); err != nil {
		return models.SearchOutcome{}, searchError(err, "submitting search failed")
	}
	waitLoad()

	if _, err := p.Timeout(wait).Element("body"); err != nil {
		return models.SearchOutcome{}, searchError(err, "results page did not load")
	}

	rawHTML, err := p.HTML()
	if err != nil {
		return models.SearchOutcome{}, searchError(err, "failed to read results page")
	}
	info, err := p.Info()
	if err != nil {
		return models.SearchOutcome{}, searchError(err, "failed to read results URL")
	}

	outcome := ClassifyResult(rawHTML, info.URL, s.searchCfg.URL)
	if outcome.Status == models.SearchError {
		return outcome, models.NewScrapeError(
			models.ErrCodeSearchFailed,
			"price search: submitting did not leave the search page",
			nil,
		)
	}
	return outcome, nil
}

// ClassifyResult decides what the page reached after submitting means.
// Still being on formURL means the submission never happened.
func ClassifyResult(rawHTML, pageURL, formURL string) models.SearchOutcome {
	if strings.Contains(rawHTML, noResultsMarker) {
		return models.SearchOutcome{Status: models.SearchNoResults}
	}
	if pageURL == "" || samePage(pageURL, formURL) {
		return models.SearchOutcome{Status: models.SearchError}
	}
	return models.SearchOutcome{Status: models.SearchFound, URL: pageURL}
}

// samePage compares host, path and query, ignoring a trailing slash and
// the fragment.
func samePage(a, b string) bool {
	ua, errA := url.Parse(a)
	ub, errB := url.Parse(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return strings.EqualFold(ua.Host, ub.Host) &&
		strings.TrimSuffix(ua.Path, "/") == strings.TrimSuffix(ub.Path, "/") &&
		ua.RawQuery == ub.RawQuery
}

// FormatPrice renders a budget the way it is typed into the max field.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func searchError(err error, msg string) *models.ScrapeError {
	return categorizeError(err, models.ErrCodeSearchFailed, fmt.Sprintf("price search: %s", msg))
}
