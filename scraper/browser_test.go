package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/bookbuddy/config"
	"github.com/use-agent/bookbuddy/models"
)

// shelfPage renders one row up front. Every window.scrollTo call appends a
// row, standing in for the infinite scroll. The hook is installed in the
// head so it exists before the marker is parsed.
const shelfPage = `<!DOCTYPE html>
<html><head>
<script>
  let scrolls = 0;
  const scroll = window.scrollTo.bind(window);
  window.scrollTo = function (x, y) {
    scrolls++;
    const row = document.createElement("tr");
    row.innerHTML = '<td class="field title"><a>Scrolled ' + scrolls + '</a></td>' +
      '<td class="field isbn"><div class="value">S' + scrolls + '</div></td>';
    document.getElementById("books").appendChild(row);
    scroll(x, y);
  };
</script>
</head><body>
<table id="books">
  <tr><th>title</th><th>isbn</th><th>my rating</th></tr>
  <tr>
    <td class="field title"><a href="/book/1">Dune
      <span>(Dune, #1)</span></a></td>
    <td class="field isbn"><div class="value"> 0441172717 </div></td>
  </tr>
</table>
<img src="/cover.jpg">
</body></html>`

const searchPage = `<!DOCTYPE html>
<html><body>
<a id="showadvanced" href="#" onclick="document.getElementById('adv').style.display='block'; return false;">Advanced</a>
<form id="adv" action="/results" method="get" style="display:none" %s>
  <input name="isbn">
  <input name="max" value="100">
  <input type="submit" value="Search">
</form>
</body></html>`

func newTestSite(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var coverRequests atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/shelf", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, shelfPage)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>Loading...</p></body></html>`)
	})
	mux.HandleFunc("/cover.jpg", func(w http.ResponseWriter, r *http.Request) {
		coverRequests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/used/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, searchPage, "")
	})
	mux.HandleFunc("/stuck/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, searchPage, `onsubmit="return false;"`)
	})
	mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("isbn") == "0000000000" {
			fmt.Fprint(w, `<html><body><p>Sorry, can't find any book.</p></body></html>`)
			return
		}
		fmt.Fprintf(w, `<html><body><p>%s under %s</p></body></html>`,
			r.URL.Query().Get("isbn"), r.URL.Query().Get("max"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &coverRequests
}

// browserScraper returns a Scraper on the local Chromium, skipping the test
// when there is none.
func browserScraper(t *testing.T, searchURL string) *Scraper {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests are skipped in short mode")
	}
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no Chromium found")
	}

	cfg := config.Load()
	cfg.Browser.BrowserBin = bin
	cfg.Browser.Headless = true
	cfg.Browser.NoSandbox = true
	cfg.Browser.Proxy = ""
	cfg.Browser.BlockedResourceTypes = []string{"Image"}
	cfg.Goodreads.MarkerTimeout = 5 * time.Second
	cfg.Goodreads.ScrollAttempts = 3
	cfg.Goodreads.ScrollPause = 50 * time.Millisecond
	cfg.Goodreads.Timeout = 30 * time.Second
	cfg.Search.URL = searchURL
	cfg.Search.WaitTimeout = 3 * time.Second
	cfg.Search.Timeout = 30 * time.Second
	return New(cfg)
}

func TestBrowser_ScrapeShelfScrollsEachAttempt(t *testing.T) {
	site, coverRequests := newTestSite(t)
	s := browserScraper(t, site.URL+"/used/")

	books, err := s.ScrapeShelf(context.Background(), site.URL+"/shelf")
	require.NoError(t, err)

	assert.Equal(t, []models.Book{
		{Title: "Dune (Dune, #1)", ISBN: "0441172717"},
		{Title: "Scrolled 1", ISBN: "S1"},
		{Title: "Scrolled 2", ISBN: "S2"},
		{Title: "Scrolled 3", ISBN: "S3"},
	}, books)
	assert.Zero(t, coverRequests.Load(), "images are blocked")
}

func TestBrowser_ScrapeShelfMarkerMissing(t *testing.T) {
	site, _ := newTestSite(t)
	s := browserScraper(t, site.URL+"/used/")
	s.goodreadsCfg.MarkerTimeout = 500 * time.Millisecond

	_, err := s.ScrapeShelf(context.Background(), site.URL+"/empty")

	var se *models.ScrapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, models.ErrCodeMarkerNotFound, se.Code)
}

func TestBrowser_SearchPricesFillsAdvancedForm(t *testing.T) {
	site, _ := newTestSite(t)
	s := browserScraper(t, site.URL+"/used/")

	outcome, err := s.SearchPrices(context.Background(), "0441172717", 12.5)
	require.NoError(t, err)

	assert.Equal(t, models.SearchFound, outcome.Status)
	assert.Equal(t, site.URL+"/results?isbn=0441172717&max=12.5", outcome.URL)
}

func TestBrowser_SearchPricesNoResults(t *testing.T) {
	site, _ := newTestSite(t)
	s := browserScraper(t, site.URL+"/used/")

	outcome, err := s.SearchPrices(context.Background(), "0000000000", 5)
	require.NoError(t, err)

	assert.Equal(t, models.SearchOutcome{Status: models.SearchNoResults}, outcome)
}

func TestBrowser_SearchPricesSubmitGoesNowhere(t *testing.T) {
	site, _ := newTestSite(t)
	s := browserScraper(t, site.URL+"/stuck/")

	outcome, err := s.SearchPrices(context.Background(), "0441172717", 12.5)

	var se *models.ScrapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, models.ErrCodeSearchFailed, se.Code)
	assert.Equal(t, models.SearchError, outcome.Status)
}
