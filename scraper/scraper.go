package scraper

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/bookbuddy/config"
	"github.com/use-agent/bookbuddy/models"
	"github.com/ysmood/gson"
)

// Scraper drives headless Chromium against the bookshelf site and the
// price aggregator. Every call launches its own browser and kills it when
// done; nothing is pooled between calls.
type Scraper struct {
	browserCfg   config.BrowserConfig
	goodreadsCfg config.GoodreadsConfig
	searchCfg    config.SearchConfig
}

// New returns a Scraper. No browser is started until a scrape or search runs.
func New(cfg *config.Config) *Scraper {
	return &Scraper{
		browserCfg:   cfg.Browser,
		goodreadsCfg: cfg.Goodreads,
		searchCfg:    cfg.Search,
	}
}

// session is one launched browser with a single tab.
type session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// openSession launches Chromium, connects to it and opens a blank tab with
// stealth and extra headers applied.
func (s *Scraper) openSession(ctx context.Context) (*session, error) {
	l := launcher.New().
		Context(ctx).
		Headless(s.browserCfg.Headless).
		NoSandbox(s.browserCfg.NoSandbox)

	if s.browserCfg.BrowserBin != "" {
		l = l.Bin(s.browserCfg.BrowserBin)
	}
	if s.browserCfg.Proxy != "" {
		l = l.Proxy(s.browserCfg.Proxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("log-level"), "3")
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))
	if s.browserCfg.WindowSize != "" {
		l.Set(flags.Flag("window-size"), s.browserCfg.WindowSize)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Debug("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to open tab",
			err,
		)
	}

	// Stealth must be installed before the first navigation.
	if s.browserCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	if s.browserCfg.AcceptLanguage != "" {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{
				"Accept-Language": s.browserCfg.AcceptLanguage,
			}),
		}.Call(page)
	}

	return &session{launcher: l, browser: browser, page: page}, nil
}

// close tears the session down. It is safe to call after the request
// context has expired because it uses the page without that context.
func (ss *session) close() {
	if err := ss.page.Close(); err != nil {
		slog.Debug("session: closing tab failed", "error", err)
	}
	if err := ss.browser.Close(); err != nil {
		slog.Debug("session: closing browser failed", "error", err)
	}
	ss.launcher.Kill()
	ss.launcher.Cleanup()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed ScrapeErrors so callers can
// tell timeouts from other failures.
func categorizeError(err error, code, msg string) *models.ScrapeError {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(code, msg, err)
	}
}
