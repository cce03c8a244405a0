package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/bookbuddy/api"
	"github.com/use-agent/bookbuddy/scraper"
	"github.com/use-agent/bookbuddy/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the Book Buddy form and opens it in the system browser.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// serve runs until ctx is cancelled, then drains the HTTP server and waits
// for a running price search to hand back its outcome.
func serve(ctx context.Context) error {
	slog.Info("bookbuddy starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"headless", cfg.Browser.Headless,
	)

	// ── 1. Scraper and UI loop ──────────────────────────────────────
	sc := scraper.New(cfg)
	opener := ui.SystemOpener{}
	w := ui.NewWindow(sc, sc, opener)

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go w.Run(loopCtx)

	// ── 2. Router and listener ──────────────────────────────────────
	router := api.NewRouter(w, cfg, time.Now())

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", ln.Addr().String())
		serveErr <- srv.Serve(ln)
	}()

	// ── 3. Show the form ────────────────────────────────────────────
	formURL := formAddress(ln.Addr().String(), cfg.Auth.APIKeys)
	if cfg.Server.OpenBrowser {
		if err := opener.Open(formURL); err != nil {
			slog.Warn("could not open the system browser", "error", err)
		}
	}
	fmt.Printf("Book Buddy is running at %s\n", formURL)

	// ── 4. Graceful shutdown ────────────────────────────────────────
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
	}

	// Give in-flight requests 5 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// Cancelling the loop cancels a running search; its browser is killed
	// before Wait returns.
	stopLoop()
	w.Wait()

	slog.Info("bookbuddy stopped")
	return nil
}

// formAddress is the page URL for a listener address. The first API key, if
// any, travels in the fragment so it never reaches server logs.
func formAddress(addr string, apiKeys []string) string {
	u := url.URL{Scheme: "http", Host: addr, Path: "/"}
	for _, key := range apiKeys {
		if key != "" {
			u.Fragment = "key=" + key
			break
		}
	}
	return u.String()
}
