package handler

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/bookbuddy/api/middleware"
	"github.com/use-agent/bookbuddy/models"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.tmpl"))
}

// FormWindow is the UI loop the handlers talk to.
type FormWindow interface {
	Snapshot(ctx context.Context) (models.FormView, error)
	ScrapeShelf(ctx context.Context, shelfURL string) error
	SubmitSearch(ctx context.Context, title, rawPrice string) (bool, error)
	OpenResult(ctx context.Context) error
}

// Index returns a handler for GET /, the form page.
func Index() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.tmpl", gin.H{"Title": "Book Buddy"})
	}
}

// GetForm returns a handler for GET /api/v1/form. The page polls it.
func GetForm(w FormWindow) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondForm(c, w, nil)
	}
}

// PostShelf returns a handler for POST /api/v1/shelf.
//
// It blocks until the scrape finishes; the scrape error, if any, is
// reported alongside the form. Rejected input and a busy window do not
// count against the rate limit.
func PostShelf(w FormWindow) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ShelfRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.Refund(c)
			respondForm(c, w, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err))
			return
		}
		err := w.ScrapeShelf(c.Request.Context(), strings.TrimSpace(req.URL))
		if err != nil {
			switch asScrapeError(err).Code {
			case models.ErrCodeInvalidInput, models.ErrCodeBusy:
				middleware.Refund(c)
			}
		}
		respondForm(c, w, err)
	}
}

// PostSearch returns a handler for POST /api/v1/search.
//
// Validation problems are form state, not request errors: the response is
// 200 with the red search status set. The search itself continues in the
// background and shows up on later GET /api/v1/form calls. Only a
// submission that starts a search counts against the rate limit.
func PostSearch(w FormWindow) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.Refund(c)
			respondForm(c, w, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err))
			return
		}
		started, err := w.SubmitSearch(c.Request.Context(), req.Title, req.MaxPrice)
		if !started {
			middleware.Refund(c)
		}
		respondForm(c, w, err)
	}
}

// PostOpen returns a handler for POST /api/v1/open, the result link click.
func PostOpen(w FormWindow) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := w.OpenResult(c.Request.Context())
		respondForm(c, w, err)
	}
}

// respondForm writes the current form, plus err when non-nil.
func respondForm(c *gin.Context, w FormWindow, err error) {
	resp := models.FormResponse{Success: err == nil}

	view, viewErr := w.Snapshot(c.Request.Context())
	if viewErr == nil {
		resp.Form = &view
	} else if err == nil {
		err = viewErr
		resp.Success = false
	}

	if err == nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	scrapeErr := asScrapeError(err)
	resp.Error = scrapeErr.ToDetail()
	c.JSON(mapErrorToStatus(scrapeErr), resp)
}
