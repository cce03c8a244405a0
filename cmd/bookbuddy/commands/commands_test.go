package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/use-agent/bookbuddy/models"
	"github.com/use-agent/bookbuddy/ui"
)

func TestFormAddress(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"no keys", nil, "http://127.0.0.1:8765/"},
		{"first key in fragment", []string{"abc", "def"}, "http://127.0.0.1:8765/#key=abc"},
		{"empty keys skipped", []string{"", "def"}, "http://127.0.0.1:8765/#key=def"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formAddress("127.0.0.1:8765", tt.keys))
		})
	}
}

func TestRenderShelf(t *testing.T) {
	var buf bytes.Buffer
	renderShelf(&buf, []models.Book{
		{Title: "Dune", ISBN: "0441172717"},
		{Title: "Untitled Draft", ISBN: ""},
	})

	out := buf.String()
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "0441172717")
	assert.Contains(t, out, "Untitled Draft")
	// Footers are upper-cased by the table style.
	assert.Contains(t, strings.ToLower(out), "2 books")
	assert.Contains(t, strings.ToLower(out), "1 without isbn")
	assert.True(t, strings.HasPrefix(out, "╭"), "rounded style expected")
}

func TestPrintOutcome(t *testing.T) {
	tests := []struct {
		name    string
		outcome models.SearchOutcome
		want    string
	}{
		{
			"found",
			models.SearchOutcome{Status: models.SearchFound, URL: "https://www.addall.com/r"},
			ui.MsgResultLink + "\nhttps://www.addall.com/r\n",
		},
		{"no results", models.SearchOutcome{Status: models.SearchNoResults}, ui.MsgNoResults + "\n"},
		{"error", models.SearchOutcome{Status: models.SearchError}, ui.MsgSearchError + "\n"},
		{"found without url", models.SearchOutcome{Status: models.SearchFound}, ui.MsgSearchError + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.NoError(t, printOutcome(&buf, tt.outcome))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
