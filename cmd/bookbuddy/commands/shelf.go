package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/use-agent/bookbuddy/models"
	"github.com/use-agent/bookbuddy/scraper"
	"github.com/use-agent/bookbuddy/shelf"
)

var shelfCmd = &cobra.Command{
	Use:   "shelf <url>",
	Short: "Scrapes a Goodreads shelf once and prints its books.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		books, err := scraper.New(cfg).ScrapeShelf(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		s := shelf.New()
		s.Add(books...)
		renderShelf(cmd.OutOrStdout(), s.Books())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shelfCmd)
}

func renderShelf(out io.Writer, books []models.Book) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "Title", "ISBN"})

	var missing int
	for i, b := range books {
		isbn := b.ISBN
		if isbn == "" {
			isbn = "-"
			missing++
		}
		t.AppendRow(table.Row{i + 1, b.Title, isbn})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d books", len(books)), fmt.Sprintf("%d without ISBN", missing)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
