package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/use-agent/bookbuddy/models"
	"github.com/use-agent/bookbuddy/scraper"
	"github.com/use-agent/bookbuddy/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search <isbn> <max-price>",
	Short: "Runs one used-book price search and prints the results page.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxPrice, err := ui.ParseBudget(args[1])
		if err != nil {
			return err
		}

		outcome, err := scraper.New(cfg).SearchPrices(cmd.Context(), args[0], maxPrice)
		if err != nil {
			return err
		}
		return printOutcome(cmd.OutOrStdout(), outcome)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

// printOutcome writes the same message the form would show.
func printOutcome(out io.Writer, outcome models.SearchOutcome) error {
	var err error
	switch {
	case outcome.Status == models.SearchFound && outcome.URL != "":
		_, err = fmt.Fprintf(out, "%s\n%s\n", ui.MsgResultLink, outcome.URL)
	case outcome.Status == models.SearchNoResults:
		_, err = fmt.Fprintln(out, ui.MsgNoResults)
	default:
		_, err = fmt.Fprintln(out, ui.MsgSearchError)
	}
	return err
}
