package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/bookbuddy/models"
)

const shelfRow = `
<tr class="bookalike review">
  <td class="field checkbox"><div class="value"><input type="checkbox"></div></td>
  <td class="field title"><label>title</label><div class="value">
    <a title="Dune" href="/book/show/44767458-dune">
      Dune
      <span class="darkGreyText">(Dune, #1)</span>
    </a></div></td>
  <td class="field author"><label>author</label><div class="value"><a href="/author/show/58.Frank_Herbert">Herbert, Frank</a></div></td>
  <td class="field isbn"><label>isbn</label><div class="value">
        0441172717
  </div></td>
</tr>`

func TestParseShelf(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []models.Book
	}{
		{
			name: "goodreads row with series suffix",
			html: `<table><tbody id="booksBody">` + shelfRow + `</tbody></table>`,
			want: []models.Book{{Title: "Dune (Dune, #1)", ISBN: "0441172717"}},
		},
		{
			name: "title cell without link",
			html: `<table><tr>
				<td class="field title"><div class="value">untitled</div></td>
				<td class="field isbn"><div class="value">123</div></td>
			</tr></table>`,
			want: []models.Book{{Title: "No title found", ISBN: "123"}},
		},
		{
			name: "no title cell at all",
			html: `<table><tr><td class="field isbn"><div class="value">456</div></td></tr></table>`,
			want: []models.Book{{Title: "No title found", ISBN: "456"}},
		},
		{
			name: "empty isbn kept",
			html: `<table><tr>
				<td class="field title"><div class="value"><a>Zine</a></div></td>
				<td class="field isbn"><div class="value">  </div></td>
			</tr></table>`,
			want: []models.Book{{Title: "Zine", ISBN: ""}},
		},
		{
			name: "title is taken from the same row",
			html: `<table>
				<tr><td class="field title"><a>First</a></td><td class="field isbn"><div class="value">1</div></td></tr>
				<tr><td class="field title"><a>Second</a></td><td class="field isbn"><div class="value">2</div></td></tr>
			</table>`,
			want: []models.Book{
				{Title: "First", ISBN: "1"},
				{Title: "Second", ISBN: "2"},
			},
		},
		{
			name: "duplicates are returned as found",
			html: `<table>
				<tr><td class="field title"><a>Dup</a></td><td class="field isbn"><div class="value">9</div></td></tr>
				<tr><td class="field title"><a>Dup</a></td><td class="field isbn"><div class="value">9</div></td></tr>
			</table>`,
			want: []models.Book{
				{Title: "Dup", ISBN: "9"},
				{Title: "Dup", ISBN: "9"},
			},
		},
		{
			name: "no shelf table",
			html: `<html><body><p>Sign in to Goodreads</p></body></html>`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseShelf(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollapse(t *testing.T) {
	assert.Equal(t, "a b c", collapse("\n  a\t b \n c  "))
	assert.Equal(t, "", collapse(" \n\t"))
}
