package htmltomarkdown_test

import (
	"testing"

	"github.com/evtable/evtable"
	"github.com/evtable/evtable/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements evtable.MarkdownConverter at compile time.
var _ evtable.MarkdownConverter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts basic paragraph", func(t *testing.T) {
		t.Parallel()

		html := `<p>Doors open at 9am.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Doors open at 9am.")
	})

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		html := `<h1>DevOps Summit</h1><h2>Agenda</h2><h3>Day One</h3>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "# DevOps Summit")
		assert.Contains(t, md, "## Agenda")
		assert.Contains(t, md, "### Day One")
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		html := `<p>Register at <a href="https://example.com/tickets">Tickets</a> before Friday.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[Tickets](https://example.com/tickets)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		html := `<ul><li>Keynotes</li><li>Workshops</li><li>Networking</li></ul>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "- Keynotes")
		assert.Contains(t, md, "- Workshops")
		assert.Contains(t, md, "- Networking")
	})

	t.Run("converts agenda tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Time</th><th>Session</th></tr></thead>
<tbody><tr><td>9:00</td><td>Opening keynote</td></tr><tr><td>10:30</td><td>Platform panel</td></tr></tbody>
</table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Time")
		assert.Contains(t, md, "Opening keynote")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("converts bold and italic", func(t *testing.T) {
		t.Parallel()

		html := `<p><strong>Early bird</strong> pricing ends <em>soon</em>.</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "**Early bird**")
		assert.Contains(t, md, "*soon*")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("")

		require.Error(t, err)
		assert.Equal(t, evtable.EINVALID, evtable.ErrorCode(err))
	})
}
