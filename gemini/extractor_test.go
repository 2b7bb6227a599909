package gemini_test

import (
	"testing"

	"github.com/evtable/evtable"
	"github.com/evtable/evtable/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildUserPrompt("https://devopssummit.com", "# DevOps Summit\n\nJune 2-4, Austin.")

	assert.Contains(t, prompt, "<source>https://devopssummit.com</source>")
	assert.Contains(t, prompt, "June 2-4, Austin.")
	assert.Contains(t, prompt, "Extract the event details")
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	assert.Equal(t, "application/json", config.ResponseMIMEType)
	require.NotNil(t, config.ResponseSchema)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.2, float64(*config.Temperature), 0.001)
}

func TestEventSchema(t *testing.T) {
	t.Parallel()

	schema := gemini.EventSchema()

	assert.Equal(t, []string{"name"}, schema.Required)
	for _, name := range evtable.Columns[1:] {
		assert.Contains(t, schema.Properties, name, "schema missing column %q", name)
	}
}

func TestParseExtraction(t *testing.T) {
	t.Parallel()

	t.Run("decodes field shapes", func(t *testing.T) {
		t.Parallel()

		fields, err := gemini.ParseExtraction(`{
			"name": "DevOps Summit",
			"topics": ["sre", "platform engineering"],
			"ticket_cost": 499
		}`)

		require.NoError(t, err)
		assert.Equal(t, evtable.Scalar("DevOps Summit"), fields["name"])
		assert.Equal(t, evtable.List("sre", "platform engineering"), fields["topics"])
		assert.Equal(t, evtable.Scalar("499"), fields["ticket_cost"])
	})

	t.Run("rejects empty response", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.ParseExtraction("  ")
		require.Error(t, err)
		assert.Equal(t, evtable.EINTERNAL, evtable.ErrorCode(err))
	})

	t.Run("rejects non-JSON response", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.ParseExtraction("I could not find any event details.")
		require.Error(t, err)
		assert.Equal(t, evtable.EINTERNAL, evtable.ErrorCode(err))
	})
}
