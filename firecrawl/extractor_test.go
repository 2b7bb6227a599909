package firecrawl_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evtable/evtable"
	"github.com/evtable/evtable/firecrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	var gotReq struct {
		URL     string   `json:"url"`
		Formats []string `json:"formats"`
		Extract struct {
			Schema json.RawMessage `json:"schema"`
			Prompt string          `json:"prompt"`
		} `json:"extract"`
	}
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"extract": {
					"name": "DevOps Summit",
					"city": "Austin",
					"topics": ["platform engineering", "sre"],
					"agenda": {"day 1": "keynotes"}
				},
				"markdown": "# DevOps Summit\n\nJoin us in Austin."
			}
		}`))
	}))
	defer srv.Close()

	e, err := firecrawl.NewExtractor("test-key", firecrawl.WithBaseURL(srv.URL))
	require.NoError(t, err)

	got, err := e.Extract(context.Background(), "https://devopssummit.com")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "https://devopssummit.com", gotReq.URL)
	assert.Equal(t, []string{"extract", "markdown"}, gotReq.Formats)
	assert.NotEmpty(t, gotReq.Extract.Schema)
	assert.Contains(t, gotReq.Extract.Prompt, "event")

	assert.Equal(t, "# DevOps Summit\n\nJoin us in Austin.", got.RawText)
	assert.Equal(t, evtable.Scalar("DevOps Summit"), got.Fields["name"])
	assert.Equal(t, evtable.Scalar("Austin"), got.Fields["city"])
	assert.Equal(t, evtable.List("platform engineering", "sre"), got.Fields["topics"])
	assert.Equal(t, evtable.KindObject, got.Fields["agenda"].Kind())
}

func TestExtractor_Extract_SchemaViolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// name must be a string per the event schema.
		_, _ = w.Write([]byte(`{"success": true, "data": {"extract": {"name": 42}, "markdown": ""}}`))
	}))
	defer srv.Close()

	e, err := firecrawl.NewExtractor("test-key", firecrawl.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = e.Extract(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Equal(t, evtable.EINVALID, evtable.ErrorCode(err))
}

func TestExtractor_Extract_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error": "scrape failed: blocked by robots.txt"}`))
	}))
	defer srv.Close()

	e, err := firecrawl.NewExtractor("test-key", firecrawl.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = e.Extract(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Equal(t, evtable.EUNAVAILABLE, evtable.ErrorCode(err))
	assert.Contains(t, evtable.ErrorMessage(err), "robots.txt")
}

func TestExtractor_Extract_HTTPStatus(t *testing.T) {
	for name, tt := range map[string]struct {
		status int
	}{
		"rate limited": {status: http.StatusTooManyRequests},
		"unauthorized": {status: http.StatusUnauthorized},
		"server error": {status: http.StatusInternalServerError},
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			e, err := firecrawl.NewExtractor("test-key", firecrawl.WithBaseURL(srv.URL))
			require.NoError(t, err)

			_, err = e.Extract(context.Background(), "https://example.com")
			require.Error(t, err)
			assert.Equal(t, evtable.EUNAVAILABLE, evtable.ErrorCode(err))
		})
	}
}

func TestExtractor_Extract_EmptyExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": {"markdown": "# Page"}}`))
	}))
	defer srv.Close()

	e, err := firecrawl.NewExtractor("test-key", firecrawl.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = e.Extract(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Equal(t, evtable.EINVALID, evtable.ErrorCode(err))
}
