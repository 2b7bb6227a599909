// Package firecrawl provides an evtable.Extractor backed by a
// Firecrawl-style scrape-and-extract HTTP API.
package firecrawl

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/evtable/evtable"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.firecrawl.dev"

// DefaultTimeout bounds a single scrape call end to end.
const DefaultTimeout = 30 * time.Second

// eventSchema declares the expected extraction shape. It is sent with every
// scrape request and also compiled locally to validate what comes back: the
// service's output shape is not contractually fixed.
//
//go:embed schema.json
var eventSchema []byte

// extractPrompt instructs the extraction model on what to pull from the
// page.
const extractPrompt = `Extract detailed event information including:
- name
- description
- start date
- end date
- city
- state (full state name)
- country
- attendee count
- topics or themes that will be discussed at conference
- event type: choose between: conference, workshop, roundtable
- titles of attendees attending event
- logo URL
- sponsorship options (not ticket prices)
- event agenda or schedule
- demographics of attendees
- list of companies who are sponsoring the event, also called partners or exhibitors (company names only)
- hosting company or organization
- contact email
- cost of ticket to attend
Provide as much detail as possible for each field. Don't make anything up. Use information that you extracted only.
If you don't know what something is, leave it blank.`

// Ensure Extractor implements evtable.Extractor at compile time.
var _ evtable.Extractor = (*Extractor)(nil)

// Extractor calls the scrape-and-extract API for a URL and returns the
// structured field guess plus the page markdown.
type Extractor struct {
	client  *http.Client
	baseURL string
	apiKey  string
	schema  *jsonschema.Schema
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithBaseURL overrides the API endpoint, e.g. for a self-hosted instance
// or a test server.
func WithBaseURL(u string) Option {
	return func(e *Extractor) {
		e.baseURL = u
	}
}

// WithTimeout sets the HTTP client timeout.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.client.Timeout = d
	}
}

// NewExtractor creates an Extractor authenticating with the given API key.
func NewExtractor(apiKey string, opts ...Option) (*Extractor, error) {
	schema, err := jsonschema.CompileString("schema.json", string(eventSchema))
	if err != nil {
		return nil, fmt.Errorf("compile event schema: %w", err)
	}

	e := &Extractor{
		client:  &http.Client{Timeout: DefaultTimeout},
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		schema:  schema,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// scrapeRequest is the wire format of a scrape call.
type scrapeRequest struct {
	URL     string        `json:"url"`
	Formats []string      `json:"formats"`
	Extract extractParams `json:"extract"`
}

type extractParams struct {
	Schema json.RawMessage `json:"schema"`
	Prompt string          `json:"prompt"`
}

// scrapeResponse is the wire format of a scrape result.
type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Extract  json.RawMessage `json:"extract"`
		Markdown string          `json:"markdown"`
	} `json:"data"`
}

// Extract calls the scrape API for the URL and returns the validated
// extraction.
func (e *Extractor) Extract(ctx context.Context, url string) (*evtable.Extraction, error) {
	body, err := json.Marshal(scrapeRequest{
		URL:     url,
		Formats: []string{"extract", "markdown"},
		Extract: extractParams{Schema: eventSchema, Prompt: extractPrompt},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, evtable.Errorf(evtable.EUNAVAILABLE, "extraction service rate limited for %s", url)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, evtable.Errorf(evtable.EUNAVAILABLE, "extraction service rejected credentials")
	case resp.StatusCode != http.StatusOK:
		return nil, evtable.Errorf(evtable.EUNAVAILABLE, "extraction service returned HTTP %d for %s", resp.StatusCode, url)
	}

	var sr scrapeResponse
	if err := json.Unmarshal(payload, &sr); err != nil {
		return nil, evtable.Errorf(evtable.EINTERNAL, "malformed extraction response for %s: %v", url, err)
	}
	if !sr.Success {
		msg := sr.Error
		if msg == "" {
			msg = "extraction failed"
		}
		return nil, evtable.Errorf(evtable.EUNAVAILABLE, "%s", msg)
	}
	if len(sr.Data.Extract) == 0 {
		return nil, evtable.Errorf(evtable.EINVALID, "extraction returned no structured data for %s", url)
	}

	fields, err := e.decodeFields(sr.Data.Extract, url)
	if err != nil {
		return nil, err
	}

	return &evtable.Extraction{Fields: fields, RawText: sr.Data.Markdown}, nil
}

// decodeFields validates the extract payload against the event schema and
// decodes it into the tolerated field shapes.
func (e *Extractor) decodeFields(raw json.RawMessage, url string) (map[string]evtable.FieldValue, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, evtable.Errorf(evtable.EINTERNAL, "malformed extract payload for %s: %v", url, err)
	}
	if err := e.schema.Validate(generic); err != nil {
		return nil, evtable.Errorf(evtable.EINVALID, "extraction for %s failed schema validation: %v", url, err)
	}

	var fields map[string]evtable.FieldValue
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, evtable.Errorf(evtable.EINTERNAL, "malformed extract payload for %s: %v", url, err)
	}
	return fields, nil
}
