// Package gemini implements evtable.Extractor using Google Gemini.
//
// Unlike the hosted scrape-and-extract path, this extractor does its own
// fetching: it downloads the page, strips boilerplate, converts the main
// content to Markdown and asks the model for structured event data
// constrained by a JSON response schema.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/evtable/evtable"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// DefaultMaxPromptTokens caps how much page Markdown is sent to the model.
const DefaultMaxPromptTokens = 100_000

const systemInstruction = "You are extracting structured information about a professional event (conference, workshop, or roundtable) from the text of its website. Use only information present in the provided page content. If a field is not mentioned, omit it. Never invent values."

// Ensure Extractor implements evtable.Extractor at compile time.
var _ evtable.Extractor = (*Extractor)(nil)

// Extractor implements evtable.Extractor using Google Gemini.
type Extractor struct {
	client    *genai.Client
	fetcher   evtable.Fetcher
	content   evtable.ContentExtractor
	converter evtable.MarkdownConverter
	counter   *TokenCounter
	maxTokens int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTokenBudget truncates page Markdown to at most max tokens as measured
// by the counter before prompting the model.
func WithTokenBudget(counter *TokenCounter, max int) Option {
	return func(e *Extractor) {
		e.counter = counter
		e.maxTokens = max
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(client *genai.Client, fetcher evtable.Fetcher, content evtable.ContentExtractor, converter evtable.MarkdownConverter, opts ...Option) *Extractor {
	e := &Extractor{
		client:    client,
		fetcher:   fetcher,
		content:   content,
		converter: converter,
		maxTokens: DefaultMaxPromptTokens,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches the URL and asks Gemini for structured event data.
func (e *Extractor) Extract(ctx context.Context, url string) (*evtable.Extraction, error) {
	if url == "" {
		return nil, evtable.Errorf(evtable.EINVALID, "url required")
	}

	rawHTML, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	content, err := e.content.ExtractContent(rawHTML)
	if err != nil {
		return nil, evtable.Errorf(evtable.EINVALID, "no readable content at %s: %v", url, err)
	}
	if content.HTML == "" {
		return nil, evtable.Errorf(evtable.EINVALID, "no readable content at %s", url)
	}

	md, err := e.converter.Convert(content.HTML)
	if err != nil {
		return nil, err
	}
	md, err = e.truncate(ctx, md)
	if err != nil {
		return nil, err
	}

	result, err := e.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(url, md)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, evtable.Errorf(evtable.EINTERNAL, "gemini returned nil result")
	}

	fields, err := ParseExtraction(result.Text())
	if err != nil {
		return nil, err
	}

	return &evtable.Extraction{Fields: fields, RawText: md}, nil
}

// truncate trims md to the configured token budget. The cut is approximate:
// tokens are assumed to be evenly distributed over the bytes.
func (e *Extractor) truncate(ctx context.Context, md string) (string, error) {
	if e.counter == nil || e.maxTokens <= 0 {
		return md, nil
	}
	n, err := e.counter.CountTokens(ctx, md)
	if err != nil {
		return "", err
	}
	if n <= e.maxTokens {
		return md, nil
	}
	keep := len(md) * e.maxTokens / n
	return md[:keep], nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls. The
// response is constrained to JSON matching the event schema.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   EventSchema(),
	}
}

// BuildUserPrompt builds the user prompt containing the page content.
func BuildUserPrompt(url, markdown string) string {
	var sb strings.Builder
	sb.WriteString("<page>\n")
	fmt.Fprintf(&sb, "<source>%s</source>\n", url)
	fmt.Fprintf(&sb, "<content>%s</content>\n", markdown)
	sb.WriteString("</page>\n\n")
	sb.WriteString("Extract the event details from the page above.")
	return sb.String()
}

// EventSchema describes the expected response shape. List-valued fields are
// declared as string arrays and free-form fields as strings; the caller
// normalizes shapes afterwards.
func EventSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	list := func(desc string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: desc,
			Items:       &genai.Schema{Type: genai.TypeString},
		}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":                str("event name"),
			"description":         str("short event description"),
			"start_date":          str("start date"),
			"end_date":            str("end date"),
			"city":                str("city"),
			"state":               str("full state name"),
			"country":             str("country"),
			"attendee_count":      str("expected number of attendees"),
			"topics":              list("topics or themes discussed at the event"),
			"event_type":          str("one of: conference, workshop, roundtable"),
			"attendee_title":      list("job titles of attendees"),
			"logo_url":            str("event logo URL"),
			"sponsorship_options": str("sponsorship packages, not ticket prices"),
			"agenda":              str("event agenda or schedule"),
			"audience_insights":   str("demographics of attendees"),
			"sponsors":            list("sponsoring or exhibiting company names"),
			"hosting_company":     str("hosting company or organization"),
			"ticket_cost":         str("cost of a ticket to attend"),
			"contact_email":       str("contact email"),
		},
		Required: []string{"name"},
	}
}

// ParseExtraction decodes the model's JSON response into field values.
func ParseExtraction(text string) (map[string]evtable.FieldValue, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, evtable.Errorf(evtable.EINTERNAL, "gemini returned empty response")
	}

	var fields map[string]evtable.FieldValue
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, evtable.Errorf(evtable.EINTERNAL, "malformed gemini response: %v", err)
	}
	return fields, nil
}
