package evtable

// Content is the readable portion of a fetched page.
type Content struct {
	// Title is the page title, if one could be determined.
	Title string

	// HTML is the main content with boilerplate removed.
	HTML string
}

// ContentExtractor pulls the main readable content out of raw HTML.
type ContentExtractor interface {
	ExtractContent(rawHTML string) (*Content, error)
}

// MarkdownConverter converts HTML to Markdown.
type MarkdownConverter interface {
	Convert(html string) (string, error)
}
