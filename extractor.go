package sitechat

// ExtractResult holds the normalized content of an HTML page.
type ExtractResult struct {
	// Title is the page title, if present.
	Title string

	// Text is the page's plain text: script and style subtrees removed
	// (including their content), all remaining tags stripped, whitespace
	// runs collapsed to single spaces, ends trimmed.
	Text string
}

// Extractor normalizes raw page markup into plain text.
type Extractor interface {
	// Extract processes raw HTML and returns the normalized text.
	// An empty Text is a valid result.
	Extract(markup string) (*ExtractResult, error)
}
