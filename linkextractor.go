package sitechat

// LinkExtractor extracts same-origin links from HTML.
type LinkExtractor interface {
	// ExtractLinks parses markup and returns absolute URLs resolved
	// against baseURL, restricted to baseURL's origin (scheme and host).
	// Fragments are stripped; mailto:/tel:/javascript: references and
	// malformed URLs are silently discarded. The result is deduplicated
	// in document order.
	ExtractLinks(markup string, baseURL string) ([]string, error)
}
