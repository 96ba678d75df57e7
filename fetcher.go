package sitechat

import "context"

// Page is the raw result of fetching a URL.
type Page struct {
	// URL is the address that was fetched.
	URL string

	// ContentType is the response Content-Type header value.
	ContentType string

	// Body is the raw response body.
	Body string
}

// Fetcher retrieves pages over the network.
type Fetcher interface {
	// Fetch performs a GET for the URL, following redirects, and returns
	// the page. Non-success responses are errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Page, error)

	// Close releases any resources held by the fetcher.
	Close() error
}
