package mock

import "github.com/fwojciec/sitechat"

var _ sitechat.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitechat.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(markup string, baseURL string) ([]string, error)
}

func (l *LinkExtractor) ExtractLinks(markup string, baseURL string) ([]string, error) {
	return l.ExtractLinksFn(markup, baseURL)
}
