package mock

import "github.com/fwojciec/sitechat"

var _ sitechat.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sitechat.Extractor.
type Extractor struct {
	ExtractFn func(markup string) (*sitechat.ExtractResult, error)
}

func (e *Extractor) Extract(markup string) (*sitechat.ExtractResult, error) {
	return e.ExtractFn(markup)
}
