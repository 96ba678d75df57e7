package mock

import (
	"context"

	"github.com/fwojciec/sitechat"
)

var _ sitechat.Answerer = (*Answerer)(nil)

// Answerer is a mock implementation of sitechat.Answerer.
type Answerer struct {
	AnswerFn func(ctx context.Context, question, siteContext string) (string, error)
}

func (a *Answerer) Answer(ctx context.Context, question, siteContext string) (string, error) {
	return a.AnswerFn(ctx, question, siteContext)
}
