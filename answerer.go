package sitechat

import "context"

// Answerer produces chat replies grounded in retrieved site context.
type Answerer interface {
	// Answer sends the visitor's question together with the retrieved
	// site context to the model and returns its reply. siteContext may
	// be empty when nothing in the index matched the question.
	Answer(ctx context.Context, question string, siteContext string) (string, error)
}
