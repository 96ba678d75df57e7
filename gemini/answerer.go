// Package gemini implements the sitechat.Answerer interface using
// Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/sitechat"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Answerer implements sitechat.Answerer at compile time.
var _ sitechat.Answerer = (*Answerer)(nil)

// Answerer implements sitechat.Answerer using Google Gemini.
type Answerer struct {
	client *genai.Client
	model  string
}

// NewAnswerer creates a new Answerer. An empty model selects DefaultModel.
func NewAnswerer(client *genai.Client, model string) *Answerer {
	if model == "" {
		model = DefaultModel
	}
	return &Answerer{client: client, model: model}
}

// Answer sends the visitor's question and the retrieved site context to
// Gemini and returns the reply.
func (a *Answerer) Answer(ctx context.Context, question, siteContext string) (string, error) {
	if question == "" {
		return "", sitechat.Errorf(sitechat.EINVALID, "question required")
	}

	prompt := BuildUserPrompt(siteContext, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", sitechat.Errorf(sitechat.EINTERNAL, "chat completion failed: %v", err)
	}
	if result == nil {
		return "", sitechat.Errorf(sitechat.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are the customer support assistant on our company website. " +
					"Speak as the company, in the first person plural (\"we\", \"our\"). " +
					"Answer based only on the website excerpts provided. " +
					"If the excerpts do not contain the answer, say you are not sure " +
					"and offer to connect the visitor with a member of our team.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the retrieved site
// excerpts and the visitor's question.
func BuildUserPrompt(siteContext, question string) string {
	var sb strings.Builder
	sb.WriteString("<website-excerpts>\n")
	if siteContext != "" {
		sb.WriteString(siteContext)
		if !strings.HasSuffix(siteContext, "\n") {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("</website-excerpts>\n\n")
	fmt.Fprintf(&sb, "Visitor question: %s", question)
	return sb.String()
}
