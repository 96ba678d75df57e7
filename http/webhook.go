package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fwojciec/sitechat"
)

// DefaultWebhookTimeout bounds handoff webhook delivery.
const DefaultWebhookTimeout = 10 * time.Second

// Ensure WebhookNotifier implements sitechat.Notifier at compile time.
var _ sitechat.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier delivers handoff requests by posting a plain text summary
// to a configured webhook URL as `{"text": "..."}`, the shape accepted by
// Slack-compatible incoming webhooks.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a WebhookNotifier for the given URL. An empty
// URL produces a notifier whose Notify is a no-op. If client is nil a
// client with DefaultWebhookTimeout is used.
func NewWebhookNotifier(url string, client *http.Client) *WebhookNotifier {
	if client == nil {
		client = &http.Client{Timeout: DefaultWebhookTimeout}
	}
	return &WebhookNotifier{url: url, client: client}
}

// Notify posts the formatted handoff summary to the webhook.
// Returns nil immediately when no webhook URL is configured.
func (n *WebhookNotifier) Notify(ctx context.Context, h *sitechat.Handoff) error {
	if n.url == "" {
		return nil
	}

	payload := struct {
		Text string `json:"text"`
	}{Text: sitechat.FormatHandoff(h)}

	body, err := json.Marshal(payload)
	if err != nil {
		return sitechat.Errorf(sitechat.EINTERNAL, "encoding webhook payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return sitechat.Errorf(sitechat.EINTERNAL, "creating webhook request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return sitechat.Errorf(sitechat.EINTERNAL, "delivering webhook: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return sitechat.Errorf(sitechat.EINTERNAL, "webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
