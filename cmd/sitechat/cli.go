package main

import "time"

// Config holds the server configuration. Every flag can also be set
// through its environment variable, which is how the server is normally
// deployed.
type Config struct {
	SiteURL    string `name:"site-url" env:"SITE_URL" required:"" help:"Website to crawl and answer questions about"`
	ListenAddr string `name:"listen-addr" env:"LISTEN_ADDR" default:":8787" help:"HTTP listen address"`

	PageBudget    int           `name:"page-budget" env:"PAGE_BUDGET" default:"30" help:"Maximum pages per crawl"`
	CrawlInterval time.Duration `name:"crawl-interval" env:"CRAWL_INTERVAL" default:"24h" help:"Background re-crawl interval"`
	CrawlRPS      float64       `name:"crawl-rps" env:"CRAWL_RPS" default:"2" help:"Per-host crawl request rate"`

	GeminiAPIKey string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key; chat is disabled without it"`
	Model        string `name:"model" env:"GEMINI_MODEL" help:"Gemini model name"`

	HandoffWebhookURL string `name:"handoff-webhook-url" env:"HANDOFF_WEBHOOK_URL" help:"Webhook notified of handoff requests"`
	DBPath            string `name:"db" env:"SITECHAT_DB" help:"SQLite database path for handoff storage"`
}
