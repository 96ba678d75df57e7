// Command sitechat runs the chat widget backend for a single website.
//
// On startup it crawls the configured site, then serves the widget API
// and re-crawls in the background at the configured interval.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitechat"
	"github.com/fwojciec/sitechat/crawl"
	"github.com/fwojciec/sitechat/gemini"
	"github.com/fwojciec/sitechat/goquery"
	sitechathttp "github.com/fwojciec/sitechat/http"
	"github.com/fwojciec/sitechat/mem"
	sitechatslog "github.com/fwojciec/sitechat/slog"
	"github.com/fwojciec/sitechat/sqlite"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	Config Config
	Logger *slog.Logger

	// SQLite database used for handoff storage.
	DB *sqlite.DB

	Server *sitechathttp.Server
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the server with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	parser, err := kong.New(&m.Config,
		kong.Name("sitechat"),
		kong.Description("Chat widget backend for a single website."),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}

	store := mem.NewStore()

	fetcher := sitechatslog.NewLoggingFetcher(sitechathttp.NewFetcher(), m.Logger)
	defer fetcher.Close()

	crawls := &crawl.Service{
		Crawler: &crawl.Crawler{
			Fetcher:    fetcher,
			Extractor:  goquery.NewExtractor(),
			Links:      goquery.NewLinkExtractor(),
			Sitemaps:   sitechatslog.NewLoggingSitemapService(sitechathttp.NewSitemapService(nil), m.Logger),
			Limiter:    crawl.NewDomainLimiter(m.Config.CrawlRPS),
			Logger:     m.Logger,
			PageBudget: m.Config.PageBudget,
		},
		Store:  store,
		Logger: m.Logger,
	}

	answerer, err := m.buildAnswerer(ctx)
	if err != nil {
		return err
	}

	handoffs, err := m.openHandoffStore()
	if err != nil {
		return err
	}

	m.Server = &sitechathttp.Server{
		Addr:     m.Config.ListenAddr,
		Logger:   m.Logger,
		SiteURL:  m.Config.SiteURL,
		Store:    store,
		Crawls:   crawls,
		Answerer: answerer,
		Notifier: sitechatslog.NewLoggingNotifier(
			sitechathttp.NewWebhookNotifier(m.Config.HandoffWebhookURL, nil), m.Logger),
		Handoffs: handoffs,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.Server.ListenAndServe()
	})
	g.Go(func() error {
		m.recrawlLoop(ctx, crawls)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return m.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// recrawlLoop crawls the site immediately, then again at the configured
// interval until the context is canceled. Failures are logged and the
// next tick tries again.
func (m *Main) recrawlLoop(ctx context.Context, crawls sitechat.CrawlService) {
	refresh := func() {
		if _, err := crawls.Refresh(ctx, m.Config.SiteURL); err != nil {
			if ctx.Err() != nil {
				return
			}
			m.Logger.Error("scheduled crawl failed", "url", m.Config.SiteURL, "error", err)
		}
	}

	refresh()

	ticker := time.NewTicker(m.Config.CrawlInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}

// buildAnswerer connects to the Gemini API when a key is configured.
// Without a key the chat endpoint reports itself unavailable.
func (m *Main) buildAnswerer(ctx context.Context) (sitechat.Answerer, error) {
	if m.Config.GeminiAPIKey == "" {
		m.Logger.Warn("GEMINI_API_KEY not set, chat endpoint disabled")
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  m.Config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return gemini.NewAnswerer(client, m.Config.Model), nil
}

// openHandoffStore opens the handoff database. Handoffs are still
// delivered to the webhook when no database is available.
func (m *Main) openHandoffStore() (sitechat.HandoffService, error) {
	path := m.Config.DBPath
	if path == "" {
		path = defaultDBPath()
	}

	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return sqlite.NewHandoffService(m.DB), nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitechat.db"
	}
	dir := filepath.Join(home, ".sitechat")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "sitechat.db")
}
