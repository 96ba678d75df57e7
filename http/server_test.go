package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/sitechat"
	sitechathttp "github.com/fwojciec/sitechat/http"
	"github.com/fwojciec/sitechat/mem"
	"github.com/fwojciec/sitechat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(tb testing.TB) *sitechathttp.Server {
	tb.Helper()
	return &sitechathttp.Server{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:  mem.NewStore(),
	}
}

func doJSON(tb testing.TB, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	tb.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("crawls the requested URL", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		var gotURL string
		srv.Crawls = &mock.CrawlService{
			RefreshFn: func(ctx context.Context, rawURL string) (*sitechat.Snapshot, error) {
				gotURL = rawURL
				return &sitechat.Snapshot{
					Origin: "https://example.com",
					Documents: []*sitechat.Document{
						{URL: "https://example.com/"},
						{URL: "https://example.com/about"},
					},
					IndexedAt: time.Now(),
				}, nil
			},
		}

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/crawl", `{"url":"https://example.com"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://example.com", gotURL)
		var resp struct {
			OK     bool   `json:"ok"`
			Pages  int    `json:"pages"`
			Domain string `json:"domain"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.Equal(t, 2, resp.Pages)
		assert.Equal(t, "https://example.com", resp.Domain)
	})

	t.Run("defaults to the configured site URL", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		srv.SiteURL = "https://configured.example.com"
		var gotURL string
		srv.Crawls = &mock.CrawlService{
			RefreshFn: func(ctx context.Context, rawURL string) (*sitechat.Snapshot, error) {
				gotURL = rawURL
				return &sitechat.Snapshot{Origin: "https://configured.example.com"}, nil
			},
		}

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/crawl", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://configured.example.com", gotURL)
	})

	t.Run("no URL configured", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		srv.Crawls = &mock.CrawlService{
			RefreshFn: func(ctx context.Context, rawURL string) (*sitechat.Snapshot, error) {
				t.Fatal("unexpected Refresh call")
				return nil, nil
			},
		}

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/crawl", "{}")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("overlapping crawl maps to conflict", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		srv.Crawls = &mock.CrawlService{
			RefreshFn: func(ctx context.Context, rawURL string) (*sitechat.Snapshot, error) {
				return nil, sitechat.Errorf(sitechat.ECONFLICT, "a crawl is already in progress")
			},
		}

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/crawl", `{"url":"https://example.com"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "a crawl is already in progress")
	})

	t.Run("internal failures are not leaked", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		srv.Crawls = &mock.CrawlService{
			RefreshFn: func(ctx context.Context, rawURL string) (*sitechat.Snapshot, error) {
				return nil, sitechat.Errorf(sitechat.EINTERNAL, "dial tcp: connection refused")
			},
		}

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/crawl", `{"url":"https://example.com"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestServer_KBStatus(t *testing.T) {
	t.Parallel()

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := doJSON(t, srv.Handler(), http.MethodGet, "/kb-status", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Pages  int    `json:"pages"`
			Domain string `json:"domain"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Zero(t, resp.Pages)
		assert.Empty(t, resp.Domain)
	})

	t.Run("reports the current snapshot", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		srv.Store.Replace(&sitechat.Snapshot{
			Origin: "https://example.com",
			Documents: []*sitechat.Document{
				{URL: "https://example.com/"},
				{URL: "https://example.com/pricing"},
				{URL: "https://example.com/about"},
			},
		})

		rec := doJSON(t, srv.Handler(), http.MethodGet, "/kb-status", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Pages  int    `json:"pages"`
			Domain string `json:"domain"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Pages)
		assert.Equal(t, "https://example.com", resp.Domain)
	})
}

func TestServer_Chat(t *testing.T) {
	t.Parallel()

	t.Run("answers using retrieved site context", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		srv.Store.Replace(&sitechat.Snapshot{
			Origin: "https://example.com",
			Documents: []*sitechat.Document{
				{
					URL:    "https://example.com/shipping",
					Chunks: []string{"We offer worldwide shipping on all orders."},
				},
			},
		})
		var gotQuestion, gotContext string
		srv.Answerer = &mock.Answerer{
			AnswerFn: func(ctx context.Context, question, siteContext string) (string, error) {
				gotQuestion = question
				gotContext = siteContext
				return "Yes, we ship worldwide.", nil
			},
		}

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/chat", `{"message":"do you offer shipping?"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Reply string `json:"reply"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Yes, we ship worldwide.", resp.Reply)
		assert.Equal(t, "do you offer shipping?", gotQuestion)
		assert.Contains(t, gotContext, "Source: https://example.com/shipping")
		assert.Contains(t, gotContext, "worldwide shipping")
	})

	t.Run("empty message never reaches the model", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		srv.Answerer = &mock.Answerer{
			AnswerFn: func(ctx context.Context, question, siteContext string) (string, error) {
				t.Fatal("unexpected Answer call")
				return "", nil
			},
		}

		for _, body := range []string{`{"message":""}`, `{"message":"   "}`, `{}`, ""} {
			rec := doJSON(t, srv.Handler(), http.MethodPost, "/chat", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("unconfigured answerer is unavailable", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/chat", `{"message":"hello"}`)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("model failures are not leaked", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		srv.Answerer = &mock.Answerer{
			AnswerFn: func(ctx context.Context, question, siteContext string) (string, error) {
				return "", sitechat.Errorf(sitechat.EINTERNAL, "api key invalid")
			},
		}

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/chat", `{"message":"hello"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "api key")
	})
}

func TestServer_Handoff(t *testing.T) {
	t.Parallel()

	t.Run("persists and notifies", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		var stored, notified *sitechat.Handoff
		srv.Handoffs = &mock.HandoffService{
			CreateHandoffFn: func(ctx context.Context, h *sitechat.Handoff) error {
				h.ID = "handoff-1"
				stored = h
				return nil
			},
		}
		srv.Notifier = &mock.Notifier{
			NotifyFn: func(ctx context.Context, h *sitechat.Handoff) error {
				notified = h
				return nil
			},
		}

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/handoff",
			`{"name":"Ada","email":"ada@example.com","summary":"pricing question"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, stored)
		assert.Equal(t, "Ada", stored.Name)
		assert.Equal(t, "ada@example.com", stored.Email)
		require.NotNil(t, notified)
		assert.Equal(t, stored, notified)
		var resp struct {
			OK bool   `json:"ok"`
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.Equal(t, "handoff-1", resp.ID)
	})

	t.Run("works without persistence configured", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		srv.Notifier = &mock.Notifier{
			NotifyFn: func(ctx context.Context, h *sitechat.Handoff) error { return nil },
		}

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/handoff", `{"name":"Ada"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty handoff is rejected", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		srv.Notifier = &mock.Notifier{
			NotifyFn: func(ctx context.Context, h *sitechat.Handoff) error {
				t.Fatal("unexpected Notify call")
				return nil
			},
		}

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/handoff", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("notification failure is an internal error", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t)
		srv.Notifier = &mock.Notifier{
			NotifyFn: func(ctx context.Context, h *sitechat.Handoff) error {
				return sitechat.Errorf(sitechat.EINTERNAL, "webhook returned HTTP 500")
			},
		}

		rec := doJSON(t, srv.Handler(), http.MethodPost, "/handoff", `{"name":"Ada"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
