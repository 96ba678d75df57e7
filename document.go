package sitechat

import (
	"context"
	"time"
)

// Document represents a single indexed page. Documents are immutable once
// created; a re-crawl produces a fresh set rather than mutating in place.
type Document struct {
	URL   string `json:"url"`
	Title string `json:"title"`

	// Text is the page's normalized plain text (tags stripped,
	// whitespace collapsed).
	Text string `json:"text"`

	// Hash is the xxhash of Text, used to skip mirror URLs that serve
	// identical content within a single crawl.
	Hash string `json:"hash"`

	// Chunks concatenated always reproduce Text exactly.
	Chunks []string `json:"chunks"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	return nil
}

// Snapshot is the immutable result of one crawl pass. The knowledge store
// installs snapshots wholesale; readers never observe a partially built one.
type Snapshot struct {
	// Origin is the scheme://host the crawl was scoped to.
	Origin string `json:"origin"`

	Documents []*Document `json:"documents"`
	IndexedAt time.Time   `json:"indexedAt"`
}

// Pages returns the number of indexed documents.
func (s *Snapshot) Pages() int {
	if s == nil {
		return 0
	}
	return len(s.Documents)
}

// KnowledgeStore holds the currently installed snapshot.
type KnowledgeStore interface {
	// Current returns the installed snapshot. It never returns nil and
	// never blocks; before the first crawl it returns an empty snapshot.
	Current() *Snapshot

	// Replace atomically installs a new snapshot. In-flight readers keep
	// whatever snapshot they already loaded.
	Replace(snap *Snapshot)
}

// CrawlService executes a crawl and installs the resulting snapshot.
type CrawlService interface {
	// Refresh crawls rawURL and replaces the knowledge store contents.
	// Returns ECONFLICT if a crawl is already in progress.
	Refresh(ctx context.Context, rawURL string) (*Snapshot, error)
}
