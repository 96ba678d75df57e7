// Package mem provides the in-memory knowledge store.
package mem

import (
	"sync/atomic"

	"github.com/fwojciec/sitechat"
)

// Compile-time interface verification.
var _ sitechat.KnowledgeStore = (*Store)(nil)

// Store holds the current crawl snapshot behind an atomic pointer.
// Replace installs a snapshot wholesale; readers that loaded the previous
// snapshot keep reading it unchanged. Safe for concurrent use.
type Store struct {
	snap atomic.Pointer[sitechat.Snapshot]
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the installed snapshot, or an empty snapshot before the
// first crawl. It never returns nil.
func (s *Store) Current() *sitechat.Snapshot {
	if snap := s.snap.Load(); snap != nil {
		return snap
	}
	return &sitechat.Snapshot{}
}

// Replace atomically installs a new snapshot.
func (s *Store) Replace(snap *sitechat.Snapshot) {
	s.snap.Store(snap)
}
