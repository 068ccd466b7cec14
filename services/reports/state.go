package reports

import (
	"errors"
	"sync"
	"time"

	"affdash-backend/lib/scrapers/e2"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrBusy means another fetch is still running for the same user. The
// caller should tell the user to wait instead of queueing.
var ErrBusy = errors.New("an operation is already running for this user")

// ErrNoReport means pagination was attempted with no cached report,
// either because none was fetched or because the cache entry expired.
var ErrNoReport = errors.New("no report available, fetch the account again")

const (
	reportCacheSize = 2048
	reportCacheTTL  = 15 * time.Minute
)

// State tracks per-user concurrency and the last fetched reports.
// Reports are cached per user per account so currency pagination can
// page through them without re-scraping; entries expire so pagination
// never serves stale dashboards indefinitely.
type State struct {
	mu    sync.Mutex
	busy  map[int64]struct{}
	cache *expirable.LRU[int64, map[string]e2.Report]
}

func NewState() *State {
	return &State{
		busy:  map[int64]struct{}{},
		cache: expirable.NewLRU[int64, map[string]e2.Report](reportCacheSize, nil, reportCacheTTL),
	}
}

// TryEnter attempts to take the user's operation slot. At most one
// fetch per user runs at a time, no matter how many accounts they own.
func (s *State) TryEnter(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, running := s.busy[userID]; running {
		return false
	}
	s.busy[userID] = struct{}{}
	return true
}

// Leave releases the user's operation slot. Must run on every exit
// path after a successful TryEnter.
func (s *State) Leave(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, userID)
}

func (s *State) PutReport(userID int64, account string, report e2.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, ok := s.cache.Get(userID)
	if !ok {
		reports = map[string]e2.Report{}
	}
	reports[account] = report
	s.cache.Add(userID, reports)
}

func (s *State) Report(userID int64, account string) (e2.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, ok := s.cache.Get(userID)
	if !ok {
		return e2.Report{}, false
	}
	report, ok := reports[account]
	return report, ok
}

// Cursor is a position in a report's currency list. Navigation wraps
// around in both directions, so any sequence of moves stays within the
// list; an advanced cursor is the same type as a fresh one.
type Cursor struct {
	Labels []string
	Index  int
}

// NewCursor starts at the report's first currency in enumeration
// order. Returns ErrNoReport when the report holds no snapshots.
func NewCursor(report e2.Report) (Cursor, error) {
	if len(report.Currencies) == 0 {
		return Cursor{}, ErrNoReport
	}
	return Cursor{Labels: report.Currencies}, nil
}

func (c Cursor) Current() string {
	return c.Labels[c.Index]
}

func (c Cursor) Next() Cursor {
	c.Index = (c.Index + 1) % len(c.Labels)
	return c
}

func (c Cursor) Prev() Cursor {
	c.Index = (c.Index - 1 + len(c.Labels)) % len(c.Labels)
	return c
}
