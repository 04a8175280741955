package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"temporada/internal/catalog"
)

// ListingSource is an in-memory catalog.Source used by tests and local runs
// without a database. Rows order by creation time descending, newest first,
// matching the remote catalog's recency ordering.
type ListingSource struct {
	mu   sync.Mutex
	rows map[string]catalog.Row
	feed *ChangeFeed

	// Fail, when set, makes every operation return this error. Tests use it
	// to simulate remote I/O faults.
	Fail error
}

func NewListingSource() *ListingSource {
	return &ListingSource{rows: make(map[string]catalog.Row)}
}

// WithFeed attaches a feed notified on every mutation.
func (s *ListingSource) WithFeed(feed *ChangeFeed) *ListingSource {
	s.feed = feed
	return s
}

// Seed inserts rows directly, bypassing failure injection and notification.
func (s *ListingSource) Seed(rows ...catalog.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		s.rows[row.ID] = row
	}
}

func (s *ListingSource) Page(_ context.Context, offset, limit int) ([]catalog.Row, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, 0, s.Fail
	}
	ordered := s.ordered()
	total := len(ordered)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return append([]catalog.Row(nil), ordered[offset:end]...), total, nil
}

func (s *ListingSource) ByID(_ context.Context, id string) (catalog.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return catalog.Row{}, s.Fail
	}
	row, ok := s.rows[id]
	if !ok {
		return catalog.Row{}, catalog.ErrNotFound
	}
	return row, nil
}

func (s *ListingSource) Insert(_ context.Context, row catalog.Row) (catalog.Row, error) {
	s.mu.Lock()
	if s.Fail != nil {
		s.mu.Unlock()
		return catalog.Row{}, s.Fail
	}
	row.ID = uuid.NewString()
	row.CreatedAt.Time = time.Now().UTC()
	row.CreatedAt.Valid = true
	row.Active.Bool = true
	row.Active.Valid = true
	s.rows[row.ID] = row
	s.mu.Unlock()
	s.notify("INSERT")
	return row, nil
}

func (s *ListingSource) Update(_ context.Context, id string, row catalog.Row) error {
	s.mu.Lock()
	if s.Fail != nil {
		s.mu.Unlock()
		return s.Fail
	}
	current, ok := s.rows[id]
	if !ok {
		s.mu.Unlock()
		return catalog.ErrNotFound
	}
	row.ID = id
	row.Active = current.Active
	row.CreatedAt = current.CreatedAt
	s.rows[id] = row
	s.mu.Unlock()
	s.notify("UPDATE")
	return nil
}

func (s *ListingSource) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	if s.Fail != nil {
		s.mu.Unlock()
		return s.Fail
	}
	if _, ok := s.rows[id]; !ok {
		s.mu.Unlock()
		return catalog.ErrNotFound
	}
	delete(s.rows, id)
	s.mu.Unlock()
	s.notify("DELETE")
	return nil
}

func (s *ListingSource) ordered() []catalog.Row {
	out := make([]catalog.Row, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Time.Equal(out[j].CreatedAt.Time) {
			return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *ListingSource) notify(op string) {
	if s.feed != nil {
		s.feed.Notify(op)
	}
}

// ChangeFeed is an in-memory catalog.Feed. Notifications are coalesced the
// same way the Postgres feed coalesces them.
type ChangeFeed struct {
	mu     sync.Mutex
	subs   []chan catalog.Change
	closed bool
}

func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{}
}

func (f *ChangeFeed) Subscribe(_ context.Context) (<-chan catalog.Change, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, nil, fmt.Errorf("memory: feed closed")
	}
	ch := make(chan catalog.Change, 1)
	f.subs = append(f.subs, ch)
	var once sync.Once
	release := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, sub := range f.subs {
				if sub == ch {
					f.subs = append(f.subs[:i], f.subs[i+1:]...)
					close(ch)
					break
				}
			}
		})
	}
	return ch, release, nil
}

// Notify fans a change out to all subscribers without blocking.
func (f *ChangeFeed) Notify(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- catalog.Change{Op: op}:
		default:
		}
	}
}

var (
	_ catalog.Source = (*ListingSource)(nil)
	_ catalog.Feed   = (*ChangeFeed)(nil)
)
