package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"temporada/internal/domain/listings"
)

// DefaultPageSize mirrors the remote catalog's fixed page length.
const DefaultPageSize = 12

// ErrNotFound is returned by sources when no row matches the identifier.
var ErrNotFound = errors.New("catalog: listing not found")

// ErrSubscribe reports that the change feed could not be acquired. The
// subscription is attempted at most once per store, so a store started
// without one never reconciles.
var ErrSubscribe = errors.New("catalog: change feed subscription failed")

// Change is a remote change notification. The feed carries no payload worth
// differentiating; any change triggers a full page-1 refetch.
type Change struct {
	Op string
}

// Feed is the remote change-notification collaborator, scoped to the
// listings table. The returned release func must be safe to call once; the
// channel closes after release.
type Feed interface {
	Subscribe(ctx context.Context) (<-chan Change, func(), error)
}

// Source is the remote store collaborator: range-paginated reads ordered by
// recency descending with an exact total count, plus CRUD by identifier.
type Source interface {
	Page(ctx context.Context, offset, limit int) ([]Row, int, error)
	ByID(ctx context.Context, id string) (Row, error)
	Insert(ctx context.Context, row Row) (Row, error)
	Update(ctx context.Context, id string, row Row) error
	Delete(ctx context.Context, id string) error
}

// Store owns the client-held paginated view of the catalog: the accumulated
// ordered sequence of listings loaded so far, optimistic local mutation, and
// reconciliation against the remote change feed. Mutations are not queued or
// serialized here; when two race, the later remote response wins locally and
// the reconciliation fetch is the eventual source of truth.
type Store struct {
	src      Source
	feed     Feed
	mapper   Mapper
	pageSize int
	log      *slog.Logger

	mu         sync.Mutex
	items      []listings.Listing
	page       int
	totalPages int
	loading    bool
	lastErr    error

	startOnce sync.Once
	closeOnce sync.Once
	release   func()
	done      chan struct{}
}

// NewStore builds a store around the remote collaborators. pageSize <= 0
// falls back to DefaultPageSize.
func NewStore(src Source, feed Feed, mapper Mapper, pageSize int, log *slog.Logger) *Store {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		src:      src,
		feed:     feed,
		mapper:   mapper,
		pageSize: pageSize,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start loads page 1 and acquires the change subscription. The subscription
// is established at most once per store; ctx bounds the reconciliation loop.
// A failed subscription is reported as ErrSubscribe and leaves the store
// without reconciliation. A failed initial fetch is returned too, but with
// the subscription live it self-heals on the next remote change.
func (s *Store) Start(ctx context.Context) error {
	var subErr error
	s.startOnce.Do(func() {
		ch, release, err := s.feed.Subscribe(ctx)
		if err != nil {
			subErr = fmt.Errorf("%w: %w", ErrSubscribe, err)
			return
		}
		s.release = release
		go s.reconcile(ctx, ch)
	})
	if subErr != nil {
		return subErr
	}
	return s.FetchPage(ctx, 1)
}

// Close releases the change subscription exactly once. In-flight CRUD calls
// are left to resolve; only the feed is torn down so nothing keeps updating
// a store nobody listens to.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.release != nil {
			s.release()
		}
	})
}

func (s *Store) reconcile(ctx context.Context, ch <-chan Change) {
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			// The notification carries no usable delta; refetching page 1 is
			// the self-healing path for edits made outside this client.
			if err := s.FetchPage(ctx, 1); err != nil {
				s.log.Warn("catalog reconciliation fetch failed", "error", err)
			}
		}
	}
}

// FetchPage loads page n (1-based). Page 1 replaces the accumulated
// sequence; later pages append, skipping identifiers already present.
// Concurrent calls for the same page are not deduplicated here: callers own
// that constraint. On failure the sequence is left untouched, the loading
// flag clears and the last error is recorded.
func (s *Store) FetchPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	if page == 1 {
		s.loading = true
	}
	s.mu.Unlock()

	rows, total, err := s.src.Page(ctx, (page-1)*s.pageSize, s.pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		return fmt.Errorf("catalog: fetch page %d: %w", page, err)
	}

	mapped := make([]listings.Listing, 0, len(rows))
	for _, row := range rows {
		mapped = append(mapped, s.mapper.ToDomain(row))
	}

	if page == 1 {
		s.items = mapped
	} else {
		seen := make(map[listings.ListingID]struct{}, len(s.items))
		for _, it := range s.items {
			seen[it.ID] = struct{}{}
		}
		for _, it := range mapped {
			if _, dup := seen[it.ID]; dup {
				continue
			}
			s.items = append(s.items, it)
		}
	}

	s.totalPages = (total + s.pageSize - 1) / s.pageSize
	s.page = page
	s.lastErr = nil
	return nil
}

// Refresh is a page-1 refetch, replacing the accumulated sequence.
func (s *Store) Refresh(ctx context.Context) error {
	return s.FetchPage(ctx, 1)
}

// LoadMore fetches the next page, or does nothing when the sequence already
// covers the remote row count.
func (s *Store) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	page, totalPages := s.page, s.totalPages
	s.mu.Unlock()
	if page >= totalPages {
		return nil
	}
	return s.FetchPage(ctx, page+1)
}

// Create inserts the listing remotely and prepends the server-finalized
// entity to the accumulated sequence. Nothing is added until the remote call
// succeeds; the returned entity carries server-assigned fields such as the
// identifier and creation timestamp.
func (s *Store) Create(ctx context.Context, l listings.Listing) (listings.Listing, error) {
	row, err := s.mapper.ToRow(ctx, l)
	if err != nil {
		return listings.Listing{}, fmt.Errorf("catalog: create: %w", err)
	}
	created, err := s.src.Insert(ctx, row)
	if err != nil {
		return listings.Listing{}, fmt.Errorf("catalog: create: %w", err)
	}
	entity := s.mapper.ToDomain(created)

	s.mu.Lock()
	s.items = append([]listings.Listing{entity}, s.items...)
	s.mu.Unlock()
	return entity, nil
}

// Update writes the listing remotely and, on success, replaces the matching
// entry in place with the locally constructed entity rather than a re-read:
// the client trusts its own write, and the reconciliation fetch converges
// the rest. Failure leaves the sequence unchanged.
func (s *Store) Update(ctx context.Context, l listings.Listing) error {
	row, err := s.mapper.ToRow(ctx, l)
	if err != nil {
		return fmt.Errorf("catalog: update %s: %w", l.ID, err)
	}
	if err := s.src.Update(ctx, string(l.ID), row); err != nil {
		return fmt.Errorf("catalog: update %s: %w", l.ID, err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == l.ID {
			s.items[i] = l
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Delete removes the listing remotely and, on success, drops the matching
// entry in place. On failure the entry survives.
func (s *Store) Delete(ctx context.Context, id listings.ListingID) error {
	if err := s.src.Delete(ctx, string(id)); err != nil {
		return fmt.Errorf("catalog: delete %s: %w", id, err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// ByID serves detail views: the accumulated sequence first, then a cold
// remote read for listings not yet paged in.
func (s *Store) ByID(ctx context.Context, id listings.ListingID) (listings.Listing, error) {
	s.mu.Lock()
	for _, it := range s.items {
		if it.ID == id {
			s.mu.Unlock()
			return it, nil
		}
	}
	s.mu.Unlock()

	row, err := s.src.ByID(ctx, string(id))
	if err != nil {
		return listings.Listing{}, fmt.Errorf("catalog: listing %s: %w", id, err)
	}
	return s.mapper.ToDomain(row), nil
}

// Listings returns a copy of the accumulated sequence in remote recency
// order.
func (s *Store) Listings() []listings.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]listings.Listing(nil), s.items...)
}

// Page returns the current 1-based page number.
func (s *Store) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// TotalPages returns the page count derived from the last remote row count.
func (s *Store) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

// HasMore reports whether LoadMore would fetch anything.
func (s *Store) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page < s.totalPages
}

// Loading reports whether a page-1 fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch failure, cleared by the next successful fetch.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
