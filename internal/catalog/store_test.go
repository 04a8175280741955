package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temporada/internal/catalog"
	"temporada/internal/domain/listings"
	"temporada/internal/infra/storage/memory"
)

var testRegion = listings.Coordinates{Lat: -20.3387, Lng: -44.0544}

func seededSource(n int) *memory.ListingSource {
	src := memory.NewListingSource()
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		src.Seed(catalog.Row{
			ID:        fmt.Sprintf("id-%03d", i),
			Title:     sql.NullString{String: fmt.Sprintf("Listing %d", i), Valid: true},
			Price:     sql.NullFloat64{Float64: 100, Valid: true},
			CreatedAt: sql.NullTime{Time: base.Add(-time.Duration(i) * time.Hour), Valid: true},
		})
	}
	return src
}

func newStore(src catalog.Source, feed catalog.Feed) *catalog.Store {
	return catalog.NewStore(src, feed, catalog.Mapper{Region: testRegion}, 12, nil)
}

func TestStore_PaginationMonotonicity(t *testing.T) {
	ctx := context.Background()
	src := seededSource(30)
	s := newStore(src, memory.NewChangeFeed())

	require.NoError(t, s.FetchPage(ctx, 1))
	assert.Len(t, s.Listings(), 12)
	assert.Equal(t, 3, s.TotalPages())

	for s.HasMore() {
		require.NoError(t, s.LoadMore(ctx))
	}

	items := s.Listings()
	assert.Len(t, items, 30)
	assert.Equal(t, 3, s.Page())

	seen := make(map[listings.ListingID]bool)
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}

	// Exhausted: LoadMore is a no-op.
	require.NoError(t, s.LoadMore(ctx))
	assert.Len(t, s.Listings(), 30)
}

func TestStore_PageOneReplacesAccumulated(t *testing.T) {
	ctx := context.Background()
	s := newStore(seededSource(30), memory.NewChangeFeed())

	require.NoError(t, s.FetchPage(ctx, 1))
	require.NoError(t, s.LoadMore(ctx))
	assert.Len(t, s.Listings(), 24)

	require.NoError(t, s.Refresh(ctx))
	assert.Len(t, s.Listings(), 12)
	assert.Equal(t, 1, s.Page())
}

func TestStore_AppendSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newStore(seededSource(30), memory.NewChangeFeed())

	require.NoError(t, s.FetchPage(ctx, 1))
	require.NoError(t, s.FetchPage(ctx, 2))
	require.NoError(t, s.FetchPage(ctx, 2))

	assert.Len(t, s.Listings(), 24)
}

func TestStore_FetchFailureLeavesStateIntact(t *testing.T) {
	ctx := context.Background()
	src := seededSource(12)
	s := newStore(src, memory.NewChangeFeed())

	require.NoError(t, s.FetchPage(ctx, 1))
	before := s.Listings()

	src.Fail = errors.New("connection reset")
	err := s.FetchPage(ctx, 1)
	require.Error(t, err)

	assert.Equal(t, before, s.Listings())
	assert.False(t, s.Loading())
	assert.Error(t, s.Err())

	// The next successful fetch clears the recorded failure.
	src.Fail = nil
	require.NoError(t, s.FetchPage(ctx, 1))
	assert.NoError(t, s.Err())
}

func TestStore_CreatePrependsFinalizedEntity(t *testing.T) {
	ctx := context.Background()
	src := seededSource(5)
	s := newStore(src, memory.NewChangeFeed())
	require.NoError(t, s.FetchPage(ctx, 1))

	created, err := s.Create(ctx, listings.Listing{
		Title:     "Chalé Novo",
		BasePrice: 900,
		Tags:      listings.DeriveTags(false, true),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "server assigns the identifier")
	assert.False(t, created.CreatedAt.IsZero())

	items := s.Listings()
	require.Len(t, items, 6)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "Chalé Novo", items[0].Title)
}

func TestStore_CreateFailureAddsNothing(t *testing.T) {
	ctx := context.Background()
	src := seededSource(5)
	s := newStore(src, memory.NewChangeFeed())
	require.NoError(t, s.FetchPage(ctx, 1))

	src.Fail = errors.New("insert refused")
	_, err := s.Create(ctx, listings.Listing{Title: "Chalé Novo"})
	require.Error(t, err)
	assert.Len(t, s.Listings(), 5)
}

func TestStore_OptimisticUpdate(t *testing.T) {
	ctx := context.Background()
	s := newStore(seededSource(12), memory.NewChangeFeed())
	require.NoError(t, s.FetchPage(ctx, 1))

	target := s.Listings()[4]
	target.Title = "Título Atualizado"
	require.NoError(t, s.Update(ctx, target))

	// The local entity is visible immediately, in the same position, with
	// no reconciliation fetch involved.
	items := s.Listings()
	assert.Equal(t, "Título Atualizado", items[4].Title)
	assert.Equal(t, target.ID, items[4].ID)
}

func TestStore_UpdateFailureLeavesSequenceUnchanged(t *testing.T) {
	ctx := context.Background()
	src := seededSource(12)
	s := newStore(src, memory.NewChangeFeed())
	require.NoError(t, s.FetchPage(ctx, 1))
	before := s.Listings()

	src.Fail = errors.New("write refused")
	target := before[0]
	target.Title = "novo"
	require.Error(t, s.Update(ctx, target))
	assert.Equal(t, before, s.Listings())
}

func TestStore_DeleteRemovesInPlace(t *testing.T) {
	ctx := context.Background()
	s := newStore(seededSource(12), memory.NewChangeFeed())
	require.NoError(t, s.FetchPage(ctx, 1))

	victim := s.Listings()[3].ID
	require.NoError(t, s.Delete(ctx, victim))

	for _, it := range s.Listings() {
		assert.NotEqual(t, victim, it.ID)
	}
	assert.Len(t, s.Listings(), 11)
}

func TestStore_DeleteFailureKeepsEntry(t *testing.T) {
	ctx := context.Background()
	src := seededSource(12)
	s := newStore(src, memory.NewChangeFeed())
	require.NoError(t, s.FetchPage(ctx, 1))
	before := s.Listings()

	src.Fail = errors.New("delete refused")
	require.Error(t, s.Delete(ctx, before[3].ID))
	assert.Equal(t, before, s.Listings())
}

type brokenFeed struct{ err error }

func (f brokenFeed) Subscribe(context.Context) (<-chan catalog.Change, func(), error) {
	return nil, nil, f.err
}

func TestStore_StartSubscribeFailureIsDistinguishable(t *testing.T) {
	ctx := context.Background()
	s := newStore(seededSource(5), brokenFeed{err: errors.New("listener down")})

	err := s.Start(ctx)
	require.ErrorIs(t, err, catalog.ErrSubscribe)
	assert.Empty(t, s.Listings(), "no fetch happens without a subscription")

	// A plain fetch failure, by contrast, is not a subscription error.
	src := seededSource(5)
	src.Fail = errors.New("connection reset")
	s2 := newStore(src, memory.NewChangeFeed())
	err = s2.Start(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, catalog.ErrSubscribe)
	s2.Close()
}

func TestStore_ReconciliationRefetchesOnRemoteChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := memory.NewChangeFeed()
	src := seededSource(5).WithFeed(feed)
	s := newStore(src, feed)
	require.NoError(t, s.Start(ctx))
	defer s.Close()
	require.Len(t, s.Listings(), 5)

	// A change made outside this store instance: insert straight through
	// the source, which fires the feed.
	_, err := src.Insert(ctx, catalog.Row{
		Title: sql.NullString{String: "Externo", Valid: true},
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(s.Listings()) == 6
	}, 2*time.Second, 10*time.Millisecond, "reconciliation should pick up the external insert")
}

func TestStore_CloseReleasesSubscriptionOnce(t *testing.T) {
	ctx := context.Background()
	feed := memory.NewChangeFeed()
	src := seededSource(1).WithFeed(feed)
	s := newStore(src, feed)
	require.NoError(t, s.Start(ctx))

	s.Close()
	s.Close() // second close is a no-op, not a double release

	// After teardown a remote change must not fan into the closed store.
	feed.Notify("UPDATE")
}

func TestStore_ByID_ColdFetch(t *testing.T) {
	ctx := context.Background()
	src := seededSource(30)
	s := newStore(src, memory.NewChangeFeed())
	require.NoError(t, s.FetchPage(ctx, 1))

	// id-020 lives on page 2 and is not in the accumulated sequence yet.
	l, err := s.ByID(ctx, "id-020")
	require.NoError(t, err)
	assert.Equal(t, "Listing 20", l.Title)

	_, err = s.ByID(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
