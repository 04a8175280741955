package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lib/pq"

	"temporada/internal/catalog"
)

// ListenChannel is the NOTIFY channel fired by the listings table trigger.
const ListenChannel = "listings_changed"

// ChangeFeed implements catalog.Feed over Postgres LISTEN/NOTIFY. Each
// subscription holds its own listener connection; pq reconnects it with
// backoff and replays a synthetic notification after reconnect, which the
// catalog treats as any other change.
type ChangeFeed struct {
	dsn     string
	channel string
	log     *slog.Logger
}

func NewChangeFeed(dsn string, log *slog.Logger) *ChangeFeed {
	if log == nil {
		log = slog.Default()
	}
	return &ChangeFeed{dsn: dsn, channel: ListenChannel, log: log}
}

// Subscribe opens the listener and starts forwarding notifications. The
// returned release func closes the listener and the channel exactly once;
// calling it again is a no-op.
func (f *ChangeFeed) Subscribe(ctx context.Context) (<-chan catalog.Change, func(), error) {
	listener := pq.NewListener(f.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			f.log.Warn("listings feed listener event", "event", int(ev), "error", err)
		}
	})
	if err := listener.Listen(f.channel); err != nil {
		listener.Close()
		return nil, nil, fmt.Errorf("postgres: listen %s: %w", f.channel, err)
	}

	out := make(chan catalog.Change, 1)
	stop := make(chan struct{})

	go func() {
		defer close(out)
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case n, ok := <-listener.Notify:
				if !ok {
					return
				}
				change := catalog.Change{}
				if n != nil {
					change.Op = n.Extra
				}
				select {
				case out <- change:
				default:
					// A refetch is already pending; coalesce.
				}
			}
		}
	}()

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			if err := listener.Close(); err != nil {
				f.log.Warn("listings feed close failed", "error", err)
			}
		})
	}
	return out, release, nil
}

var _ catalog.Feed = (*ChangeFeed)(nil)
