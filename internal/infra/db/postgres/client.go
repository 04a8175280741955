package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the listings table and the change-notification
// trigger if they do not exist. The trigger fires pg_notify on every row
// insert, update or delete; the payload is just the operation name since the
// catalog always refetches instead of applying deltas.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS listings (
		id               uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		title            text,
		description      text,
		price            numeric(10,2) DEFAULT 0,
		weekend_price    numeric(10,2),
		seasonal_price   numeric(10,2),
		cleaning_fee     numeric(10,2),
		min_stay         integer,
		location         text,
		image_url        text,
		gallery          text[] NOT NULL DEFAULT '{}',
		amenities        text[] NOT NULL DEFAULT '{}',
		owner_id         uuid,
		owner_phone      text,
		owner_name       text,
		owner_bio        text,
		owner_avatar_url text,
		guests           integer,
		bedrooms         integer,
		beds             integer,
		baths            integer,
		lat              double precision,
		lng              double precision,
		rating           numeric(4,2) DEFAULT 5.0,
		reviews_count    integer DEFAULT 0,
		featured         boolean NOT NULL DEFAULT false,
		active           boolean NOT NULL DEFAULT true,
		created_at       timestamptz NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings (created_at DESC);

	CREATE OR REPLACE FUNCTION notify_listings_changed() RETURNS trigger AS $fn$
	BEGIN
		PERFORM pg_notify('listings_changed', TG_OP);
		RETURN NULL;
	END;
	$fn$ LANGUAGE plpgsql;

	DROP TRIGGER IF EXISTS listings_changed ON listings;
	CREATE TRIGGER listings_changed
		AFTER INSERT OR UPDATE OR DELETE ON listings
		FOR EACH ROW EXECUTE FUNCTION notify_listings_changed();
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}
