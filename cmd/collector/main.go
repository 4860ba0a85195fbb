package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/iov-one/block-ledger/pkg/collector"
	"github.com/iov-one/block-ledger/pkg/config"
	"github.com/iov-one/block-ledger/pkg/store"
	"github.com/iov-one/block-ledger/utils"
	_ "github.com/lib/pq"

	"github.com/iov-one/weave/errors"
)

// reconnectDelay is how long the collector waits before dialing the ledger
// again after the feed was closed.
const reconnectDelay = 2 * time.Second

func main() {
	conf := config.Configuration{
		DBHost:      os.Getenv("POSTGRES_HOST"),
		DBName:      os.Getenv("POSTGRES_DB_NAME"),
		DBUser:      os.Getenv("POSTGRES_USER"),
		DBPass:      os.Getenv("POSTGRES_PASSWORD"),
		DBSSL:       utils.Env("POSTGRES_SSL_ENABLE", "disable"),
		LedgerWsURI: utils.Env("LEDGER_WS_URI", "ws://localhost:8000/api/ws/blocks"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer cancel()
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		<-quit
	}()

	if err := run(ctx, conf); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
}

func run(ctx context.Context, conf config.Configuration) error {
	db, err := sql.Open("postgres", conf.PostgresURI())
	if err != nil {
		return fmt.Errorf("cannot connect to postgres: %s", err)
	}
	defer db.Close()

	if err := store.EnsureSchema(db); err != nil {
		return fmt.Errorf("ensure schema: %s", err)
	}

	st := store.NewStore(db)

	for {
		from, err := collector.NextIndex(ctx, st)
		if err != nil {
			return errors.Wrap(err, "next index")
		}

		c, err := collector.DialLedger(ctx, conf.LedgerWsURI, from)
		if err != nil {
			return errors.Wrap(err, "dial ledger")
		}

		inserted, err := collector.Sync(ctx, c, st)
		c.Close()
		log.Printf("inserted: %d, next index: %d", inserted, from+uint64(inserted))

		switch {
		case err == ctx.Err() && err != nil:
			return err
		case collector.ErrFeedClosed.Is(err):
			log.Printf("%s, reconnecting", err)
		case err != nil:
			return errors.Wrap(err, "sync")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}
