package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/iov-one/block-ledger/cmd/api/app"
	"github.com/iov-one/block-ledger/pkg/ledger"
	"github.com/iov-one/block-ledger/pkg/node"
	"github.com/iov-one/block-ledger/pkg/store"
	_ "github.com/lib/pq"
)

func main() {
	conf := loadConfiguration()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The archive is optional: the ledger itself lives in memory only.
	var st *store.Store
	if conf.ArchiveEnabled() {
		db, err := sql.Open("postgres", conf.PostgresURI())
		if err != nil {
			log.Fatalf("cannot connect to postgres: %s", err)
		}
		defer db.Close()

		if err := store.EnsureSchema(db); err != nil {
			log.Fatalf("ensure schema: %s", err)
		}
		st = store.NewStore(db)
	}

	n := node.New(conf.NodeID, ledger.WithClock(time.Now))
	log.Printf("node %s started, archive enabled: %t", n.ID(), st != nil)

	a := app.App{}
	a.Initialize(ctx, n, st, conf)

	go func() {
		defer cancel()
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		<-quit
	}()

	a.Run(ctx, conf.Port)
}
