package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/iov-one/block-ledger/cmd/api/app/handlers"
	"github.com/iov-one/block-ledger/pkg/config"
	"github.com/iov-one/block-ledger/pkg/ledger"
	"github.com/iov-one/block-ledger/pkg/node"
	"github.com/iov-one/block-ledger/pkg/store"
	"github.com/iov-one/weave/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type App struct {
	Server *echo.Echo
	Node   *node.Node
	// Store is nil when no archive is configured.
	Store *store.Store
	ctx   context.Context
}

func (a *App) Initialize(ctx context.Context, n *node.Node, st *store.Store, conf config.Configuration) {
	a.ctx = ctx
	a.Node = n
	a.Store = st

	e := echo.New()
	g := e.Group("/api")

	blocksHandler := handlers.BlocksHandler{Node: n}
	g.GET("/chain", blocksHandler.GetChain)
	blockApi := g.Group("/blocks")
	blockApi.GET("/latest", blocksHandler.GetLatestBlock)
	blockApi.GET("/last/:key", blocksHandler.GetLatestNBlocks)
	blockApi.GET("/:index", blocksHandler.GetBlock)

	txsHandler := handlers.TxsHandler{Node: n}
	txApi := g.Group("/transactions")
	txApi.POST("/new", txsHandler.NewTransaction)
	txApi.GET("/pending", txsHandler.GetPending)

	mineHandler := handlers.MineHandler{Node: n, Timeout: conf.MineTimeout}
	g.GET("/mine", mineHandler.Mine)

	feedHandler := handlers.FeedHandler{Node: n}
	g.GET("/ws/blocks", feedHandler.Blocks)

	if st != nil {
		archiveHandler := handlers.ArchiveHandler{Store: st}
		archiveApi := g.Group("/archive")
		archiveApi.GET("/blocks", archiveHandler.GetBlocks)
		archiveApi.GET("/blocks/hash/:hash", archiveHandler.GetBlockByHash)
		archiveApi.GET("/blocks/:index", archiveHandler.GetBlock)
		archiveApi.POST("/txs/query", archiveHandler.QueryTxsByParams)
	}

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins(conf.AllowedOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10, // 1 KB
	}))

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if _, ok := err.(*echo.HTTPError); !ok {
			err = &echo.HTTPError{
				Code:     errorStatus(err),
				Message:  err.Error(),
				Internal: err,
			}
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
	a.Server = e
}

func (a *App) Run(ctx context.Context, port string) {
	go func() {
		if err := a.Server.Start(":" + port); err != nil {
			a.Server.Logger.Info("Shutting down the server")
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Server.Shutdown(ctx); err != nil {
		a.Server.Logger.Fatal(err)
	}
}

func errorStatus(err error) int {
	switch {
	case errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case node.ErrInvalidTransaction.Is(err),
		store.ErrLimit.Is(err),
		ledger.ErrDigestSize.Is(err):
		return http.StatusBadRequest
	case err == context.DeadlineExceeded:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func allowedOrigins(conf string) []string {
	if conf == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(conf, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
