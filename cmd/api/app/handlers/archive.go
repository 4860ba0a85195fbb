package handlers

import (
	"net/http"
	"strconv"

	"github.com/iov-one/block-ledger/pkg/store"
	"github.com/labstack/echo/v4"
)

type ArchiveHandler struct {
	Store *store.Store
}

type blockQuery struct {
	Limit int `query:"limit"`
	// After is block index
	After int `query:"after"`
}

// e.GET("/archive/blocks?limit=:limit&after=:after", h.GetBlocks)
func (h *ArchiveHandler) GetBlocks(c echo.Context) error {
	q := new(blockQuery)
	q.Limit = 10
	if err := c.Bind(q); err != nil {
		return err
	}

	blocks, err := h.Store.LastNBlock(c.Request().Context(), q.Limit, q.After)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, blocks)
}

// e.GET("/archive/blocks/:index", h.GetBlock)
func (h *ArchiveHandler) GetBlock(c echo.Context) error {
	index, err := strconv.ParseUint(c.Param("index"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid block index")
	}

	block, err := h.Store.LoadBlock(c.Request().Context(), index)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, block)
}

// e.GET("/archive/blocks/hash/:hash", h.GetBlockByHash)
func (h *ArchiveHandler) GetBlockByHash(c echo.Context) error {
	block, err := h.Store.LoadBlockByHash(c.Request().Context(), c.Param("hash"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, block)
}

type txQuery struct {
	Sender    string `json:"sender,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

// e.POST("/archive/txs/query", h.QueryTxsByParams)
func (h *ArchiveHandler) QueryTxsByParams(c echo.Context) error {
	q := new(txQuery)
	if err := c.Bind(q); err != nil {
		return err
	}

	txs, err := h.Store.LoadTxsByParams(c.Request().Context(), q.Sender, q.Recipient)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, txs)
}
