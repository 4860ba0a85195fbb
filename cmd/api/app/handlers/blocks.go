package handlers

import (
	"net/http"
	"strconv"

	"github.com/iov-one/block-ledger/pkg/models"
	"github.com/iov-one/block-ledger/pkg/node"
	"github.com/labstack/echo/v4"
)

// maxLastBlocks caps /blocks/last/:key.
const maxLastBlocks = 100

type BlocksHandler struct {
	Node *node.Node
}

// e.GET("/chain", h.GetChain)
func (h *BlocksHandler) GetChain(c echo.Context) error {
	chain, err := h.Node.Chain()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewChain(chain))
}

// e.GET("/blocks/latest", h.GetLatestBlock)
func (h *BlocksHandler) GetLatestBlock(c echo.Context) error {
	block, err := h.Node.LastBlock()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.NewBlock(block))
}

// e.GET("/blocks/last/:key", h.GetLatestNBlocks)
func (h *BlocksHandler) GetLatestNBlocks(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("key"))
	if err != nil || n < 1 || n > maxLastBlocks {
		return echo.NewHTTPError(http.StatusBadRequest, "key must be a number between 1 and 100")
	}

	blocks, err := h.Node.LastN(n)
	if err != nil {
		return err
	}
	res := make([]models.Block, 0, len(blocks))
	for _, b := range blocks {
		res = append(res, models.NewBlock(b))
	}
	return c.JSON(http.StatusOK, res)
}

// e.GET("/blocks/:index", h.GetBlock)
func (h *BlocksHandler) GetBlock(c echo.Context) error {
	index, err := strconv.ParseUint(c.Param("index"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid block index")
	}

	block, err := h.Node.Block(index)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewBlock(block))
}
