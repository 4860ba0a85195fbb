package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/iov-one/block-ledger/pkg/models"
	"github.com/iov-one/block-ledger/pkg/node"
	"github.com/labstack/echo/v4"
)

type MineHandler struct {
	Node *node.Node
	// Timeout bounds a single request. Zero means the request context alone
	// decides.
	Timeout time.Duration
}

// e.GET("/mine", h.Mine)
func (h *MineHandler) Mine(c echo.Context) error {
	ctx := c.Request().Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	block, err := h.Node.Mine(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewBlock(block))
}
