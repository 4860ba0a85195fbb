package handlers

import (
	"fmt"
	"net/http"

	"github.com/iov-one/block-ledger/pkg/ledger"
	"github.com/iov-one/block-ledger/pkg/models"
	"github.com/iov-one/block-ledger/pkg/node"
	"github.com/iov-one/block-ledger/utils"
	"github.com/labstack/echo/v4"
)

type TxsHandler struct {
	Node *node.Node
}

type newTransaction struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// e.POST("/transactions/new", h.NewTransaction)
//
// The returned index is where the transaction is expected to land. A block
// mined by someone else in between makes it stale.
func (h *TxsHandler) NewTransaction(c echo.Context) error {
	req := new(newTransaction)
	if err := c.Bind(req); err != nil {
		return err
	}

	index, err := h.Node.SubmitTransaction(ledger.NewTransaction(req.Sender, req.Recipient, req.Amount))
	if err != nil {
		return err
	}

	res := utils.Message(true, fmt.Sprintf("New transaction will be added to block %d", index))
	res["index"] = index
	return c.JSON(http.StatusCreated, res)
}

// e.GET("/transactions/pending", h.GetPending)
func (h *TxsHandler) GetPending(c echo.Context) error {
	txs, err := h.Node.Pending()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewPending(txs))
}
