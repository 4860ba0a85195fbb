package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iov-one/block-ledger/pkg/models"
	"github.com/iov-one/block-ledger/pkg/node"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is enforced by the middleware for the rest of the API; the feed is
	// read only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type FeedHandler struct {
	Node *node.Node
}

// e.GET("/ws/blocks?from=:index", h.Blocks)
//
// Streams every block with an index of at least from (1 by default) as JSON
// messages, then every block mined afterwards. A subscriber that falls
// behind is disconnected with CloseTryAgainLater and should reconnect from
// the next index it is missing.
func (h *FeedHandler) Blocks(c echo.Context) error {
	from := uint64(1)
	if v := c.QueryParam("from"); v != "" {
		var err error
		if from, err = strconv.ParseUint(v, 10, 64); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from index")
		}
	}

	backlog, sub, err := h.Node.Subscribe(from)
	if err != nil {
		return err
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader already replied to the client.
		c.Logger().Warnf("websocket upgrade: %s", err)
		return nil
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for _, b := range backlog {
		if err := writeBlock(conn, models.NewBlock(b)); err != nil {
			return nil
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case b, ok := <-sub.C:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscriber fell behind")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return nil
			}
			if err := writeBlock(conn, models.NewBlock(b)); err != nil {
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-closed:
			return nil
		}
	}
}

func writeBlock(conn *websocket.Conn, b models.Block) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(b)
}
