package collector

import (
	"context"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/iov-one/block-ledger/pkg/models"
	"github.com/iov-one/block-ledger/pkg/store"
	"github.com/iov-one/weave/errors"
)

// Archive is where collected blocks end up. *store.Store implements it.
type Archive interface {
	InsertBlock(ctx context.Context, b models.Block) error
	LatestBlock(ctx context.Context) (*models.Block, error)
}

var _ Archive = (*store.Store)(nil)

// Client reads blocks from the websocket feed of a ledger node.
type Client struct {
	conn *websocket.Conn
}

// DialLedger connects to the block feed at uri, asking for every block with
// an index of at least from.
func DialLedger(ctx context.Context, uri string, from uint64) (*Client, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrap(err, "feed uri")
	}
	q := u.Query()
	q.Set("from", strconv.FormatUint(from, 10))
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "dial ledger feed")
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Next blocks until the next block arrives.
func (c *Client) Next() (models.Block, error) {
	var b models.Block
	if err := c.conn.ReadJSON(&b); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseTryAgainLater) {
			return b, errors.Wrap(ErrFeedClosed, err.Error())
		}
		return b, errors.Wrap(err, "read block")
	}
	return b, nil
}

// NextIndex returns the index of the first block missing from the archive.
func NextIndex(ctx context.Context, archive Archive) (uint64, error) {
	latest, err := archive.LatestBlock(ctx)
	switch {
	case errors.ErrNotFound.Is(err):
		return 1, nil
	case err != nil:
		return 0, err
	}
	return latest.Index + 1, nil
}

// Sync archives blocks from the feed until ctx is done or the feed fails.
// Every block must carry a hash matching its content and continue the
// previously archived one. It returns the number of inserted blocks.
func Sync(ctx context.Context, c *Client, archive Archive) (inserted int, err error) {
	prev, err := archive.LatestBlock(ctx)
	switch {
	case errors.ErrNotFound.Is(err):
		prev = nil
	case err != nil:
		return 0, errors.Wrap(err, "latest archived block")
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()

	for {
		b, err := c.Next()
		if err != nil {
			if ctx.Err() != nil {
				return inserted, ctx.Err()
			}
			return inserted, err
		}

		if err := follows(prev, b); err != nil {
			return inserted, err
		}
		if err := archive.InsertBlock(ctx, b); err != nil {
			return inserted, errors.Wrapf(err, "insert block %d", b.Index)
		}
		inserted++
		prev = &b
	}
}

// follows checks that b is a well formed successor of prev. A nil prev
// means the archive is empty.
func follows(prev *models.Block, b models.Block) error {
	ok, err := b.Verify()
	if err != nil {
		return errors.Wrapf(ErrInvalidBlock, "block %d: %s", b.Index, err)
	}
	if !ok {
		return errors.Wrapf(ErrInvalidBlock, "block %d hash does not match its content", b.Index)
	}

	if prev == nil {
		if b.Index != 1 {
			return errors.Wrapf(ErrInvalidBlock, "archive is empty, got block %d", b.Index)
		}
		return nil
	}
	if b.Index != prev.Index+1 {
		return errors.Wrapf(ErrInvalidBlock, "got block %d after %d", b.Index, prev.Index)
	}
	if b.PreviousHash != prev.Hash {
		return errors.Wrapf(ErrInvalidBlock, "block %d does not link to %s", b.Index, prev.Hash)
	}
	return nil
}
