package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iov-one/block-ledger/pkg/ledger"
	"github.com/iov-one/block-ledger/pkg/models"
	"github.com/iov-one/block-ledger/pkg/node"
	"github.com/iov-one/weave/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memArchive struct {
	mu     sync.Mutex
	blocks []models.Block
}

func (a *memArchive) InsertBlock(ctx context.Context, b models.Block) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, have := range a.blocks {
		if have.Index == b.Index {
			return errors.Wrapf(errors.ErrDuplicate, "block %d", b.Index)
		}
	}
	a.blocks = append(a.blocks, b)
	return nil
}

func (a *memArchive) LatestBlock(ctx context.Context) (*models.Block, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.blocks) == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, "no blocks")
	}
	b := a.blocks[len(a.blocks)-1]
	return &b, nil
}

// minedChain returns a chain of n blocks, genesis included.
func minedChain(t *testing.T, n int) []models.Block {
	t.Helper()
	nd := node.New("collector-test")
	for i := 1; i < n; i++ {
		_, err := nd.SubmitTransaction(ledger.NewTransaction("alice", "bob", uint64(i)))
		require.NoError(t, err)
		_, err = nd.Mine(context.Background())
		require.NoError(t, err)
	}
	chain, err := nd.Chain()
	require.NoError(t, err)
	return models.NewChain(chain).Blocks
}

// feedServer serves blocks to every client and then closes the connection
// normally. The requested from index is reported on the returned channel.
func feedServer(t *testing.T, blocks []models.Block) (*httptest.Server, <-chan string) {
	t.Helper()
	froms := make(chan string, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		froms <- r.URL.Query().Get("from")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, b := range blocks {
			if err := conn.WriteJSON(b); err != nil {
				return
			}
		}
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	}))
	t.Cleanup(srv.Close)
	return srv, froms
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/blocks"
}

func TestSync(t *testing.T) {
	blocks := minedChain(t, 3)
	srv, froms := feedServer(t, blocks)

	ctx := context.Background()
	archive := &memArchive{}
	from, err := NextIndex(ctx, archive)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), from)

	c, err := DialLedger(ctx, wsURL(srv), from)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "1", <-froms)

	inserted, err := Sync(ctx, c, archive)
	assert.True(t, ErrFeedClosed.Is(err), "unexpected error: %v", err)
	assert.Equal(t, 3, inserted)
	assert.Equal(t, blocks, archive.blocks)

	from, err = NextIndex(ctx, archive)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), from)
}

func TestSyncResumes(t *testing.T) {
	blocks := minedChain(t, 4)
	archive := &memArchive{blocks: blocks[:2]}
	srv, froms := feedServer(t, blocks[2:])

	ctx := context.Background()
	from, err := NextIndex(ctx, archive)
	require.NoError(t, err)

	c, err := DialLedger(ctx, wsURL(srv), from)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "3", <-froms)

	inserted, err := Sync(ctx, c, archive)
	assert.True(t, ErrFeedClosed.Is(err), "unexpected error: %v", err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, blocks, archive.blocks)
}

func TestSyncRejectsInvalidBlocks(t *testing.T) {
	blocks := minedChain(t, 3)

	tampered := make([]models.Block, len(blocks))
	copy(tampered, blocks)
	tampered[1].Proof++

	unlinked := make([]models.Block, len(blocks))
	copy(unlinked, blocks)
	unlinked[0].Timestamp = 7
	unlinked[0].Hash = mustHash(t, unlinked[0])

	cases := map[string]struct {
		archived []models.Block
		feed     []models.Block
		inserted int
	}{
		"hash does not match content": {
			feed:     tampered,
			inserted: 1,
		},
		"gap in indexes": {
			archived: blocks[:1],
			feed:     blocks[2:],
		},
		"empty archive must start at genesis": {
			feed: blocks[1:],
		},
		"broken previous hash": {
			feed:     unlinked,
			inserted: 1,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := feedServer(t, tc.feed)
			ctx := context.Background()
			archive := &memArchive{blocks: tc.archived}

			c, err := DialLedger(ctx, wsURL(srv), 1)
			require.NoError(t, err)
			defer c.Close()

			inserted, err := Sync(ctx, c, archive)
			assert.True(t, ErrInvalidBlock.Is(err), "unexpected error: %v", err)
			assert.Equal(t, tc.inserted, inserted)
		})
	}
}

func TestSyncCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// Wait for the client to go away.
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c, err := DialLedger(ctx, wsURL(srv), 1)
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	inserted, err := Sync(ctx, c, &memArchive{})
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 0, inserted)
}

func TestDialLedgerInvalidURI(t *testing.T) {
	_, err := DialLedger(context.Background(), "ws://127.0.0.1:1/api/ws/blocks", 1)
	assert.Error(t, err)

	_, err = DialLedger(context.Background(), "::not a uri", 1)
	assert.Error(t, err)
}

func mustHash(t *testing.T, b models.Block) string {
	t.Helper()
	lb, err := b.LedgerBlock()
	require.NoError(t, err)
	return lb.Digest().String()
}
