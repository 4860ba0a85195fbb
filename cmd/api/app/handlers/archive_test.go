package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/iov-one/block-ledger/pkg/models"
	"github.com/iov-one/block-ledger/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prepareStore archives the chain of prepareNode.
func prepareStore(t *testing.T, ctx context.Context) (str *store.Store, chain models.Chain, cleanup func()) {
	t.Helper()
	testdb, cleanup := store.EnsureDB(t)
	s := store.NewStore(testdb)

	blocks, err := prepareNode(t).Chain()
	require.NoError(t, err)
	chain = models.NewChain(blocks)
	for _, b := range chain.Blocks {
		if err := s.InsertBlock(ctx, b); err != nil {
			cleanup()
			t.Fatalf("cannot insert block: %s", err)
		}
	}
	return s, chain, cleanup
}

func TestArchiveGetBlocks(t *testing.T) {
	ctx := context.Background()
	s, chain, cleanup := prepareStore(t, ctx)
	defer cleanup()

	h := ArchiveHandler{Store: s}
	ectx, rec := newContext(http.MethodGet, "/archive/blocks?limit=2", nil)

	if assert.NoError(t, h.GetBlocks(ectx)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		want := []models.Block{chain.Blocks[2], chain.Blocks[1]}
		assert.JSONEq(t, mustJSON(t, want), rec.Body.String())
	}
}

func TestArchiveGetBlockByHash(t *testing.T) {
	ctx := context.Background()
	s, chain, cleanup := prepareStore(t, ctx)
	defer cleanup()

	h := ArchiveHandler{Store: s}
	ectx, rec := newContext(http.MethodGet, "/", nil)
	ectx.SetPath("/archive/blocks/hash/:hash")
	ectx.SetParamNames("hash")
	ectx.SetParamValues(chain.Blocks[1].Hash)

	if assert.NoError(t, h.GetBlockByHash(ectx)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, mustJSON(t, chain.Blocks[1]), rec.Body.String())
	}
}

func TestArchiveQueryTxs(t *testing.T) {
	ctx := context.Background()
	s, _, cleanup := prepareStore(t, ctx)
	defer cleanup()

	h := ArchiveHandler{Store: s}
	ectx, rec := newContext(http.MethodPost, "/archive/txs/query", jsonBody(t, map[string]string{
		"recipient": "Bob",
	}))

	if assert.NoError(t, h.QueryTxsByParams(ectx)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		var got []models.Transaction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Alice", got[0].Sender)
		assert.Equal(t, "Charlie", got[1].Sender)
	}
}
