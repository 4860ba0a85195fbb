package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iov-one/block-ledger/pkg/ledger"
	"github.com/iov-one/block-ledger/pkg/node"
	"github.com/labstack/echo/v4"
)

// prepareNode returns a node whose chain holds the genesis block and two
// mined blocks, the first one carrying the Alice and Charlie transactions.
func prepareNode(t *testing.T) *node.Node {
	t.Helper()

	n := node.New("test-node")
	for _, tx := range []ledger.Transaction{
		ledger.NewTransaction("Alice", "Bob", 10),
		ledger.NewTransaction("Charlie", "Bob", 20),
	} {
		if _, err := n.SubmitTransaction(tx); err != nil {
			t.Fatalf("cannot submit transaction: %s", err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := n.Mine(context.Background()); err != nil {
			t.Fatalf("cannot mine block: %s", err)
		}
	}
	return n
}

func newContext(method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("cannot marshal: %s", err)
	}
	return strings.NewReader(string(raw))
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("cannot marshal: %s", err)
	}
	return string(raw)
}

