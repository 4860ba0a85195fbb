package ledger

import (
	"time"

	"github.com/iov-one/weave/errors"
)

const (
	// GenesisProof seeds the puzzle chain. It is not a solved proof.
	GenesisProof uint64 = 42
)

// Ledger is an append-only chain of blocks together with the pool of
// transactions waiting for the next block.
//
// A Ledger is not safe for concurrent use. Callers sharing one must provide a
// single-writer discipline, see the node package.
type Ledger struct {
	chain   chain
	pending []Transaction
	clock   func() time.Time
}

// Option configures a Ledger created by New.
type Option func(*Ledger)

// WithClock makes the ledger timestamp new blocks using now. Without it every
// block carries timestamp 0.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.clock = now
	}
}

// New returns a ledger holding only the genesis block and an empty pool.
func New(opts ...Option) *Ledger {
	l := &Ledger{}
	for _, o := range opts {
		o(l)
	}
	l.chain = newChain(Block{
		Index:          1,
		Timestamp:      0,
		Transactions:   []Transaction{},
		Proof:          GenesisProof,
		PreviousDigest: ZeroDigest(),
	})
	return l
}

// AddTransaction queues tx for the next block. It returns the index of the
// block the transaction is expected to land in. The index is only a
// prediction: it is stale if someone else creates a block first.
func (l *Ledger) AddTransaction(tx Transaction) uint64 {
	l.pending = append(l.pending, tx)
	return l.chain.last().Index + 1
}

// AddBlockWithPreviousHash appends a block holding every pending
// transaction, linked to previous. The pool is empty afterwards.
func (l *Ledger) AddBlockWithPreviousHash(proof uint64, previous Digest) {
	block := Block{
		Index:          uint64(l.chain.len()) + 1,
		Timestamp:      l.now(),
		Transactions:   l.pending,
		Proof:          proof,
		PreviousDigest: previous,
	}
	l.pending = nil
	l.chain.push(block)
}

// AddBlock appends a block linked to the digest of the current last block.
func (l *Ledger) AddBlock(proof uint64) {
	l.AddBlockWithPreviousHash(proof, l.chain.last().Digest())
}

// LastBlock returns the most recently appended block.
func (l *Ledger) LastBlock() Block {
	return l.chain.last().clone()
}

// Len returns the number of blocks, genesis included. It is at least 1.
func (l *Ledger) Len() int {
	return l.chain.len()
}

// Block returns the block with the given 1-based index. ErrNotFound is
// returned for indexes outside of the chain.
func (l *Ledger) Block(index uint64) (Block, error) {
	if index == 0 || index > uint64(l.chain.len()) {
		return Block{}, errors.Wrapf(errors.ErrNotFound, "block %d", index)
	}
	return l.chain.at(int(index - 1)).clone(), nil
}

// Chain returns a copy of all blocks, genesis first.
func (l *Ledger) Chain() []Block {
	blocks := make([]Block, 0, l.chain.len())
	for i := 0; i < l.chain.len(); i++ {
		blocks = append(blocks, l.chain.at(i).clone())
	}
	return blocks
}

// Pending returns a copy of the transactions waiting for the next block.
func (l *Ledger) Pending() []Transaction {
	return append([]Transaction{}, l.pending...)
}

// Verify checks that every block sits at its index and references the
// digest of its predecessor, and that genesis has no predecessor.
func (l *Ledger) Verify() error {
	if !l.chain.genesis.PreviousDigest.IsZero() {
		return errors.Wrap(ErrBrokenChain, "genesis has a predecessor")
	}
	for i := 0; i < l.chain.len(); i++ {
		b := l.chain.at(i)
		if b.Index != uint64(i+1) {
			return errors.Wrapf(ErrBrokenChain, "block at position %d has index %d", i, b.Index)
		}
		if i == 0 {
			continue
		}
		if want := l.chain.at(i - 1).Digest(); b.PreviousDigest != want {
			return errors.Wrapf(ErrBrokenChain, "block %d previous digest %s, want %s", b.Index, b.PreviousDigest, want)
		}
	}
	return nil
}

func (l *Ledger) now() int64 {
	if l.clock == nil {
		return 0
	}
	return l.clock().Unix()
}
